package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/wrapped-cli/config"
	"github.com/otherjamesbrown/wrapped-cli/pkg/contacts"
	"github.com/otherjamesbrown/wrapped-cli/pkg/logging"
)

func createContactsTestDeps(names map[string]string) *ContactsCommandDeps {
	return &ContactsCommandDeps{
		Config: mockConfig(),
		LoadDirectory: func(cmd *cobra.Command, cfg *config.CLIConfig, log logging.Logger) (*contacts.Directory, error) {
			return contacts.NewDirectory(names, log), nil
		},
	}
}

func TestNewContactsCommand(t *testing.T) {
	cmd := NewContactsCommand(DefaultContactsDeps())

	if cmd == nil {
		t.Fatal("NewContactsCommand returned nil")
	}
	if cmd.Use != "contacts" {
		t.Errorf("Use = %v, want 'contacts'", cmd.Use)
	}

	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "resolve" {
			found = true
		}
	}
	if !found {
		t.Error("resolve subcommand should be registered")
	}
}

func TestContactsResolve_Match(t *testing.T) {
	deps := createContactsTestDeps(map[string]string{"5550101234": "Alex Chen"})
	cmd := NewContactsCommand(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"resolve", "+1 (555) 010-1234"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Resolves to: Alex Chen") {
		t.Errorf("output missing resolution: %q", text)
	}
	if !strings.Contains(text, "Normalized:  5550101234") {
		t.Errorf("output missing normalized address: %q", text)
	}
}

func TestContactsResolve_NoMatch(t *testing.T) {
	deps := createContactsTestDeps(nil)
	cmd := NewContactsCommand(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"resolve", "nobody@example.com"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "no contact match") {
		t.Errorf("output missing no-match note: %q", out.String())
	}
}

func TestContactsResolve_RequiresAddress(t *testing.T) {
	cmd := NewContactsCommand(createContactsTestDeps(nil))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"resolve"})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() should fail without an address argument")
	}
}
