package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/wrapped-cli/config"
	"github.com/otherjamesbrown/wrapped-cli/pkg/contacts"
	"github.com/otherjamesbrown/wrapped-cli/pkg/logging"
)

// ContactsCommandDeps holds the dependencies for contacts commands.
type ContactsCommandDeps struct {
	Config     *config.CLIConfig
	LoadConfig func() (*config.CLIConfig, error)

	// LoadDirectory builds the address-to-name table. Overridable in tests.
	LoadDirectory func(cmd *cobra.Command, cfg *config.CLIConfig, log logging.Logger) (*contacts.Directory, error)
}

// DefaultContactsDeps returns the default dependencies for production use.
func DefaultContactsDeps() *ContactsCommandDeps {
	return &ContactsCommandDeps{
		LoadConfig: config.LoadConfig,
		LoadDirectory: func(cmd *cobra.Command, cfg *config.CLIConfig, log logging.Logger) (*contacts.Directory, error) {
			contactsDir, err := cfg.GetContactsDir()
			if err != nil {
				return nil, fmt.Errorf("resolving contacts directory: %w", err)
			}
			return contacts.LoadDirectory(cmd.Context(), contactsDir, log)
		},
	}
}

// NewContactsCommand creates the contacts command group.
func NewContactsCommand(deps *ContactsCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultContactsDeps()
	}

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Inspect contact resolution",
		Long: `Inspect how handle addresses resolve to contact names.

Useful for checking why a conversation shows a raw phone number or email
instead of a name.

Examples:
  wrapped contacts resolve "+1 (555) 010-1234"
  wrapped contacts resolve sam@example.com`,
	}

	cmd.AddCommand(newContactsResolveCommand(deps))

	return cmd
}

// newContactsResolveCommand creates the 'contacts resolve' subcommand.
func newContactsResolveCommand(deps *ContactsCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <address>",
		Short: "Resolve a handle address to a contact name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContactsResolve(cmd, deps, args[0])
		},
	}
}

// runContactsResolve resolves one address and reports the match.
func runContactsResolve(cmd *cobra.Command, deps *ContactsCommandDeps, addr string) error {
	cfg := deps.Config
	if cfg == nil {
		var err error
		cfg, err = deps.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
	}
	log := newLogger(cfg)

	dir, err := deps.LoadDirectory(cmd, cfg, log)
	if err != nil {
		return fmt.Errorf("loading contacts: %w", err)
	}

	out := cmd.OutOrStdout()
	name := dir.ResolveHandle(addr)
	fmt.Fprintf(out, "Address:     %s\n", addr)
	fmt.Fprintf(out, "Normalized:  %s\n", contacts.NormalizeAddress(addr))
	fmt.Fprintf(out, "Resolves to: %s\n", name)
	if name == addr {
		fmt.Fprintf(out, "(no contact match among %d known addresses)\n", dir.Len())
	}
	return nil
}
