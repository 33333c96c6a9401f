package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/wrapped-cli/config"
	"github.com/otherjamesbrown/wrapped-cli/pkg/logging"
	"github.com/otherjamesbrown/wrapped-cli/pkg/stats"
)

// mockConfig creates a configuration for command testing.
func mockConfig() *config.CLIConfig {
	return &config.CLIConfig{
		ListenAddress: "localhost:8490",
		OutputFormat:  config.OutputFormatText,
	}
}

// cannedLoader returns a MessageLoader that serves a fixed batch.
func cannedLoader(messages []stats.MessageRecord) MessageLoader {
	return func(ctx context.Context, cfg *config.CLIConfig, log logging.Logger) ([]stats.MessageRecord, error) {
		return messages, nil
	}
}

// sampleMessages is a small two-year history shared across command tests.
func sampleMessages() []stats.MessageRecord {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []stats.MessageRecord{
		{IsFromMe: false, Timestamp: base, ConversationKey: "handle:1", ConversationName: "Alex", Text: "lunch today?"},
		{IsFromMe: true, Timestamp: base.Add(30 * time.Minute), ConversationKey: "handle:1", ConversationName: "Alex", Text: "yes please \U0001F35C"},
		{IsFromMe: false, Timestamp: base.AddDate(-1, 0, 0), ConversationKey: "handle:2", ConversationName: "Sam", Text: "happy new year"},
	}
}

func createReportTestDeps(messages []stats.MessageRecord) *ReportCommandDeps {
	return &ReportCommandDeps{
		Config:       mockConfig(),
		LoadMessages: cannedLoader(messages),
	}
}

func TestNewReportCommand(t *testing.T) {
	cmd := NewReportCommand(DefaultReportDeps())

	require.NotNil(t, cmd)
	assert.Equal(t, "report", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	assert.NotNil(t, cmd.Flags().Lookup("out"))
	outputFlag := cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "html", outputFlag.DefValue)
	assert.NotNil(t, cmd.Flags().ShorthandLookup("o"))
}

func TestNewReportCommand_WithNilDeps(t *testing.T) {
	cmd := NewReportCommand(nil)
	require.NotNil(t, cmd)
	assert.Equal(t, "report", cmd.Use)
}

func TestReportCommand_WritesHTML(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "wrapped.html")

	cmd := NewReportCommand(createReportTestDeps(sampleMessages()))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--out", outPath})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Messages Wrapped")
	assert.Contains(t, string(data), "Alex")
	assert.Contains(t, out.String(), outPath)
}

func TestReportCommand_JSONOutput(t *testing.T) {
	cmd := NewReportCommand(createReportTestDeps(sampleMessages()))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-o", "json"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), `"default_key": "2024"`)
	assert.Contains(t, out.String(), `"total_messages": 3`)
}

func TestReportCommand_InvalidFormat(t *testing.T) {
	cmd := NewReportCommand(createReportTestDeps(nil))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-o", "csv"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
