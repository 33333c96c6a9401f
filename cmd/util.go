// Package cmd provides CLI commands for the wrapped tool.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/wrapped-cli/config"
	"github.com/otherjamesbrown/wrapped-cli/pkg/chatdb"
	"github.com/otherjamesbrown/wrapped-cli/pkg/contacts"
	"github.com/otherjamesbrown/wrapped-cli/pkg/logging"
	"github.com/otherjamesbrown/wrapped-cli/pkg/report"
	"github.com/otherjamesbrown/wrapped-cli/pkg/stats"
)

// MessageLoader reads the full message history. Commands take it as a
// dependency so tests can supply canned batches.
type MessageLoader func(ctx context.Context, cfg *config.CLIConfig, log logging.Logger) ([]stats.MessageRecord, error)

// loadMessages is the production MessageLoader: resolve contacts, snapshot
// chat.db, and read everything.
func loadMessages(ctx context.Context, cfg *config.CLIConfig, log logging.Logger) ([]stats.MessageRecord, error) {
	contactsDir, err := cfg.GetContactsDir()
	if err != nil {
		return nil, fmt.Errorf("resolving contacts directory: %w", err)
	}
	dir, err := contacts.LoadDirectory(ctx, contactsDir, log)
	if err != nil {
		return nil, fmt.Errorf("loading contacts: %w", err)
	}

	dbPath, err := cfg.GetMessagesDB()
	if err != nil {
		return nil, fmt.Errorf("resolving messages database: %w", err)
	}
	src, err := chatdb.Open(ctx, dbPath, log)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return src.LoadMessages(ctx, dir)
}

// newLogger builds the command logger from the loaded configuration.
func newLogger(cfg *config.CLIConfig) logging.Logger {
	logCfg := logging.DefaultConfig()
	if cfg != nil && cfg.Debug {
		logCfg.Level = logging.LevelDebug
	}
	return logging.NewLogger(logCfg)
}

// reportConfig maps the CLI configuration onto the report policy knobs.
func reportConfig(cfg *config.CLIConfig) report.Config {
	return report.Config{
		FirstYear:            cfg.FirstYear,
		TopConversations:     cfg.TopConversations,
		TopEmojis:            cfg.TopEmojis,
		TopWords:             cfg.TopWords,
		MinConversationTotal: cfg.MinConversationTotal,
	}
}

// resolveOutputFormat picks the per-command flag over the configured default.
func resolveOutputFormat(flagValue string, cfg *config.CLIConfig) (config.OutputFormat, error) {
	if flagValue == "" {
		if cfg != nil && cfg.OutputFormat != "" {
			return cfg.OutputFormat, nil
		}
		return config.OutputFormatText, nil
	}
	format := config.OutputFormat(flagValue)
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %q (must be text, json, or yaml)", flagValue)
	}
	return format, nil
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputYAML writes v as YAML.
func outputYAML(w io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
