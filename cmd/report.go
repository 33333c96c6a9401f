package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/wrapped-cli/config"
	"github.com/otherjamesbrown/wrapped-cli/pkg/logging"
	"github.com/otherjamesbrown/wrapped-cli/pkg/report"
)

// Report command flags.
var (
	reportOut    string
	reportOutput string
)

// ReportCommandDeps holds the dependencies for the report command.
type ReportCommandDeps struct {
	Config       *config.CLIConfig
	LoadConfig   func() (*config.CLIConfig, error)
	LoadMessages MessageLoader
}

// DefaultReportDeps returns the default dependencies for production use.
func DefaultReportDeps() *ReportCommandDeps {
	return &ReportCommandDeps{
		LoadConfig:   config.LoadConfig,
		LoadMessages: loadMessages,
	}
}

// NewReportCommand creates the report command.
func NewReportCommand(deps *ReportCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultReportDeps()
	}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the Messages Wrapped report",
		Long: `Build the Messages Wrapped report from your local message history.

The report covers all time plus one view per calendar year, and is written
as a single self-contained HTML file. Use --output json or yaml to dump the
underlying statistics instead of rendering HTML.

Flags:
  --out               Output file path (default wrapped.html)
  -o, --output        Output format: html, json, yaml

Examples:
  wrapped report
  wrapped report --out ~/Desktop/wrapped.html
  wrapped report -o json > stats.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, deps)
		},
	}

	cmd.Flags().StringVar(&reportOut, "out", "wrapped.html", "Output file path")
	cmd.Flags().StringVarP(&reportOutput, "output", "o", "html", "Output format: html, json, yaml")

	return cmd
}

// runReport builds the report and writes it in the requested format.
func runReport(cmd *cobra.Command, deps *ReportCommandDeps) error {
	cfg := deps.Config
	if cfg == nil {
		var err error
		cfg, err = deps.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
	}
	log := newLogger(cfg)

	messages, err := deps.LoadMessages(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}

	rep := report.Build(messages, reportConfig(cfg))
	log.Info("report built",
		logging.F("messages", len(messages)), logging.F("periods", len(rep.Periods)))

	switch reportOutput {
	case "json":
		return outputJSON(cmd.OutOrStdout(), rep)
	case "yaml":
		return outputYAML(cmd.OutOrStdout(), rep)
	case "html":
		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()

		if err := report.Render(f, rep); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote report to %s\n", reportOut)
		return nil
	default:
		return fmt.Errorf("invalid output format: %q (must be html, json, or yaml)", reportOutput)
	}
}
