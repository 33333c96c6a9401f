package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/wrapped-cli/config"
	"github.com/otherjamesbrown/wrapped-cli/pkg/report"
)

// Stats command flags.
var (
	statsYear   int
	statsOutput string
)

// StatsCommandDeps holds the dependencies for the stats command.
type StatsCommandDeps struct {
	Config       *config.CLIConfig
	LoadConfig   func() (*config.CLIConfig, error)
	LoadMessages MessageLoader
}

// DefaultStatsDeps returns the default dependencies for production use.
func DefaultStatsDeps() *StatsCommandDeps {
	return &StatsCommandDeps{
		LoadConfig:   config.LoadConfig,
		LoadMessages: loadMessages,
	}
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(deps *StatsCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultStatsDeps()
	}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics for one period",
		Long: `Print messaging statistics for a single period.

Without --year the all-time period is shown.

Flags:
  --year              Calendar year to report on (default all time)
  -o, --output        Output format: text, json, yaml

Examples:
  wrapped stats
  wrapped stats --year 2024
  wrapped stats --year 2024 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, deps)
		},
	}

	cmd.Flags().IntVar(&statsYear, "year", 0, "Calendar year to report on")
	cmd.Flags().StringVarP(&statsOutput, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

// runStats builds the report and prints the requested period.
func runStats(cmd *cobra.Command, deps *StatsCommandDeps) error {
	cfg := deps.Config
	if cfg == nil {
		var err error
		cfg, err = deps.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
	}
	format, err := resolveOutputFormat(statsOutput, cfg)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	messages, err := deps.LoadMessages(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}
	rep := report.Build(messages, reportConfig(cfg))

	key := "all"
	if statsYear != 0 {
		key = strconv.Itoa(statsYear)
	}
	period := rep.Period(key)
	if period == nil {
		return fmt.Errorf("no messages in period %s", key)
	}

	switch format {
	case config.OutputFormatJSON:
		return outputJSON(cmd.OutOrStdout(), period)
	case config.OutputFormatYAML:
		return outputYAML(cmd.OutOrStdout(), period)
	default:
		printPeriodText(cmd.OutOrStdout(), period)
		return nil
	}
}

// printPeriodText writes a human-readable period summary.
func printPeriodText(w io.Writer, period *report.Period) {
	s := period.Stats

	fmt.Fprintf(w, "Period: %s\n", period.Label)
	fmt.Fprintf(w, "  Messages:  %d (%d sent, %d received)\n", s.TotalMessages, s.SentCount, s.ReceivedCount)
	if s.PeriodStart != nil && s.PeriodEnd != nil {
		fmt.Fprintf(w, "  Range:     %s to %s\n", s.PeriodStart, s.PeriodEnd)
	}
	if s.BusiestDay != nil {
		fmt.Fprintf(w, "  Busiest:   %s (%d messages)\n", s.BusiestDay.Date, s.BusiestDay.Count)
	}
	if s.LongestContactStreak != nil {
		cs := s.LongestContactStreak
		fmt.Fprintf(w, "  Streak:    %d days with %s (%s to %s)\n",
			cs.Streak.Length, cs.Name, cs.Streak.Start, cs.Streak.End)
	}

	if len(s.TopEmojis) > 0 {
		fmt.Fprintln(w, "  Top emoji:")
		for _, e := range s.TopEmojis {
			fmt.Fprintf(w, "    %s  %d\n", e.Emoji, e.Count)
		}
	}
	if len(s.TopWords) > 0 {
		fmt.Fprintln(w, "  Top words:")
		for _, word := range s.TopWords {
			fmt.Fprintf(w, "    %-20s %d\n", word.Word, word.Count)
		}
	}
	if len(s.TopConversations) > 0 {
		fmt.Fprintln(w, "  Top conversations:")
		for _, c := range s.TopConversations {
			fmt.Fprintf(w, "    %-30s %6d total  %5d sent  %5d received\n",
				c.Name, c.Total, c.Sent, c.Received)
		}
	}
}
