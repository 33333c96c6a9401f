// Package main provides the wrapped CLI entry point.
// wrapped builds "Messages Wrapped" reports from the local iMessage history.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/wrapped-cli/cmd"
	"github.com/otherjamesbrown/wrapped-cli/config"
	"github.com/otherjamesbrown/wrapped-cli/pkg/buildinfo"
)

// Global flags and state.
var (
	outputFormat string
	debug        bool

	// cfg holds the loaded configuration.
	cfg *config.CLIConfig
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wrapped",
	Short: "Messages Wrapped - statistics from your iMessage history",
	Long: `wrapped builds a "Messages Wrapped" report from the local iMessage
history: message volume, busiest days, response times, streaks, and the
emoji and words you actually use.

Everything runs locally. The Messages database is snapshotted before
reading and nothing leaves your machine.

COMMON WORKFLOWS:
  Build the report:  wrapped report --out wrapped.html
  Browse it live:    wrapped serve  →  open http://localhost:8490
  Quick numbers:     wrapped stats --year 2024
  Debug a name:      wrapped contacts resolve "+1 555 010 1234"

DISCOVERY:
  wrapped <command> --help    Subcommands, flags, and examples for any command`,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		// Skip initialization for commands that don't need it.
		if c.Name() == "version" || c.Name() == "help" || c.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		// Override with command-line flags.
		if outputFormat != "" {
			cfg.OutputFormat = config.OutputFormat(outputFormat)
		}
		if debug {
			cfg.Debug = true
		}

		return nil
	},
}

// loadRootConfig hands the already-loaded configuration to subcommands.
func loadRootConfig() (*config.CLIConfig, error) {
	if cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig()
}

// Version command flags.
var versionOutputJSON bool

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the version, commit hash, and build time of the wrapped CLI.

Examples:
  wrapped version
  wrapped version --output-json`,
	RunE: func(c *cobra.Command, args []string) error {
		info := buildinfo.Get("wrapped")
		out := c.OutOrStdout()

		if versionOutputJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Fprintf(out, "wrapped version %s\n", info.Version)
		fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  built:      %s\n", info.BuildTime)
		return nil
	},
}

// configCmd groups configuration management commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `View and modify the wrapped CLI configuration settings.`,
}

// configShowCmd displays current configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current CLI configuration values.`,
	RunE: func(c *cobra.Command, args []string) error {
		current, err := loadRootConfig()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		configPath, _ := config.ConfigPath()
		messagesDB, _ := current.GetMessagesDB()
		contactsDir, _ := current.GetContactsDir()

		out := c.OutOrStdout()
		fmt.Fprintln(out, "Current configuration:")
		fmt.Fprintf(out, "  Config file:     %s\n", configPath)
		fmt.Fprintf(out, "  Messages DB:     %s\n", messagesDB)
		fmt.Fprintf(out, "  Contacts dir:    %s\n", contactsDir)
		fmt.Fprintf(out, "  Listen address:  %s\n", current.ListenAddress)
		fmt.Fprintf(out, "  Output format:   %s\n", current.OutputFormat)
		fmt.Fprintf(out, "  First year:      %s\n", intOrDefault(current.FirstYear, "(all years)"))
		fmt.Fprintf(out, "  Debug:           %t\n", current.Debug)
		return nil
	},
}

// intOrDefault formats a positive int, or the placeholder for zero.
func intOrDefault(v int, placeholder string) string {
	if v == 0 {
		return placeholder
	}
	return strconv.Itoa(v)
}

// configInitCmd initializes configuration.
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with default values if one doesn't exist.`,
	RunE: func(c *cobra.Command, args []string) error {
		configPath, err := config.ConfigPath()
		if err != nil {
			return fmt.Errorf("getting config path: %w", err)
		}

		out := c.OutOrStdout()
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Configuration file already exists: %s\n", configPath)
			fmt.Fprintln(out, "Use 'wrapped config show' to view current settings.")
			return nil
		}

		defaultCfg := config.DefaultConfig()
		if err := config.SaveConfig(defaultCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Fprintf(out, "Created configuration file: %s\n", configPath)
		fmt.Fprintln(out, "\nDefault settings:")
		fmt.Fprintf(out, "  Listen address: %s\n", defaultCfg.ListenAddress)
		fmt.Fprintf(out, "  Output format:  %s\n", defaultCfg.OutputFormat)
		return nil
	},
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Available keys:
  messages_db             - Path to the Messages chat.db (supports ~)
  contacts_dir            - Path to the AddressBook Sources directory (supports ~)
  listen_address          - Serve listen address (host:port)
  output_format           - Default output format (text, json, yaml)
  first_year              - Drop report years before this year (0 for all)
  top_conversations       - All-time conversation list size
  top_emojis              - Emoji list size
  top_words               - Word list size
  min_conversation_total  - All-time conversation volume floor
  debug                   - Enable debug logging (true/false)

Examples:
  wrapped config set messages_db ~/Library/Messages/chat.db
  wrapped config set first_year 2015
  wrapped config set output_format json`,
	Args: cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		currentCfg, err := config.LoadConfig()
		if err != nil {
			// If config doesn't exist or is invalid, start with defaults.
			currentCfg = config.DefaultConfig()
		}

		switch key {
		case "messages_db":
			currentCfg.MessagesDB = value
		case "contacts_dir":
			currentCfg.ContactsDir = value
		case "listen_address":
			currentCfg.ListenAddress = value
		case "output_format":
			format := config.OutputFormat(value)
			if !format.IsValid() {
				return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", value)
			}
			currentCfg.OutputFormat = format
		case "first_year", "top_conversations", "top_emojis", "top_words", "min_conversation_total":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid %s value: %s (must be a non-negative integer)", key, value)
			}
			switch key {
			case "first_year":
				currentCfg.FirstYear = n
			case "top_conversations":
				currentCfg.TopConversations = n
			case "top_emojis":
				currentCfg.TopEmojis = n
			case "top_words":
				currentCfg.TopWords = n
			case "min_conversation_total":
				currentCfg.MinConversationTotal = n
			}
		case "debug":
			switch value {
			case "true", "1":
				currentCfg.Debug = true
			case "false", "0":
				currentCfg.Debug = false
			default:
				return fmt.Errorf("invalid debug value: %s (must be true or false)", value)
			}
		default:
			return fmt.Errorf("unknown configuration key: %s", key)
		}

		if err := config.SaveConfig(currentCfg); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}

		fmt.Fprintf(c.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

// completionCmd generates shell completion scripts.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for wrapped.

To load completions:

Bash:
  $ source <(wrapped completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wrapped completion bash > /etc/bash_completion.d/wrapped
  # macOS:
  $ wrapped completion bash > $(brew --prefix)/etc/bash_completion.d/wrapped

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ wrapped completion zsh > "${fpath[1]}/_wrapped"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ wrapped completion fish | source

  # To load completions for each session, execute once:
  $ wrapped completion fish > ~/.config/fish/completions/wrapped.fish

PowerShell:
  PS> wrapped completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> wrapped completion powershell > wrapped.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(c *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	// Global flags.
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output-format", "", "default output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add command groups for organized help output.
	rootCmd.AddGroup(
		&cobra.Group{ID: "report", Title: "Reports:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)

	reportCmd := cmd.NewReportCommand(&cmd.ReportCommandDeps{LoadConfig: loadRootConfig, LoadMessages: cmd.DefaultReportDeps().LoadMessages})
	reportCmd.GroupID = "report"
	rootCmd.AddCommand(reportCmd)

	serveCmd := cmd.NewServeCommand(&cmd.ServeCommandDeps{LoadConfig: loadRootConfig, LoadMessages: cmd.DefaultServeDeps().LoadMessages})
	serveCmd.GroupID = "report"
	rootCmd.AddCommand(serveCmd)

	statsCmd := cmd.NewStatsCommand(&cmd.StatsCommandDeps{LoadConfig: loadRootConfig, LoadMessages: cmd.DefaultStatsDeps().LoadMessages})
	statsCmd.GroupID = "report"
	rootCmd.AddCommand(statsCmd)

	contactsCmd := cmd.NewContactsCommand(&cmd.ContactsCommandDeps{LoadConfig: loadRootConfig, LoadDirectory: cmd.DefaultContactsDeps().LoadDirectory})
	contactsCmd.GroupID = "report"
	rootCmd.AddCommand(contactsCmd)

	configCmd.GroupID = "setup"
	rootCmd.AddCommand(configCmd)

	completionCmd.GroupID = "setup"
	rootCmd.AddCommand(completionCmd)

	versionCmd.GroupID = "setup"
	versionCmd.Flags().BoolVar(&versionOutputJSON, "output-json", false, "Output as JSON")
	rootCmd.AddCommand(versionCmd)

	// Config subcommands.
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
}

func main() {
	// Set up signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
		// A second signal forces exit.
		<-sigChan
		os.Exit(1)
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
