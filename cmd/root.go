package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxagent/internal/config"
	"github.com/teemow/inboxagent/internal/logging"
)

// rootCmd represents the base command for the inboxagent application
var rootCmd = &cobra.Command{
	Use:   "inboxagent",
	Short: "Answers the Why Small Businesses Matter campaign inbox",
	Long: `inboxagent reads the campaign inbox, classifies every new email and acts
on it: replies are drafted, interview answers become articles, nominated
businesses get invitation letters and spam is archived.

Results are saved per email under the data directory.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		slog.SetDefault(logging.New(os.Stderr, logFormat, debug))
	},
}

// version will be set by main
var version = "dev"

var (
	configPath string
	logFormat  string
	debug      bool
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxagent version %s\n" .Version}}`)

	// If no subcommand is provided, run the inbox once by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "run")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file. Can also use "+config.EnvConfigFile+" env var.")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatText, "Log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}
