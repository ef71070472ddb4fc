package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/slotfinder/internal/google"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI and the MCP server.
func SetVersion(v string) {
	version = v
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	debug      bool
	account    string
	icsPaths   []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "slotfinder",
		Short: "Calendar conflict checks and rescheduling suggestions",
		Long: `slotfinder checks proposed meeting times against your calendars and
suggests conflict-free alternatives for existing events.

It can run as:
  - A CLI tool (check, suggest, apply)
  - An MCP (Model Context Protocol) server for AI assistants (serve)

Calendars come from Google Calendar (default) or from local .ics files
(--ics or the "ics" section of the config file).`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "slotfinder version %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the YAML config file. Can also use SLOTFINDER_CONFIG env var.")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.account, "account", google.DefaultAccount, "Google account name used for credentials")
	flags.StringSliceVar(&opts.icsPaths, "ics", nil, "Read calendars from local .ics files instead of Google Calendar (repeatable, read-only)")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newCheckCmd(opts),
		newSuggestCmd(opts),
		newApplyCmd(opts),
		newAuthCmd(opts),
		newGenerateDocsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
