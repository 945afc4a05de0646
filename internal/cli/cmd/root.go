// Package cmd provides Cobra CLI commands for lexgrid.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/lexgrid/internal/cli"
)

var (
	app     *cli.App
	opts    cli.Options
	rootCmd = &cobra.Command{
		Use:   "lexgrid",
		Short: "Multi-pane workspace layout engine",
		Long: `lexgrid keeps a window's panes arranged in rows, persists the
arrangement per window and restores it on the next start.

Use 'lexgrid layout' to inspect or edit the saved layout from the shell and
'lexgrid inspect' for an interactive view with mouse resizing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp(opts)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.WindowStateID, "window", "w", "", "window state id (default from config)")
	rootCmd.PersistentFlags().StringVar(&opts.DatabasePath, "db", "", "settings database path (default from config)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetBuildInfo sets the version string shown by --version.
func SetBuildInfo(version, commit, buildDate string) {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate)
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}
