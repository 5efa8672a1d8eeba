package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/recgrid/internal/app"
)

// Global flags
type rootFlags struct {
	configPath  string
	prefsPath   string
	pollSeconds int
	verbose     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "recgrid",
		Short: "Browse and edit record tables in the terminal",
		Long: `recgrid is a keyboard-driven spreadsheet view over the people, projects
and tasks tables. Records come from a local SQLite database or, when
api_bind is configured, from the record REST service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				PollEvery:  flags.pollSeconds,
				Verbose:    flags.verbose,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "override config path (optional)")
	cmd.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "override preferences path (optional)")
	cmd.Flags().IntVar(&flags.pollSeconds, "poll", 0, "refresh interval in seconds (optional, defaults to config)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "write debug logs")

	cmd.AddCommand(newSeedCmd(flags), newViewsCmd(flags))
	return cmd
}
