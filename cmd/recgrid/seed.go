package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/recgrid/internal/app"
	"github.com/five82/recgrid/internal/config"
)

func newSeedCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty local database with demo rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.UsesAPI() {
				return fmt.Errorf("api_bind is set; seed only works on the local database")
			}
			source, closeSource, err := app.OpenSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeSource()

			out := cmd.OutOrStdout()
			for _, name := range source.Catalog().Names() {
				rows, err := source.List(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("list %s: %w", name, err)
				}
				fmt.Fprintf(out, "%-10s %d rows\n", name, len(rows))
			}
			fmt.Fprintf(out, "database: %s\n", cfg.Database)
			return nil
		},
	}
}
