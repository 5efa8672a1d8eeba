package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/recgrid/internal/config"
	"github.com/five82/recgrid/internal/grid"
	"github.com/five82/recgrid/internal/viewstore"
)

func newViewsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Inspect and reset saved column layouts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List pages with a saved layout",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withViewStore(flags, func(store viewstore.Store) error {
					keys, err := store.Keys()
					if err != nil {
						return fmt.Errorf("list views: %w", err)
					}
					out := cmd.OutOrStdout()
					if len(keys) == 0 {
						fmt.Fprintln(out, "no saved views")
						return nil
					}
					for _, k := range keys {
						fmt.Fprintln(out, strings.TrimPrefix(k, grid.StoreKey("")))
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "reset <page>",
			Short: "Forget the saved layout of a page",
			Long: `The reset command deletes the stored column layout of a page so the
next start uses the default columns, widths and sort.

Example:
  recgrid views reset people
  recgrid views reset people/3`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withViewStore(flags, func(store viewstore.Store) error {
					key := grid.StoreKey(args[0])
					ok, err := store.Has(key)
					if err != nil {
						return fmt.Errorf("check %s: %w", args[0], err)
					}
					if !ok {
						return fmt.Errorf("no saved view for %q", args[0])
					}
					if err := store.Delete(key); err != nil {
						return fmt.Errorf("reset %s: %w", args[0], err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", args[0])
					return nil
				})
			},
		},
	)
	return cmd
}

func withViewStore(flags *rootFlags, fn func(viewstore.Store) error) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := viewstore.Open(cfg.ViewStore, cfg.ViewStorePath)
	if err != nil {
		return fmt.Errorf("open view store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	return fn(store)
}
