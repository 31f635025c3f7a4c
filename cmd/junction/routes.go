package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vitalvas/junction/config"
)

func routesCmd(opts *options) *cobra.Command {
	var (
		all    bool
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes",
		Long: `List the routes registered by the manifest in scan order.

Bundle routes are registered when their bundle starts; pass --all to start
every bundle first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			ctx := context.Background()
			if all {
				for _, name := range a.bundles.Names() {
					if err := a.bundles.Start(ctx, name); err != nil {
						return err
					}
				}
			} else if err := a.bundles.StartAuto(ctx); err != nil {
				return err
			}

			routes := a.router.Table().Routes()

			if asYAML {
				m := &config.Manifest{}
				for _, r := range routes {
					m.Routes = append(m.Routes, config.Route{
						Key:    config.Keys{r.Key},
						Uses:   r.Action.Uses,
						Name:   r.Action.Name,
						Before: r.Action.Before,
						After:  r.Action.After,
					})
				}
				return m.Encode(cmd.OutOrStdout())
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tUSES\tNAME\tBUNDLE")
			for _, r := range routes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Key, r.Action.Uses, r.Action.Name, r.Bundle)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "start every bundle before listing")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the routes as a manifest")

	return cmd
}
