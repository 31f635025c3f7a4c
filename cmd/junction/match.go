package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func matchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "match METHOD PATH",
		Short: "Show which route a request resolves to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			m, err := a.router.Route(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("%s %s: %w", strings.ToUpper(args[0]), args[1], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key:        %s\n", m.Key)
			fmt.Fprintf(out, "uses:       %s\n", m.Action.Uses)
			fmt.Fprintf(out, "bundle:     %s\n", m.Bundle)
			fmt.Fprintf(out, "parameters: [%s]\n", strings.Join(m.Parameters, ", "))
			if m.Route == nil {
				fmt.Fprintln(out, "source:     controller convention")
			}
			return nil
		},
	}
}
