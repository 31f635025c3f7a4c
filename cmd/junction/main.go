// Command junction inspects the routes declared in an application
// manifest.
//
//	junction routes --config app.yaml
//	junction match --config app.yaml GET /admin/panel/show/5
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "junction",
		Short:         "Inspect application routes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.config, "config", "c", "app.yaml", "path to the application manifest")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log routing decisions to stderr")

	rootCmd.AddCommand(
		routesCmd(opts),
		matchCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "junction %s (%s)\n", version, commit)
		},
	}
}
