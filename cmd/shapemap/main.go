// Package main provides the CLI entrypoint for shapemap.
//
// shapemap inspects mapping configurations without writing code:
//   - check validates profile files and applies them to the bundled catalog
//   - show prints the resolved bindings and unmapped members of every pair
//   - config prints the effective configuration
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	profiles   []string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "shapemap",
		Short: "Inspect object-to-object mapping configurations",
		Long: `shapemap resolves mapping configurations between the types of the
bundled catalog and reports how every destination member is produced.

Commands:
  check     Validate profiles and apply them to the catalog
  show      Print resolved bindings and unmapped members
  config    Print the effective configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./shapemap.yaml)")
	root.PersistentFlags().StringSliceVarP(&opts.profiles, "profile", "p", nil, "profile files applied after the configured ones")

	root.AddCommand(checkCmd(opts))
	root.AddCommand(showCmd(opts))
	root.AddCommand(configCmd(opts))
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shapemap %s\n", version)
		},
	}
}
