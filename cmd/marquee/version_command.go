package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/version"
)

// newVersionCommand prints the CLI build version and, when a daemon is
// reachable, its version too.
func newVersionCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show CLI and daemon versions",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "marquee %s\n", version.Version)

			api, err := ctx.apiClient()
			if err != nil {
				return nil
			}
			if daemonVersion, err := api.Version(cmd.Context()); err == nil {
				fmt.Fprintf(out, "daemon  %s\n", daemonVersion)
			}
			return nil
		},
	}
}
