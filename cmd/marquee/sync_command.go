package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Trigger a sync cycle now",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			report, err := api.TriggerSync(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sync %s finished in %s\n",
				report.RunID, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
			fmt.Fprintf(out, "  records: %d  published: %d  skipped: %d  media resolved: %d\n",
				report.Total, report.Published, report.Skipped, report.Resolved)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the sync report as JSON")
	return cmd
}
