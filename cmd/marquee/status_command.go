package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/daemon"
	"marquee/internal/history"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			status, err := api.Status(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderStatusReport(status, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit status as JSON")
	return cmd
}

func renderStatusReport(status *daemon.Status, colorize bool) []string {
	lines := renderSectionHeader("Marquee Daemon", colorize)

	runningKind := statusError
	if status.Running {
		runningKind = statusOK
	}
	lines = append(lines, renderStatusLine("Running", runningKind, yesNo(status.Running), colorize))
	lines = append(lines, renderStatusLine("PID", statusInfo, fmt.Sprintf("%d", status.PID), colorize))
	if !status.StartedAt.IsZero() {
		lines = append(lines, renderStatusLine("Started", statusInfo, status.StartedAt.Local().Format(time.RFC1123), colorize))
	}

	notionKind := statusWarn
	if status.NotionConfigured {
		notionKind = statusOK
	}
	lines = append(lines, renderStatusLine("Notion credentials", notionKind, yesNo(status.NotionConfigured), colorize))
	lines = append(lines, renderStatusLine("Playlist", statusInfo, status.PlaylistPath, colorize))
	lines = append(lines, renderStatusLine("Media cache", statusInfo, status.MediaDir, colorize))
	lines = append(lines, renderStatusLine("Lock file", statusInfo, status.LockFilePath, colorize))

	if status.LastRun != nil {
		lines = append(lines, "")
		lines = append(lines, renderSectionHeader("Last Sync", colorize)...)
		lines = append(lines, renderStatusLine("Outcome", outcomeKind(status.LastRun.Outcome),
			string(status.LastRun.Outcome), colorize))
		lines = append(lines, renderStatusLine("Finished", statusInfo,
			status.LastRun.FinishedAt.Local().Format(time.RFC1123), colorize))
		lines = append(lines, renderStatusLine("Slides published", statusInfo,
			fmt.Sprintf("%d", status.LastRun.Slides), colorize))
		if message := strings.TrimSpace(status.LastRun.Error); message != "" {
			lines = append(lines, renderStatusLine("Error", statusError, message, colorize))
		}
	}
	return lines
}

func outcomeKind(outcome history.Outcome) statusKind {
	switch outcome {
	case history.OutcomeSuccess:
		return statusOK
	case history.OutcomeFailed:
		return statusError
	default:
		return statusWarn
	}
}
