package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"marquee/internal/slides"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Show the published playlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := ctx.apiClient()
			if err != nil {
				return err
			}
			list, err := api.Playlist(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, list)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "Playlist is empty")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Order", "Title", "Type", "Duration", "Layout", "Source"},
				playlistRows(list),
				0, 3,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the playlist as JSON")
	return cmd
}

func playlistRows(list []slides.Slide) [][]string {
	rows := make([][]string, 0, len(list))
	for _, slide := range list {
		src := ""
		if slide.Src != nil {
			src = *slide.Src
		}
		rows = append(rows, []string{
			strconv.Itoa(slide.Order),
			slide.Title,
			string(slide.Type),
			strconv.Itoa(slide.Duration) + "s",
			slide.Layout,
			src,
		})
	}
	return rows
}
