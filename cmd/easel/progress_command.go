package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"easel/internal/api"
)

func newProgressCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show labeling progress counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.baseURL()
			if err != nil {
				return err
			}
			var resp api.ProgressResponse
			if err := fetchJSON(base, "/api/progress", &resp); err != nil {
				return err
			}

			counts := resp.Counts
			pairs := [][2]string{
				{"Pending", strconv.Itoa(counts.Pending)},
				{"Reserved (live)", strconv.Itoa(counts.ReservedLive)},
				{"Reserved (expired)", strconv.Itoa(counts.ReservedExpired)},
				{"Done", strconv.Itoa(counts.Done)},
				{"Skipped", strconv.Itoa(counts.Skipped)},
				{"Total", strconv.Itoa(counts.Total)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValues(pairs))

			labeled := counts.Done - counts.Skipped
			if counts.Total > 0 {
				percent := float64(counts.Done) / float64(counts.Total) * 100
				fmt.Fprintf(out, "%d labeled, %d skipped (%.1f%% complete)\n", labeled, counts.Skipped, percent)
			}
			return nil
		},
	}
}
