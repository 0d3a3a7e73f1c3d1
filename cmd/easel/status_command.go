package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"easel/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.baseURL()
			if err != nil {
				return err
			}
			var resp api.StatusResponse
			if err := fetchJSON(base, "/api/status", &resp); err != nil {
				return err
			}

			running := "no"
			if resp.Running {
				running = "yes"
			}
			pairs := [][2]string{
				{"Running", running},
				{"Image directory", resp.ImageDir},
				{"Queue database", resp.QueueDBPath},
				{"Lock file", resp.LockFilePath},
				{"Lease seconds", strconv.Itoa(resp.LeaseSeconds)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues(pairs))
			return nil
		},
	}
}
