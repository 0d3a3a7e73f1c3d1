package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"easel/internal/api"
	"easel/internal/queue"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List stored items and their labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.baseURL()
			if err != nil {
				return err
			}

			path := "/api/records"
			params := make([]string, 0, 2)
			if status := strings.TrimSpace(statusFlag); status != "" {
				params = append(params, "status="+status)
			}
			if limitFlag > 0 {
				params = append(params, "limit="+strconv.Itoa(limitFlag))
			}
			if len(params) > 0 {
				path += "?" + strings.Join(params, "&")
			}

			var resp api.RecordsResponse
			if err := fetchJSON(base, path, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resp.Records) == 0 {
				fmt.Fprintln(out, "No records found")
				return nil
			}

			headers := []string{"ID", "File", "Status", "Labels"}
			rows := make([][]string, 0, len(resp.Records))
			for _, record := range resp.Records {
				rows = append(rows, []string{
					strconv.FormatInt(record.ID, 10),
					record.Name,
					describeStatus(record),
					describeLabels(record.Labels),
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status (pending, reserved, done)")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Maximum number of records to show")
	return cmd
}

func describeStatus(record api.Record) string {
	if record.Skipped {
		return string(record.Status) + " (skipped)"
	}
	return string(record.Status)
}

func describeLabels(labels queue.Labels) string {
	if labels.Empty() {
		return "-"
	}
	categories := make([]string, 0, len(labels))
	for category := range labels {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	parts := make([]string, 0, len(categories))
	for _, category := range categories {
		parts = append(parts, category+": "+strings.Join(labels[category], ", "))
	}
	return strings.Join(parts, "; ")
}
