package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"easel/internal/api"
)

func newTaxonomyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy",
		Short: "Show the configured label vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.baseURL()
			if err != nil {
				return err
			}
			var resp api.TaxonomyView
			if err := fetchJSON(base, "/api/taxonomy", &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resp.Categories) == 0 {
				fmt.Fprintln(out, "No taxonomy configured; free-form labels are accepted")
				return nil
			}

			mode := "permissive"
			if resp.Strict {
				mode = "strict"
			}
			fmt.Fprintf(out, "Vocabulary (%s mode)\n", mode)

			headers := []string{"Category", "Label", "ID"}
			rows := make([][]string, 0)
			for _, category := range resp.Categories {
				categoryName := displayName(category.Name, category.ID)
				for _, label := range category.Labels {
					rows = append(rows, []string{
						categoryName,
						displayName(label.Name, label.ID),
						label.ID,
					})
				}
			}
			fmt.Fprintln(out, renderTable(headers, rows, nil))
			return nil
		},
	}
}

// displayName prefers the configured human name and falls back to a
// title-cased form of the identifier.
func displayName(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	cleaned := strings.ReplaceAll(id, "_", " ")
	return cases.Title(language.English).String(cleaned)
}
