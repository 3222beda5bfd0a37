package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScrapeCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Extract a recipe from a web page",
		Long: `Fetches the page through the relay chain and extracts a recipe
candidate from its structured markup, falling back to heuristic DOM
extraction and finally a URL-derived skeleton. Prints the candidate as
JSON; with --save the candidate is added to the collection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			result := a.Scraper.Scrape(cmd.Context(), args[0])
			if !result.Success {
				a.Logger.Warn("extraction incomplete, saved what could be recovered",
					zap.String("url", args[0]), zap.String("stage", result.Stage))
			}

			if !save {
				return printJSON(cmd, result)
			}

			added, out := a.Catalog.Add(cmd.Context(), result.Recipe)
			if out.Err != "" {
				a.Logger.Warn("remote sync failed", zap.String("error", out.Err))
			}
			return printJSON(cmd, map[string]any{
				"recipe":  added,
				"success": result.Success,
				"stage":   result.Stage,
				"sync":    out,
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "add the extracted recipe to the collection")
	return cmd
}

func printJSON(cmd *cobra.Command, payload any) error {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	cmd.Println(string(out))
	return nil
}
