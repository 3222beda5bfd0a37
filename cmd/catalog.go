package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recipedex/recipedex/internal/recipe"
)

func newListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range a.Catalog.GetAll() {
				if category != "" && r.Category != category {
					continue
				}
				printRecipeLine(cmd, r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show recipes in this category")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search names, notes, tags, ingredients and categories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			hits := a.Catalog.Search(args[0])
			if len(hits) == 0 {
				cmd.Println("no matches")
				return nil
			}
			for _, r := range hits {
				printRecipeLine(cmd, r)
			}
			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one recipe as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := a.Catalog.GetByID(args[0])
			if err != nil {
				return fmt.Errorf("show %s: %w", args[0], err)
			}
			return printJSON(cmd, rec)
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a recipe from the collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			out, err := a.Catalog.Remove(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("remove %s: %w", args[0], err)
			}
			if out.Err != "" {
				a.Logger.Warn("remote sync failed", zap.String("error", out.Err))
			}
			cmd.Println("removed")
			return nil
		},
	}
}

func newNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Replace a recipe's notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.Catalog.SaveNote(args[0], args[1]); err != nil {
				return fmt.Errorf("note %s: %w", args[0], err)
			}
			cmd.Println("saved")
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			st := a.Catalog.Stats()
			cmd.Printf("%d recipes in %d categories, %d with notes\n", st.Total, st.Categories, st.WithNotes)

			keys := make([]string, 0, len(st.PerCategory))
			for k := range st.PerCategory {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				cat := recipe.CategoryFor(k)
				cmd.Printf("  %s %-12s %d\n", cat.Emoji, cat.Label, st.PerCategory[k])
			}
			return nil
		},
	}
}

func printRecipeLine(cmd *cobra.Command, r recipe.Recipe) {
	cmd.Printf("%s  %-36s  %-10s  %s\n", r.DisplayEmoji(), r.ID, r.Category, r.Name)
}
