package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recipedex/recipedex/internal/compose"
)

func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			data, err := a.Catalog.ExportJSON()
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if outPath == "" {
				cmd.Println(string(data))
				return nil
			}
			if err := os.WriteFile(outPath, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			cmd.Printf("wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge recipes from a JSON file into the collection",
		Long: `Reads a collection document or a bare recipe array and merges it
into the collection: records with a matching id are replaced in place,
new ids are appended, and nothing is ever deleted by an import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			n, out, err := a.Catalog.ImportJSON(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			if out.Err != "" {
				a.Logger.Warn("remote sync failed", zap.String("error", out.Err))
			}
			cmd.Printf("imported %d recipes\n", n)
			return nil
		},
	}
}

func newPageCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "page <id>",
		Short: "Render a recipe as a standalone HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := a.Catalog.GetByID(args[0])
			if err != nil {
				return fmt.Errorf("page %s: %w", args[0], err)
			}
			page, err := compose.Render(rec)
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			if outPath == "" {
				cmd.Println(page)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(page), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			cmd.Printf("wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	return cmd
}
