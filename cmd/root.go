// Package cmd defines and implements the CLI commands for the
// recipedex executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/recipedex/recipedex/internal/app"
)

var cfgFile string

type appKeyType struct{}

var appKey appKeyType

// newApp is the application factory. It is a variable so tests can
// replace it with a fake container.
var newApp = func(ctx context.Context) (*app.App, error) {
	return app.New(ctx, cfgFile)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipedex",
		Short: "A personal recipe catalog with URL capture and git-backed sync.",
		Long: `recipedex keeps a personal recipe collection: capture recipes from
any URL, organize and search them locally, and optionally sync the
collection document to a GitHub repository.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKey).(*app.App); ok && a != nil {
				a.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is defaults plus RECIPEDEX_* env)")

	cmd.AddCommand(
		newScrapeCmd(),
		newListCmd(),
		newSearchCmd(),
		newShowCmd(),
		newRemoveCmd(),
		newNoteCmd(),
		newStatsCmd(),
		newExportCmd(),
		newImportCmd(),
		newPageCmd(),
		newServeCmd(),
		newSyncCmd(),
	)

	return cmd
}

func resolveApp(ctx context.Context) (*app.App, error) {
	a, ok := ctx.Value(appKey).(*app.App)
	if !ok || a == nil {
		return nil, errors.New("application services not initialized")
	}
	return a, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
