package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recipedex/recipedex/internal/config"
)

func newSyncCmd() *cobra.Command {
	var override config.Settings

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push the collection to the configured remote",
		Long: `Writes the full collection document to the configured GitHub
repository. Flags persist as local setting overrides for future runs;
persisted non-empty values win over the config file and environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			if override != (config.Settings{}) {
				merged := config.MergeSettings(a.Settings, override)
				if err := config.SaveSettings(a.Snapshot, merged); err != nil {
					return fmt.Errorf("persist settings: %w", err)
				}
				a.Logger.Info("sync settings updated",
					zap.String("owner", merged.Owner),
					zap.String("repo", merged.Repo))
				cmd.Println("settings saved; rerun sync to push with the new target")
				return nil
			}

			if !a.Settings.Configured() {
				return fmt.Errorf("remote sync not configured: set owner, repo and token")
			}

			if out := a.Catalog.Sync(cmd.Context()); out.Err != "" {
				return fmt.Errorf("remote write failed: %s", out.Err)
			}
			cmd.Printf("synced %d recipes\n", a.Catalog.Count())
			return nil
		},
	}

	cmd.Flags().StringVar(&override.Owner, "owner", "", "repository owner")
	cmd.Flags().StringVar(&override.Repo, "repo", "", "repository name")
	cmd.Flags().StringVar(&override.Branch, "branch", "", "branch to write to")
	cmd.Flags().StringVar(&override.Path, "path", "", "document path in the repository")
	cmd.Flags().StringVar(&override.Token, "token", "", "access token (prefer RECIPEDEX_SYNC_TOKEN)")
	return cmd
}
