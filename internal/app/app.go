// Package app initializes and holds long-lived application services.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/recipedex/recipedex/internal/clock/system"
	"github.com/recipedex/recipedex/internal/config"
	"github.com/recipedex/recipedex/internal/gitsync"
	iduuid "github.com/recipedex/recipedex/internal/id/uuid"
	"github.com/recipedex/recipedex/internal/logging"
	"github.com/recipedex/recipedex/internal/metrics"
	"github.com/recipedex/recipedex/internal/scrape"
	"github.com/recipedex/recipedex/internal/snapshot"
	"github.com/recipedex/recipedex/internal/store"
)

// App wires the services every command needs: configuration, logging,
// the local snapshot, the optional remote, the catalog store and the
// scraper. It is built once at startup and closed on exit.
type App struct {
	Config   config.Config
	Settings config.Settings
	Logger   *zap.Logger
	Snapshot *snapshot.Store
	Catalog  *store.Store
	Scraper  *scrape.Scraper
}

// New builds the application container from the config file at
// cfgPath (empty means defaults plus environment) and loads the
// collection through the remote -> snapshot -> seed chain.
func New(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.Init()

	snap, err := snapshot.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	settings := config.LoadSettings(cfg, snap)

	var remote store.Remote
	if settings.Configured() {
		remote = gitsync.New(gitsync.Config{
			Owner:  settings.Owner,
			Repo:   settings.Repo,
			Branch: settings.Branch,
			Path:   settings.Path,
			Token:  settings.Token,
		})
		logger.Info("remote sync configured",
			zap.String("owner", settings.Owner),
			zap.String("repo", settings.Repo),
			zap.String("branch", settings.Branch))
	} else {
		logger.Info("remote sync not configured, working locally")
	}

	catalog := store.New(snap, remote, iduuid.Generator{}, system.Clock{}, logger)
	catalog.Initialize(ctx)

	scraper := scrape.New(
		scrape.DefaultRelays(cfg.Scraper.UserAgent, cfg.AttemptTimeout()),
		scrape.Config{
			AttemptTimeout: cfg.AttemptTimeout(),
			MinHTMLBytes:   cfg.Scraper.MinHTMLBytes,
		},
		logger,
	)

	return &App{
		Config:   cfg,
		Settings: settings,
		Logger:   logger,
		Snapshot: snap,
		Catalog:  catalog,
		Scraper:  scraper,
	}, nil
}

// Close waits for detached note writes and releases resources.
func (a *App) Close() {
	a.Catalog.WaitForNoteSync()
	if err := a.Snapshot.Close(); err != nil {
		a.Logger.Warn("snapshot close failed", zap.Error(err))
	}
	_ = a.Logger.Sync()
}
