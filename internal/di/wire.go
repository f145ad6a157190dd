// Package di provides dependency injection wiring and initialization.
package di

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/config"
	"github.com/metiseon/landing/internal/modules/charts"
	"github.com/metiseon/landing/internal/modules/display"
	"github.com/metiseon/landing/internal/modules/ledger"
	"github.com/metiseon/landing/internal/modules/livereload"
	"github.com/metiseon/landing/internal/modules/pages"
	"github.com/metiseon/landing/internal/publish"
	"github.com/metiseon/landing/internal/scheduler"
	"github.com/metiseon/landing/pkg/embedded"
)

// AssetsFS returns the on-disk assets directory when one is configured,
// otherwise the assets compiled into the binary
func AssetsFS(cfg *config.Config) fs.FS {
	if cfg.AssetsDir != "" {
		return os.DirFS(cfg.AssetsDir)
	}
	return embedded.Assets()
}

// Wire initializes all dependencies and returns a fully configured container
// Order of operations:
// 1. Initialize the ledger database
// 2. Load assets and seed the ledger
// 3. Initialize rendering and publishing services
// 4. Register jobs
// 5. Set up live reload (dev only)
func Wire(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, *JobInstances, error) {
	// Step 1: Initialize databases
	container, err := InitializeDatabases(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize databases: %w", err)
	}

	// Step 2-3: Initialize services
	if err := InitializeServices(ctx, container, cfg, log); err != nil {
		container.LedgerDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	// Step 4: Register jobs
	jobs, err := RegisterJobs(container, cfg, log)
	if err != nil {
		container.LedgerDB.Close()
		return nil, nil, fmt.Errorf("failed to register jobs: %w", err)
	}

	// Step 5: Live reload
	if cfg.DevMode && cfg.AssetsDir != "" {
		if err := InitializeLiveReload(container, cfg, log); err != nil {
			container.LedgerDB.Close()
			return nil, nil, fmt.Errorf("failed to initialize live reload: %w", err)
		}
	}

	log.Info().Msg("Dependency injection wiring completed")
	return container, jobs, nil
}

// InitializeServices loads the assets and builds the rendering and
// publishing services on top of them
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.Theme = display.DefaultTheme()
	container.AssetsFS = AssetsFS(cfg)
	container.LedgerRepo = ledger.NewRepository(container.LedgerDB.Conn(), log)

	assets, err := pages.LoadAssets(container.AssetsFS, container.Theme, log)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}
	for _, w := range assets.Fixtures.Warnings {
		log.Warn().Str("warning", w).Msg("Fixture consistency check")
	}

	if err := SeedLedger(ctx, container.LedgerRepo, assets.Content.Ledger); err != nil {
		return err
	}

	container.Charts = charts.NewService(assets.ChartData(), log)
	container.Site = pages.NewSite(assets, container.LedgerRepo, container.Charts, container.Theme, pages.Options{
		CopyResetMs: cfg.CopyResetMs,
		LiveReload:  cfg.DevMode && cfg.AssetsDir != "",
	}, log)

	container.Exporter = publish.NewExporter(container.Site, container.Charts, container.AssetsFS, log)

	if cfg.Publish.Enabled() {
		publisher, err := publish.NewS3Publisher(ctx, cfg.Publish.ToS3Config(), log)
		if err != nil {
			return fmt.Errorf("failed to initialize publisher: %w", err)
		}
		container.Publisher = publisher
	}

	return nil
}

// RegisterJobs creates the scheduler and registers every job
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	container.Scheduler = scheduler.New(log)
	jobs := &JobInstances{}

	checkLedger := scheduler.NewCheckLedgerDatabaseJob(container.LedgerDB)
	checkLedger.SetLogger(log)
	if err := container.Scheduler.AddJob("@hourly", checkLedger); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", checkLedger.Name(), err)
	}
	jobs.CheckLedgerDatabase = checkLedger

	if container.Publisher != nil {
		publishJob := scheduler.NewPublishSiteJob(container.Exporter, container.Publisher, log)
		jobs.PublishSite = publishJob
		if cfg.Publish.Schedule != "" {
			if err := container.Scheduler.AddJob(cfg.Publish.Schedule, publishJob); err != nil {
				return nil, fmt.Errorf("failed to register %s: %w", publishJob.Name(), err)
			}
		}
	}

	return jobs, nil
}

// InitializeLiveReload watches the assets directory and pushes reloads to
// connected browsers
func InitializeLiveReload(container *Container, cfg *config.Config, log zerolog.Logger) error {
	hub := livereload.NewHub(log)
	watcher, err := livereload.NewWatcher(cfg.AssetsDir, func() error {
		return container.ReloadAssets(context.Background())
	}, hub, log)
	if err != nil {
		return err
	}

	container.LiveReload = hub
	container.Watcher = watcher
	return nil
}

// ReloadAssets re-reads the assets and tops up the ledger with any new rows
func (c *Container) ReloadAssets(ctx context.Context) error {
	if err := c.Site.Reload(c.AssetsFS); err != nil {
		return err
	}
	return SeedLedger(ctx, c.LedgerRepo, c.Site.Content().Ledger)
}

// Close releases everything the container owns
func (c *Container) Close() error {
	if c.LiveReload != nil {
		c.LiveReload.Close()
	}
	if c.LedgerDB != nil {
		return c.LedgerDB.Close()
	}
	return nil
}
