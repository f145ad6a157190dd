// Package di provides dependency injection for database connections.
package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/config"
	"github.com/metiseon/landing/internal/database"
	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/modules/ledger"
)

// InitializeDatabases opens the ledger database and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// ledger - read-only trade snapshot; in-memory unless a path is configured
	profile := database.ProfileLedger
	if cfg.LedgerDBPath == "" {
		profile = database.ProfileMemory
	}
	ledgerDB, err := database.New(database.Config{
		Path:    cfg.LedgerDBPath,
		Profile: profile,
		Name:    "ledger",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger database: %w", err)
	}

	if err := ledgerDB.Migrate(); err != nil {
		ledgerDB.Close()
		return nil, fmt.Errorf("failed to migrate ledger database: %w", err)
	}
	container.LedgerDB = ledgerDB

	log.Info().
		Str("path", ledgerDB.Path()).
		Str("profile", string(ledgerDB.Profile())).
		Msg("Ledger database initialized")

	return container, nil
}

// SeedLedger inserts the content's sample trades; rows already present are kept
func SeedLedger(ctx context.Context, repo *ledger.Repository, trades []domain.LedgerTrade) error {
	if _, err := repo.Seed(ctx, trades); err != nil {
		return fmt.Errorf("failed to seed ledger: %w", err)
	}
	return nil
}
