package scheduler

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/database"
)

// CheckLedgerDatabaseJob verifies integrity of the ledger SQLite database
type CheckLedgerDatabaseJob struct {
	log      zerolog.Logger
	ledgerDB *database.DB
}

// NewCheckLedgerDatabaseJob creates a new CheckLedgerDatabaseJob
func NewCheckLedgerDatabaseJob(ledgerDB *database.DB) *CheckLedgerDatabaseJob {
	return &CheckLedgerDatabaseJob{
		log:      zerolog.Nop(),
		ledgerDB: ledgerDB,
	}
}

// SetLogger sets the logger for the job
func (j *CheckLedgerDatabaseJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *CheckLedgerDatabaseJob) Name() string {
	return "check_ledger_database"
}

// Run executes the integrity check
func (j *CheckLedgerDatabaseJob) Run() error {
	if j.ledgerDB == nil {
		j.log.Warn().Msg("Ledger database not initialized, skipping")
		return nil
	}

	if err := checkDatabaseIntegrity(j.ledgerDB.Conn()); err != nil {
		j.log.Error().
			Err(err).
			Str("database", j.ledgerDB.Name()).
			Msg("Ledger database integrity check failed")
		return fmt.Errorf("database %s is corrupted: %w", j.ledgerDB.Name(), err)
	}

	j.log.Debug().Str("database", j.ledgerDB.Name()).Msg("Database integrity OK")
	return nil
}

// checkDatabaseIntegrity runs SQLite's PRAGMA integrity_check
func checkDatabaseIntegrity(db *sql.DB) error {
	var result string
	err := db.QueryRow("PRAGMA integrity_check").Scan(&result)
	if err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}

	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}

	return nil
}
