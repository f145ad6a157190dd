// Package ledger provides the read-only trade ledger behind the demo page.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/metiseon/landing/internal/database"
	"github.com/metiseon/landing/internal/domain"
	"github.com/metiseon/landing/internal/utils"
)

// Row limits for Latest
const (
	DefaultLimit = 5
	MaxLimit     = 100
)

// Summary aggregates the whole ledger
type Summary struct {
	TotalTrades int64   `json:"total_trades"`
	BuyCount    int64   `json:"buy_count"`
	SellCount   int64   `json:"sell_count"`
	GrossValue  float64 `json:"gross_value"` // sum of |qty| * price
	AvgFeeBp    float64 `json:"avg_fee_bp"`
}

// Repository reads and seeds the trades table
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new ledger repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "ledger").Logger(),
	}
}

// ClampLimit maps a requested row count onto [1, MaxLimit], using
// DefaultLimit for non-positive requests
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Seed inserts trades that are not already present, keyed by (ts, ticker).
// Returns the number of rows added.
func (r *Repository) Seed(ctx context.Context, trades []domain.LedgerTrade) (int, error) {
	var added int64

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO trades (ts, ticker, qty, price, fee_bp) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range trades {
			res, err := stmt.ExecContext(ctx, t.TS.UTC().Format(time.RFC3339), t.Ticker, t.Qty, t.Price, t.FeeBp)
			if err != nil {
				return fmt.Errorf("failed to insert trade %s@%s: %w", t.Ticker, t.TS.Format(time.RFC3339), err)
			}
			n, _ := res.RowsAffected()
			added += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	r.log.Info().Int64("added", added).Int("offered", len(trades)).Msg("Ledger seeded")
	return int(added), nil
}

// Latest returns the most recent trades, newest first
func (r *Repository) Latest(ctx context.Context, limit int) ([]domain.LedgerTrade, error) {
	return r.LatestFor(ctx, limit, nil)
}

// LatestFor returns the most recent trades for the given tickers, newest
// first. An empty ticker list means all tickers.
func (r *Repository) LatestFor(ctx context.Context, limit int, tickers []string) ([]domain.LedgerTrade, error) {
	done := utils.MeasureDBQuery("ledger.latest", r.log)

	query := `SELECT ts, ticker, qty, price, fee_bp FROM trades`
	args := make([]interface{}, 0, len(tickers)+1)

	if len(tickers) > 0 {
		placeholders := make([]string, len(tickers))
		for i, t := range tickers {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += " WHERE ticker IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += " ORDER BY ts DESC LIMIT ?"
	args = append(args, ClampLimit(limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]domain.LedgerTrade, 0)
	for rows.Next() {
		var (
			t  domain.LedgerTrade
			ts string
		)
		if err := rows.Scan(&ts, &t.Ticker, &t.Qty, &t.Price, &t.FeeBp); err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		t.TS, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("invalid ts %q for %s: %w", ts, t.Ticker, err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	done(int64(len(trades)))
	return trades, nil
}

// Summary aggregates every trade in the ledger
func (r *Repository) Summary(ctx context.Context) (Summary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN qty > 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN qty < 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(ABS(qty) * price), 0),
			COALESCE(AVG(fee_bp), 0)
		FROM trades
	`

	var s Summary
	err := r.db.QueryRowContext(ctx, query).Scan(&s.TotalTrades, &s.BuyCount, &s.SellCount, &s.GrossValue, &s.AvgFeeBp)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to query trades summary: %w", err)
	}
	return s, nil
}
