// Package storage persists trade history in SQLite.
package storage

// sqlite.go — observational trade journal.
//
// Two tables:
//   - `trades`: one row per dispatch outcome, live or simulated.
//   - `summaries`: one row per window rollover with the counters at
//     that moment.
// The journal records what happened; nothing in the trading path reads
// it back at decision time. Prune on open keeps 30 days.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avargasm/edgebot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id          TEXT PRIMARY KEY,
    strategy    TEXT    NOT NULL,
    instrument  TEXT    NOT NULL,
    side        TEXT    NOT NULL,
    price       REAL    NOT NULL,
    shares      REAL    NOT NULL,
    notional    REAL    NOT NULL,
    edge        REAL    NOT NULL DEFAULT 0,
    rationale   TEXT,
    simulated   INTEGER NOT NULL DEFAULT 0,
    success     INTEGER NOT NULL DEFAULT 0,
    order_id    TEXT,
    message     TEXT,
    executed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS summaries (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    strategy   TEXT     NOT NULL,
    written_at DATETIME NOT NULL,
    trades     INTEGER  NOT NULL DEFAULT 0,
    wins       INTEGER  NOT NULL DEFAULT 0,
    losses     INTEGER  NOT NULL DEFAULT 0,
    skips      INTEGER  NOT NULL DEFAULT 0,
    errors     INTEGER  NOT NULL DEFAULT 0,
    balance    REAL     NOT NULL DEFAULT 0,
    daily_loss REAL     NOT NULL DEFAULT 0,
    pnl        REAL     NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_trades_strategy ON trades(strategy, executed_at DESC);
CREATE INDEX IF NOT EXISTS idx_summaries_at    ON summaries(written_at DESC);
`

const retention = 30 * 24 * time.Hour

// SQLiteJournal implements ports.Journal using SQLite (pure Go, no CGo).
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the database at the given path,
// applies the schema and prunes old rows.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteJournal: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteJournal: apply schema: %w", err)
	}

	j := &SQLiteJournal{db: db}
	j.pruneOld(context.Background())
	return j, nil
}

// SaveTrade persists one dispatch outcome.
func (j *SQLiteJournal) SaveTrade(ctx context.Context, rec domain.TradeRecord) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
			(id, strategy, instrument, side, price, shares, notional, edge,
			 rationale, simulated, success, order_id, message, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Strategy,
		rec.InstrumentID,
		string(rec.Side),
		rec.Price,
		rec.Shares,
		rec.NotionalUSD,
		rec.Edge,
		rec.Rationale,
		boolInt(rec.Simulated),
		boolInt(rec.Success),
		rec.OrderID,
		rec.Message,
		rec.ExecutedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveTrade %s: %w", rec.ID, err)
	}
	return nil
}

// SaveSummary persists the counters at a window rollover.
func (j *SQLiteJournal) SaveSummary(ctx context.Context, stats domain.EngineStats) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO summaries
			(strategy, written_at, trades, wins, losses, skips, errors,
			 balance, daily_loss, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.Strategy,
		time.Now().UTC(),
		stats.Trades,
		stats.Wins,
		stats.Losses,
		stats.Skips,
		stats.Errors,
		stats.Balance,
		stats.DailyLoss,
		stats.PnL(),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveSummary %s: %w", stats.Strategy, err)
	}
	return nil
}

// Stats aggregates the journaled trades of one strategy.
func (j *SQLiteJournal) Stats(ctx context.Context, strategy string) (domain.JournalStats, error) {
	var (
		stats       domain.JournalStats
		first, last sql.NullString
	)
	err := j.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN simulated = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN simulated = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(notional), 0),
		       MIN(executed_at),
		       MAX(executed_at)
		FROM trades WHERE strategy = ?`, strategy,
	).Scan(&stats.Trades, &stats.Live, &stats.Simulated, &stats.NotionalUSD, &first, &last)
	if err != nil {
		return domain.JournalStats{}, fmt.Errorf("storage.Stats %s: %w", strategy, err)
	}

	stats.FirstTrade = parseDBTime(first)
	stats.LastTrade = parseDBTime(last)
	return stats, nil
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// pruneOld removes old rows to keep the DB light.
func (j *SQLiteJournal) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	j.db.ExecContext(ctx, `DELETE FROM trades WHERE executed_at < ?`, cutoff)
	j.db.ExecContext(ctx, `DELETE FROM summaries WHERE written_at < ?`, cutoff)
}

func parseDBTime(v sql.NullString) time.Time {
	if !v.Valid || v.String == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v.String); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
