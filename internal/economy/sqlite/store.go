// Package sqlite provides the SQLite-backed token ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS balances (
	player_id TEXT PRIMARY KEY,
	tokens    INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS ledger_entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id  TEXT NOT NULL,
	amount     INTEGER NOT NULL,
	reason     TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_player ON ledger_entries(player_id);
`

// Store persists token balances and an append-only audit trail in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the ledger database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping ledger db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreditPlayer adds amount to the player's balance and appends an audit
// entry, atomically.
func (s *Store) CreditPlayer(ctx context.Context, playerID string, amount int64, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("ledger is not configured")
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("player id is required")
	}
	if amount < 0 {
		return fmt.Errorf("credit amount must not be negative, got %d", amount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO balances (player_id, tokens) VALUES (?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET tokens = tokens + excluded.tokens`,
		playerID, amount,
	); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (player_id, amount, reason, created_at)
		 VALUES (?, ?, ?, unixepoch('subsec') * 1000)`,
		playerID, amount, reason,
	); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credit tx: %w", err)
	}
	return nil
}

// Balance returns the player's current token balance. Unknown players hold
// zero tokens.
func (s *Store) Balance(ctx context.Context, playerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("ledger is not configured")
	}
	var tokens int64
	err := s.db.QueryRowContext(ctx,
		`SELECT tokens FROM balances WHERE player_id = ?`, playerID,
	).Scan(&tokens)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query balance: %w", err)
	}
	return tokens, nil
}

// EntryCount reports the number of audit entries for a player.
func (s *Store) EntryCount(ctx context.Context, playerID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ledger_entries WHERE player_id = ?`, playerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return count, nil
}
