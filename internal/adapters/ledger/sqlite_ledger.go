package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteLedger is a SQLite implementation of the seen-message ledger
type SQLiteLedger struct {
	*sqlLedger
}

// NewSQLiteLedger opens (and if needed creates) the ledger database
func NewSQLiteLedger(dbPath string, name string, logger *zap.Logger, opts Options) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// single writer avoids "database is locked" under concurrent runs
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_messages (
			ledger TEXT NOT NULL,
			message_key TEXT NOT NULL,
			seen_at TIMESTAMP NOT NULL,
			PRIMARY KEY (ledger, message_key)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_seen_messages_seen_at ON seen_messages(seen_at)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteLedger{newSQLLedger(db, name, queries{
		insertIgnore: `INSERT OR IGNORE INTO seen_messages (ledger, message_key, seen_at) VALUES (?, ?, ?)`,
		isMember:     `SELECT 1 FROM seen_messages WHERE ledger = ? AND message_key = ?`,
		prune:        `DELETE FROM seen_messages WHERE ledger = ? AND seen_at < ?`,
	}, logger, opts)}, nil
}
