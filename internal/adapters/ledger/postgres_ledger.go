package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresLedger is a PostgreSQL implementation of the seen-message ledger
type PostgresLedger struct {
	*sqlLedger
}

// NewPostgresLedger connects to PostgreSQL and creates the ledger table if needed
func NewPostgresLedger(dsn string, name string, logger *zap.Logger, opts Options) (*PostgresLedger, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_messages (
			ledger VARCHAR(64) NOT NULL,
			message_key VARCHAR(512) NOT NULL,
			seen_at TIMESTAMPTZ NOT NULL,
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

	return &PostgresLedger{newSQLLedger(db, name, queries{
		insertIgnore: `INSERT INTO seen_messages (ledger, message_key, seen_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		isMember:     `SELECT 1 FROM seen_messages WHERE ledger = $1 AND message_key = $2`,
		prune:        `DELETE FROM seen_messages WHERE ledger = $1 AND seen_at < $2`,
	}, logger, opts)}, nil
}
