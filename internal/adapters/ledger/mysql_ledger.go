package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLLedger is a MySQL implementation of the seen-message ledger
type MySQLLedger struct {
	*sqlLedger
}

// NewMySQLLedger connects to MySQL and creates the ledger table if needed
func NewMySQLLedger(dsn string, name string, logger *zap.Logger, opts Options) (*MySQLLedger, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS seen_messages (
			ledger VARCHAR(64) NOT NULL,
			message_key VARCHAR(512) NOT NULL,
			seen_at TIMESTAMP NOT NULL,
			PRIMARY KEY (ledger, message_key),
			INDEX idx_seen_messages_seen_at (seen_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLLedger{newSQLLedger(db, name, queries{
		insertIgnore: `INSERT IGNORE INTO seen_messages (ledger, message_key, seen_at) VALUES (?, ?, ?)`,
		isMember:     `SELECT 1 FROM seen_messages WHERE ledger = ? AND message_key = ?`,
		prune:        `DELETE FROM seen_messages WHERE ledger = ? AND seen_at < ?`,
	}, logger, opts)}, nil
}
