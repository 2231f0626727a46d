package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// queries holds the dialect-specific statements of a SQL ledger
type queries struct {
	insertIgnore string
	isMember     string
	prune        string
}

// sqlLedger is the database/sql implementation shared by the SQLite, MySQL
// and PostgreSQL ledgers. Keys are namespaced by ledger name.
type sqlLedger struct {
	db          *sql.DB
	name        string
	q           queries
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

func newSQLLedger(db *sql.DB, name string, q queries, logger *zap.Logger, opts Options) *sqlLedger {
	l := &sqlLedger{
		db:          db,
		name:        name,
		q:           q,
		logger:      logger,
		retention:   opts.Retention,
		cleanupFreq: opts.CleanupFrequency,
		stopCh:      make(chan struct{}),
		now:         time.Now,
	}
	if l.retention > 0 && l.cleanupFreq > 0 {
		go startCleanupTask(l.cleanupFreq, l.stopCh, l.Prune, logger)
	}
	return l
}

// IsMember reports whether the key was already seen
func (l *sqlLedger) IsMember(ctx context.Context, key string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx, l.q.isMember, l.name, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query ledger: %w", err)
	}
	return true, nil
}

// Add marks the key as seen. Adding an existing key is a no-op.
func (l *sqlLedger) Add(ctx context.Context, key string) error {
	_, err := l.MarkIfAbsent(ctx, key)
	return err
}

// MarkIfAbsent inserts the key and reports whether this call inserted it.
// The primary key makes concurrent inserts of one key race-free.
func (l *sqlLedger) MarkIfAbsent(ctx context.Context, key string) (bool, error) {
	res, err := l.db.ExecContext(ctx, l.q.insertIgnore, l.name, key, l.now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to insert ledger key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read ledger insert result: %w", err)
	}
	return n == 1, nil
}

// Prune removes keys older than the retention window
func (l *sqlLedger) Prune(ctx context.Context) error {
	if l.retention <= 0 {
		return nil
	}
	cutoff := l.now().Add(-l.retention).UTC()
	res, err := l.db.ExecContext(ctx, l.q.prune, l.name, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune ledger: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		l.logger.Warn("Failed to get rows affected during prune", zap.Error(err))
	} else {
		l.logger.Debug("Pruned ledger keys", zap.Int64("pruned_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (l *sqlLedger) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
	if err := l.db.Close(); err != nil {
		l.logger.Error("Failed to close ledger database", zap.Error(err))
	}
}

func startCleanupTask(freq time.Duration, stopCh <-chan struct{}, prune func(context.Context) error, logger *zap.Logger) {
	ticker := time.NewTicker(freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := prune(context.Background()); err != nil {
				logger.Error("Failed to prune ledger", zap.Error(err))
			}
		case <-stopCh:
			return
		}
	}
}
