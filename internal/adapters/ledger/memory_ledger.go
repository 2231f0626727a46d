package ledger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Options configures optional retention of ledger keys. A zero Retention
// keeps keys forever.
type Options struct {
	Retention        time.Duration
	CleanupFrequency time.Duration
}

// MemoryLedger is an in-process ledger. Keys do not survive a restart.
type MemoryLedger struct {
	keys      map[string]time.Time
	mu        sync.Mutex
	logger    *zap.Logger
	retention time.Duration
	stopCh    chan struct{}
	stopOnce  sync.Once
	now       func() time.Time
}

// NewMemoryLedger creates a new in-memory ledger
func NewMemoryLedger(logger *zap.Logger, opts Options) *MemoryLedger {
	l := &MemoryLedger{
		keys:      make(map[string]time.Time),
		logger:    logger,
		retention: opts.Retention,
		stopCh:    make(chan struct{}),
		now:       time.Now,
	}

	if l.retention > 0 && opts.CleanupFrequency > 0 {
		go startCleanupTask(opts.CleanupFrequency, l.stopCh, l.Prune, logger)
	}

	return l
}

// IsMember reports whether the key was already seen
func (l *MemoryLedger) IsMember(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.keys[key]
	return ok, nil
}

// Add marks the key as seen
func (l *MemoryLedger) Add(ctx context.Context, key string) error {
	_, err := l.MarkIfAbsent(ctx, key)
	return err
}

// MarkIfAbsent adds the key and reports whether this call added it
func (l *MemoryLedger) MarkIfAbsent(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.keys[key]; ok {
		return false, nil
	}
	l.keys[key] = l.now()
	return true, nil
}

// Len returns the number of keys held
func (l *MemoryLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.keys)
}

// Prune removes keys older than the retention window
func (l *MemoryLedger) Prune(_ context.Context) error {
	if l.retention <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.retention)
	pruned := 0
	for key, seenAt := range l.keys {
		if seenAt.Before(cutoff) {
			delete(l.keys, key)
			pruned++
		}
	}

	l.logger.Debug("Pruned ledger keys", zap.Int("pruned_count", pruned))
	return nil
}

// Stop stops the background cleanup task
func (l *MemoryLedger) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}
