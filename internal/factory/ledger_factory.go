package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/recruitflow-ingest/internal/adapters/ledger"
	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"go.uber.org/zap"
)

// LedgerFactory creates seen-message ledgers based on configuration
type LedgerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLedgerFactory creates a new ledger factory
func NewLedgerFactory(cfg *config.Config, logger *zap.Logger) *LedgerFactory {
	return &LedgerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLedger creates the ledger selected by ledger.type
func (f *LedgerFactory) CreateLedger() (core.SeenLedger, error) {
	ledgerCfg, err := f.cfg.GetLedger()
	if err != nil {
		return nil, err
	}

	opts := ledger.Options{
		Retention:        ledgerCfg.Retention,
		CleanupFrequency: ledgerCfg.CleanupFrequency,
	}

	switch ledgerCfg.Type {
	case "memory":
		f.logger.Warn("Using in-memory ledger, processed messages are forgotten on restart")
		return ledger.NewMemoryLedger(f.logger, opts), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(ledgerCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return ledger.NewSQLiteLedger(ledgerCfg.SQLitePath, ledgerCfg.Key, f.logger, opts)
	case "mysql":
		return ledger.NewMySQLLedger(ledgerCfg.MySQLDSN, ledgerCfg.Key, f.logger, opts)
	case "postgres":
		return ledger.NewPostgresLedger(ledgerCfg.PostgresDSN, ledgerCfg.Key, f.logger, opts)
	case "redis":
		return ledger.NewRedisLedger(context.Background(), ledger.RedisOptions{
			Addr:     ledgerCfg.RedisAddr,
			Password: ledgerCfg.RedisPassword,
			DB:       ledgerCfg.RedisDB,
		}, ledgerCfg.Key, f.logger, opts)
	default:
		return nil, fmt.Errorf("unsupported ledger type: %s", ledgerCfg.Type)
	}
}
