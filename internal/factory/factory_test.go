package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mikey/recruitflow-ingest/internal/adapters/filestore"
	"github.com/mikey/recruitflow-ingest/internal/adapters/ledger"
	"github.com/mikey/recruitflow-ingest/internal/adapters/store"
	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/utils"
	"go.uber.org/zap"
)

func newConfig(values map[string]interface{}) *config.Config {
	cfg := config.NewFromViper(config.NewEmptyViper())
	for k, v := range values {
		cfg.Set(k, v)
	}
	return cfg
}

func TestLedgerFactory(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		values  map[string]interface{}
		wantErr bool
	}{
		{name: "memory", values: map[string]interface{}{"ledger.type": "memory"}},
		{name: "sqlite", values: map[string]interface{}{
			"ledger.type":        "sqlite",
			"ledger.sqlite_path": filepath.Join(dir, "nested", "ledger.db"),
		}},
		{name: "unknown", values: map[string]interface{}{"ledger.type": "etcd"}, wantErr: true},
		{name: "bad retention", values: map[string]interface{}{"ledger.retention": "soon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLedgerFactory(newConfig(tt.values), zap.NewNop()).CreateLedger()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateLedger: %v", err)
			}
			switch l := l.(type) {
			case *ledger.MemoryLedger:
				l.Stop()
			case *ledger.SQLiteLedger:
				l.Stop()
			default:
				t.Fatalf("unexpected ledger %T", l)
			}
		})
	}
}

func TestLedgerFactoryDefaultIsDurable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "ledger.db")
	key := "ann@example.com_2024-03-01 09:30:00+00:00"

	// Two processes started with the default configuration
	for run, wantAdded := range []bool{true, false} {
		l, err := NewLedgerFactory(newConfig(map[string]interface{}{"ledger.sqlite_path": path}), zap.NewNop()).CreateLedger()
		if err != nil {
			t.Fatalf("run %d: CreateLedger: %v", run, err)
		}
		sqlite, ok := l.(*ledger.SQLiteLedger)
		if !ok {
			t.Fatalf("expected a durable default ledger, got %T", l)
		}
		added, err := sqlite.MarkIfAbsent(ctx, key)
		sqlite.Stop()
		if err != nil || added != wantAdded {
			t.Fatalf("run %d: expected added=%v, got %v, %v", run, wantAdded, added, err)
		}
	}
}

func TestStoreFactory(t *testing.T) {
	repo, err := NewStoreFactory(newConfig(map[string]interface{}{"store.type": "memory"}), zap.NewNop()).CreateRepository()
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	if _, ok := repo.(*store.MemoryStore); !ok {
		t.Fatalf("unexpected repository %T", repo)
	}

	repo, err = NewStoreFactory(newConfig(map[string]interface{}{
		"store.type":        "sqlite",
		"store.sqlite_path": filepath.Join(t.TempDir(), "data", "recruit.db"),
	}), zap.NewNop()).CreateRepository()
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	repo.(*store.SQLStore).Close()

	if _, err := NewStoreFactory(newConfig(map[string]interface{}{"store.type": "mongo"}), zap.NewNop()).CreateRepository(); err == nil {
		t.Fatalf("expected unsupported store error")
	}
}

func TestFileStoreFactory(t *testing.T) {
	files, err := NewFileStoreFactory(newConfig(map[string]interface{}{
		"files.type":      "local",
		"files.local_dir": t.TempDir(),
	}), zap.NewNop()).CreateFileStore()
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	if _, ok := files.(*filestore.LocalStore); !ok {
		t.Fatalf("unexpected file store %T", files)
	}

	// MinIO needs a secret before any connection is attempted
	_, err = NewFileStoreFactory(newConfig(map[string]interface{}{"files.type": "minio"}), zap.NewNop()).CreateFileStore()
	if err == nil {
		t.Fatalf("expected missing secret error")
	}
}

func TestLLMFactoryRejectsUnknownProvider(t *testing.T) {
	f := NewLLMFactory(newConfig(map[string]interface{}{"llm.provider": "llama"}), zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))
	if _, err := f.CreateLLMClient(); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}

func TestLLMFactoryOpenAI(t *testing.T) {
	f := NewLLMFactory(newConfig(map[string]interface{}{
		"llm.provider":   "openai",
		"openai.api_key": "test-key",
	}), zap.NewNop(), utils.NewTextProcessor(zap.NewNop()))
	client, err := f.CreateLLMClient()
	if err != nil || client == nil {
		t.Fatalf("CreateLLMClient: %v", err)
	}
}
