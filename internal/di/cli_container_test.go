package di

import (
	"path/filepath"
	"testing"

	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/core"
)

func TestApplyOverrides(t *testing.T) {
	cfg := config.NewFromViper(config.NewEmptyViper())
	err := applyOverrides(cfg, &CLIOptions{
		Provider:  "openai",
		Overrides: []string{"store.type=memory", "openai.base_url=http://localhost:8080/v1"},
	})
	if err != nil {
		t.Fatalf("applyOverrides: %v", err)
	}
	if got := cfg.GetLLM().Provider; got != "openai" {
		t.Fatalf("expected provider override, got %q", got)
	}
	if got := cfg.GetString("store.type"); got != "memory" {
		t.Fatalf("expected store override, got %q", got)
	}
	if got := cfg.GetString("openai.base_url"); got != "http://localhost:8080/v1" {
		t.Fatalf("value must keep everything after the first '=', got %q", got)
	}

	if err := applyOverrides(cfg, &CLIOptions{Overrides: []string{"no-equals"}}); err == nil {
		t.Fatalf("expected error for malformed override")
	}
}

func TestCLIContainerBuildsPipeline(t *testing.T) {
	dir := t.TempDir()
	container, err := BuildCLIContainer(&CLIOptions{
		Provider: "openai",
		Overrides: []string{
			"openai.api_key=test-key",
			"store.type=memory",
			"ledger.type=memory",
			"files.type=local",
			"files.local_dir=" + filepath.Join(dir, "media"),
		},
	})
	if err != nil {
		t.Fatalf("BuildCLIContainer: %v", err)
	}

	err = container.Invoke(func(p *core.Pipeline, upload *core.UploadService) {
		if p == nil || upload == nil {
			t.Fatalf("expected services to be built")
		}
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

func TestCLIContainerRejectsUnknownProvider(t *testing.T) {
	container, err := BuildCLIContainer(&CLIOptions{Provider: "nope"})
	if err != nil {
		t.Fatalf("BuildCLIContainer: %v", err)
	}
	if err := container.Invoke(func(core.LLMClient) {}); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}
