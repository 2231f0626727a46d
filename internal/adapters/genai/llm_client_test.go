package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

func TestGenerateStructured(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"is_relevant\":\"1\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	sdk, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	if err != nil {
		t.Fatalf("genai.NewClient: %v", err)
	}
	client := NewClient(sdk, "gemini-2.0-flash", 256, 0, 1, 0, zap.NewNop(), utils.NewTextProcessor(nil))

	raw, err := client.GenerateStructured(context.Background(), &core.StructuredRequest{
		SystemInstruction: "compare",
		Prompt:            "candidate vs requirements",
		Schema:            core.RelevanceSchema,
	})
	if err != nil {
		t.Fatalf("GenerateStructured: %v", err)
	}
	if raw != `{"is_relevant":"1"}` {
		t.Fatalf("unexpected answer %q", raw)
	}

	genCfg, ok := body["generationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("expected generationConfig in request, got %v", body)
	}
	if genCfg["responseMimeType"] != "application/json" {
		t.Fatalf("expected JSON mime type, got %v", genCfg["responseMimeType"])
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Fatalf("expected system instruction in request")
	}
}

func TestResponseSchemaNullable(t *testing.T) {
	schema := ResponseSchema(core.CandidateInfoSchema)

	email := schema.Properties["email"]
	if email == nil || email.Nullable == nil || !*email.Nullable {
		t.Fatalf("expected email to be nullable, got %+v", email)
	}
	if name := schema.Properties["full_name"]; name == nil || name.Nullable != nil {
		t.Fatalf("expected full_name to be non-nullable, got %+v", name)
	}

	flag := ResponseSchema(core.ResumeClassificationSchema).Properties["is_resume"]
	if flag.Format != "enum" || len(flag.Enum) != 2 {
		t.Fatalf("unexpected enum property %+v", flag)
	}
}

func TestClientConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.GenAIConfig
		backend genai.Backend
		wantErr bool
	}{
		{name: "gemini", cfg: config.GenAIConfig{APIKey: "k"}, backend: genai.BackendGeminiAPI},
		{name: "gemini without key", cfg: config.GenAIConfig{Backend: BackendGemini}, wantErr: true},
		{name: "vertex with adc", cfg: config.GenAIConfig{Backend: BackendVertex, Project: "p", Location: "europe-west4"}, backend: genai.BackendVertexAI},
		{name: "vertex without project", cfg: config.GenAIConfig{Backend: BackendVertex}, wantErr: true},
		{name: "unknown", cfg: config.GenAIConfig{Backend: "azure", APIKey: "k"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clientConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("clientConfig: %v", err)
			}
			if got.Backend != tt.backend {
				t.Fatalf("expected backend %v, got %v", tt.backend, got.Backend)
			}
		})
	}
}
