package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/utils"
	"go.uber.org/zap"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func newClient(modelID string, invoker *fakeInvoker) *BedrockClient {
	return NewBedrockClient(invoker, modelID, 512, 0, 1, 0, zap.NewNop(), utils.NewTextProcessor(nil))
}

func TestGenerateStructuredAnthropic(t *testing.T) {
	invoker := &fakeInvoker{body: `{"content":[{"type":"text","text":"{\"is_resume\":\"1\"}"}]}`}
	client := newClient("anthropic.claude-3-haiku-20240307-v1:0", invoker)

	raw, err := client.GenerateStructured(context.Background(), &core.StructuredRequest{
		SystemInstruction: "screen the inbox",
		Prompt:            "Subject: CV",
		Schema:            core.ResumeClassificationSchema,
	})
	if err != nil {
		t.Fatalf("GenerateStructured: %v", err)
	}
	if raw != `{"is_resume":"1"}` {
		t.Fatalf("unexpected answer %q", raw)
	}

	var payload struct {
		Version  string `json:"anthropic_version"`
		System   string `json:"system"`
		Messages []struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(invoker.input.Body, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Version != anthropicVersion || payload.System != "screen the inbox" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if len(payload.Messages) != 1 || !strings.Contains(payload.Messages[0].Content[0].Text, "is_resume") {
		t.Fatalf("expected schema description in the prompt, got %+v", payload.Messages)
	}
}

func TestGenerateStructuredModelFamilies(t *testing.T) {
	tests := []struct {
		name    string
		modelID string
		body    string
		want    string
		wantErr bool
	}{
		{name: "titan", modelID: "amazon.titan-text-express-v1", body: `{"results":[{"outputText":"{}"}]}`, want: "{}"},
		{name: "titan empty", modelID: "amazon.titan-text-express-v1", body: `{"results":[]}`, wantErr: true},
		{name: "generic field", modelID: "meta.llama3-8b-instruct-v1:0", body: `{"generation":"{\"a\":\"b\"}"}`, want: `{"a":"b"}`},
		{name: "generic raw", modelID: "mistral.mistral-7b", body: `{"outputs":[1]}`, want: `{"outputs":[1]}`},
		{name: "claude empty", modelID: "anthropic.claude-v2", body: `{"content":[]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(tt.modelID, &fakeInvoker{body: tt.body})
			got, err := client.GenerateStructured(context.Background(), &core.StructuredRequest{Prompt: "p"})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateStructured: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGenerateStructuredInvokeError(t *testing.T) {
	client := newClient("anthropic.claude-v2", &fakeInvoker{err: errors.New("throttled")})
	if _, err := client.GenerateStructured(context.Background(), &core.StructuredRequest{Prompt: "p"}); err == nil {
		t.Fatalf("expected invoke error to surface")
	}
}
