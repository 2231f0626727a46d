package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/recruitflow-ingest/internal/core"
)

func TestResponseSchema(t *testing.T) {
	schema := ResponseSchema(core.CandidateInfoSchema)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected object type, got %v", schema.Type)
	}
	if len(schema.Required) != len(core.CandidateInfoSchema.RequiredNames()) {
		t.Fatalf("unexpected required list %v", schema.Required)
	}

	tests := []struct {
		field    string
		nullable bool
	}{
		{field: "full_name", nullable: false},
		{field: "email", nullable: true},
		{field: "telegram", nullable: true},
	}
	for _, tt := range tests {
		prop, ok := schema.Properties[tt.field]
		if !ok {
			t.Fatalf("missing property %q", tt.field)
		}
		if prop.Type != genai.TypeString || prop.Nullable != tt.nullable {
			t.Fatalf("%s: unexpected property %+v", tt.field, prop)
		}
	}
}

func TestResponseSchemaEnum(t *testing.T) {
	prop := ResponseSchema(core.ResumeClassificationSchema).Properties["is_resume"]
	if prop == nil {
		t.Fatalf("missing is_resume property")
	}
	if prop.Format != "enum" || len(prop.Enum) != 2 {
		t.Fatalf("expected a string enum, got %+v", prop)
	}
}
