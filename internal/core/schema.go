package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FieldType is the JSON type of a schema field
type FieldType string

const (
	FieldString FieldType = "string"
	FieldEnum   FieldType = "enum"
)

// SchemaField describes one property of a structured model answer
type SchemaField struct {
	Name        string
	Description string
	Type        FieldType
	Enum        []string
	Required    bool
	Nullable    bool
}

// OutputSchema is a provider-neutral description of a JSON object answer.
// Providers translate it to their native structured-output format.
type OutputSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// StructuredRequest is one call against the language model
type StructuredRequest struct {
	SystemInstruction string
	Prompt            string
	Schema            *OutputSchema
}

// RequiredNames lists the names of required fields in declaration order
func (s *OutputSchema) RequiredNames() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Describe renders the schema as prompt text for providers without native
// structured output
func (s *OutputSchema) Describe() string {
	var b strings.Builder
	b.WriteString("Respond with a single JSON object and nothing else. The object has these keys:\n")
	for _, f := range s.Fields {
		b.WriteString("- ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		switch {
		case f.Type == FieldEnum:
			b.WriteString("one of \"" + strings.Join(f.Enum, "\", \"") + "\"")
		case f.Nullable:
			b.WriteString("string or null")
		default:
			b.WriteString("string")
		}
		if f.Description != "" {
			b.WriteString(". ")
			b.WriteString(f.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

var errNoJSON = errors.New("no JSON object in model response")

// DecodeStructured locates the JSON object in a raw model answer, checks it
// against schema and decodes it into out. Every failure is KindValidation.
func DecodeStructured(raw string, schema *OutputSchema, out any) error {
	const op = "decode structured response"

	payload, err := extractJSON(raw)
	if err != nil {
		return NewError(KindValidation, op, err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return NewError(KindValidation, op, fmt.Errorf("parse response: %w", err))
	}

	if err := schema.validate(fields); err != nil {
		return NewError(KindValidation, op, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return NewError(KindValidation, op, fmt.Errorf("decode %s: %w", schema.Name, err))
	}
	return nil
}

func (s *OutputSchema) validate(values map[string]any) error {
	for _, f := range s.Fields {
		v, ok := values[f.Name]
		if !ok {
			if f.Required {
				return fmt.Errorf("%s: missing field %q", s.Name, f.Name)
			}
			continue
		}
		if v == nil {
			if !f.Nullable {
				return fmt.Errorf("%s: field %q must not be null", s.Name, f.Name)
			}
			continue
		}
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s: field %q must be a string, got %T", s.Name, f.Name, v)
		}
		if f.Type == FieldEnum && !contains(f.Enum, str) {
			return fmt.Errorf("%s: field %q has value %q outside %v", s.Name, f.Name, str, f.Enum)
		}
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// extractJSON strips markdown fences and returns the outermost {...} span
func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", errNoJSON
	}
	return text[start : end+1], nil
}

var binaryFlag = []string{"0", "1"}

// ResumeClassificationSchema is the answer of the is-this-a-resume call
var ResumeClassificationSchema = &OutputSchema{
	Name:        "resume_classification",
	Description: "Whether an email is a CV or job application",
	Fields: []SchemaField{
		{
			Name:        "is_resume",
			Description: "is this mail a cv: 0 - it is not a cv, 1 - yes, it is a cv",
			Type:        FieldEnum,
			Enum:        binaryFlag,
			Required:    true,
		},
	},
}

// CandidateInfoSchema is the answer of the candidate extraction call
var CandidateInfoSchema = &OutputSchema{
	Name:        "candidate_info",
	Description: "Structured candidate profile extracted from a resume",
	Fields: []SchemaField{
		{Name: "full_name", Type: FieldString, Required: true,
			Description: "Full name of the candidate extracted from the resume."},
		{Name: "programming_languages", Type: FieldString, Required: true,
			Description: "Programming languages known by the candidate, one per line. Example: 'Python\\nJavaScript\\nC++'"},
		{Name: "work_experience", Type: FieldString, Required: true,
			Description: "Work history, 'Company Duration' per line. Example: 'ElevenLabs 1.5 years\\nMbank 2 years'"},
		{Name: "technologies", Type: FieldString, Required: true,
			Description: "Frameworks, libraries and tools, one per line. Example: 'Django\\nFastAPI\\nPostgreSQL'"},
		{Name: "education", Type: FieldString, Required: true,
			Description: "Educational background, each institution or degree on a new line."},
		{Name: "soft_skills", Type: FieldString, Required: true,
			Description: "Soft skills judged from the cover letter and resume tone, separated by newlines."},
		{Name: "spoken_languages", Type: FieldString, Required: true,
			Description: "Spoken languages and levels, 'Language Level' per line. Example: 'English B2\\nRussian Native'"},
		{Name: "email", Type: FieldString, Nullable: true,
			Description: "Contact email address. Null if not found."},
		{Name: "phone", Type: FieldString, Nullable: true,
			Description: "Contact phone number. Null if not found."},
		{Name: "telegram", Type: FieldString, Nullable: true,
			Description: "Telegram username or profile link. Null if not found."},
	},
}

// RelevanceSchema is the answer of the candidate-vs-position call
var RelevanceSchema = &OutputSchema{
	Name:        "relevance",
	Description: "Whether a candidate fits a position",
	Fields: []SchemaField{
		{
			Name: "is_relevant",
			Description: "Compare the candidate's skills and experience with the position requirements. " +
				"Return '1' if there is a strong match, '0' if the candidate is unqualified or irrelevant.",
			Type:     FieldEnum,
			Enum:     binaryFlag,
			Required: true,
		},
	},
}
