package core

import (
	"context"
	"strings"
	"testing"

	"github.com/mikey/recruitflow-ingest/internal/utils"
	"go.uber.org/zap"
)

func newExtractor(llm LLMClient, maxChars int) *CandidateExtractor {
	return NewCandidateExtractor(llm, utils.NewTextProcessor(zap.NewNop()), zap.NewNop(), maxChars)
}

func TestScoreRelevanceOpenRequirementsSkipModel(t *testing.T) {
	llm := &fakeLLM{err: errBoom}
	s := newExtractor(llm, 0)

	for _, req := range []string{"", "   ", "\n\t"} {
		ok, err := s.ScoreRelevance(context.Background(), "full_name: Ann", req)
		if err != nil || !ok {
			t.Fatalf("expected open requirements %q to match, got %v, %v", req, ok, err)
		}
	}
	if len(llm.calls) != 0 {
		t.Fatalf("expected no model calls, got %d", len(llm.calls))
	}
}

func TestScoreRelevance(t *testing.T) {
	cases := []struct {
		name     string
		response string
		err      error
		want     bool
		wantKind ErrorKind
	}{
		{name: "relevant", response: `{"is_relevant": "1"}`, want: true},
		{name: "irrelevant", response: `{"is_relevant": "0"}`, want: false},
		{name: "fenced", response: "```json\n{\"is_relevant\": \"1\"}\n```", want: true},
		{name: "out of enum", response: `{"is_relevant": "yes"}`, wantKind: KindValidation},
		{name: "garbage", response: `I think so`, wantKind: KindValidation},
		{name: "call failure", err: errBoom, wantKind: KindTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := &fakeLLM{responses: map[string]string{RelevanceSchema.Name: tc.response}, err: tc.err}
			got, err := newExtractor(llm, 0).ScoreRelevance(context.Background(), "profile", "Go")

			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if tc.wantKind != KindUnknown {
				if err == nil || KindOf(err) != tc.wantKind {
					t.Fatalf("expected %s error, got %v", tc.wantKind, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestClassifyIsResume(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{ResumeClassificationSchema.Name: `{"is_resume":"1"}`}}
	s := newExtractor(llm, 0)

	ok, err := s.ClassifyIsResume(context.Background(), "Application", "Please see attached", "Document name: cv.pdf\nGo")
	if err != nil || !ok {
		t.Fatalf("expected resume, got %v, %v", ok, err)
	}
	req := llm.calls[0]
	if req.SystemInstruction == "" || req.Schema != ResumeClassificationSchema {
		t.Fatalf("unexpected request %+v", req)
	}
	if !strings.Contains(req.Prompt, "Application") || !strings.Contains(req.Prompt, "cv.pdf") {
		t.Fatalf("expected subject and attachment in prompt, got %q", req.Prompt)
	}

	llm.err = errBoom
	ok, err = s.ClassifyIsResume(context.Background(), "", "", "")
	if ok || err == nil {
		t.Fatalf("expected false with error on failure, got %v, %v", ok, err)
	}
}

func TestExtractCandidate(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{CandidateInfoSchema.Name: `{
		"full_name": "Ann Lee",
		"programming_languages": "Go\nPython",
		"work_experience": "Acme 2 years",
		"technologies": "gRPC",
		"education": "MIT",
		"soft_skills": "Clear writing",
		"spoken_languages": "English C1",
		"email": "ann@example.com",
		"phone": null,
		"telegram": null
	}`}}
	s := newExtractor(llm, 10)

	info, err := s.ExtractCandidate(context.Background(), "CV", "hi", strings.Repeat("x", 50))
	if err != nil {
		t.Fatalf("ExtractCandidate: %v", err)
	}
	if info.FullName != "Ann Lee" || info.Email == nil || *info.Email != "ann@example.com" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Telegram != nil {
		t.Fatalf("expected null telegram")
	}

	prompt := llm.calls[0].Prompt
	if strings.Contains(prompt, strings.Repeat("x", 11)) || !strings.Contains(prompt, strings.Repeat("x", 10)) {
		t.Fatalf("expected attachment text cut to 10 chars, got %q", prompt)
	}
}

func TestExtractCandidateKeepsEmailWithinProviderLimit(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{CandidateInfoSchema.Name: `{
		"full_name": "Анна Ли", "programming_languages": "", "work_experience": "",
		"technologies": "", "education": "", "soft_skills": "", "spoken_languages": "",
		"email": null, "phone": null, "telegram": null
	}`}}
	s := newExtractor(llm, DefaultMaxAttachmentChars)

	resume := strings.Repeat("Опыт работы разработчиком. ", 1000)
	if _, err := s.ExtractCandidate(context.Background(), "Резюме Анна", "Добрый день, прошу рассмотреть", resume); err != nil {
		t.Fatalf("ExtractCandidate: %v", err)
	}

	// Providers cut the prompt to max_body_size bytes
	sent := utils.NewTextProcessor(zap.NewNop()).ProcessText(llm.calls[0].Prompt, 32768)
	if len(sent) >= len(llm.calls[0].Prompt) {
		t.Fatalf("expected the resume to exceed the provider limit")
	}
	for _, want := range []string{"Резюме Анна", "Добрый день, прошу рассмотреть", "Опыт работы"} {
		if !strings.Contains(sent, want) {
			t.Fatalf("expected %q to survive provider truncation", want)
		}
	}
}

func TestExtractCandidateRejectsMissingFields(t *testing.T) {
	llm := &fakeLLM{responses: map[string]string{CandidateInfoSchema.Name: `{"full_name": "Ann"}`}}

	info, err := newExtractor(llm, 0).ExtractCandidate(context.Background(), "", "", "")
	if info != nil {
		t.Fatalf("expected no extraction, got %+v", info)
	}
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
