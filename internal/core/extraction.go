package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/recruitflow-ingest/internal/utils"
	"go.uber.org/zap"
)

// DefaultMaxAttachmentChars bounds the resume text sent to extraction
const DefaultMaxAttachmentChars = 20000

const (
	classifySystemInstruction = `You screen the inbox of a recruiter. Decide whether the email below is a CV,
a resume or a job application from a candidate. Newsletters, invoices, vacancy
notifications and personal correspondence are not CVs.`

	extractSystemInstruction = `You extract a structured candidate profile from a resume and the email it came with.
The attachment text is the primary source; use the subject and body only as context.
Never invent information: leave unknown text fields empty and unknown contacts null.`

	relevanceSystemInstruction = `You are a technical recruiter. Compare a candidate profile with the requirements
of a single position and decide whether the candidate is a strong match.`
)

// CandidateExtractor runs the three structured model calls of the pipeline.
// Each call returns its safe default together with any error.
type CandidateExtractor struct {
	llm                LLMClient
	textProcessor      *utils.TextProcessor
	logger             *zap.Logger
	maxAttachmentChars int
}

// NewCandidateExtractor creates the extraction service
func NewCandidateExtractor(
	llm LLMClient,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	maxAttachmentChars int,
) *CandidateExtractor {
	if maxAttachmentChars <= 0 {
		maxAttachmentChars = DefaultMaxAttachmentChars
	}
	return &CandidateExtractor{
		llm:                llm,
		textProcessor:      textProcessor,
		logger:             logger,
		maxAttachmentChars: maxAttachmentChars,
	}
}

type resumeFlag struct {
	IsResume string `json:"is_resume"`
}

type relevanceFlag struct {
	IsRelevant string `json:"is_relevant"`
}

// ClassifyIsResume reports whether the message is a resume or job application.
// On any failure it returns false and the error.
func (s *CandidateExtractor) ClassifyIsResume(ctx context.Context, subject, body, attachmentText string) (bool, error) {
	prompt := fmt.Sprintf("Subject: %s\n\nBody:\n%s\n\nAttachment:\n%s",
		subject, body, s.textProcessor.Prefix(attachmentText, s.maxAttachmentChars))

	var flag resumeFlag
	if err := s.call(ctx, "classify resume", &StructuredRequest{
		SystemInstruction: classifySystemInstruction,
		Prompt:            prompt,
		Schema:            ResumeClassificationSchema,
	}, &flag); err != nil {
		return false, err
	}
	return flag.IsResume == "1", nil
}

// ExtractCandidate pulls a structured profile out of the attachment text and
// the email. On any failure it returns nil and the error.
func (s *CandidateExtractor) ExtractCandidate(ctx context.Context, subject, body, attachmentText string) (*ExtractedCandidateInfo, error) {
	// The resume goes last so a provider size limit cuts the resume, never the email
	prompt := fmt.Sprintf("Email subject: %s\n\nEmail body:\n%s\n\nResume:\n%s",
		subject, body, s.textProcessor.Prefix(attachmentText, s.maxAttachmentChars))

	var info ExtractedCandidateInfo
	if err := s.call(ctx, "extract candidate", &StructuredRequest{
		SystemInstruction: extractSystemInstruction,
		Prompt:            prompt,
		Schema:            CandidateInfoSchema,
	}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ScoreRelevance reports whether the candidate fits the requirements.
// Empty requirements accept every candidate without a model call; any
// failure returns false and the error.
func (s *CandidateExtractor) ScoreRelevance(ctx context.Context, candidateSummary, requirements string) (bool, error) {
	if strings.TrimSpace(requirements) == "" {
		return true, nil
	}

	prompt := fmt.Sprintf("Position requirements:\n%s\n\nCandidate profile:\n%s", requirements, candidateSummary)

	var flag relevanceFlag
	if err := s.call(ctx, "score relevance", &StructuredRequest{
		SystemInstruction: relevanceSystemInstruction,
		Prompt:            prompt,
		Schema:            RelevanceSchema,
	}, &flag); err != nil {
		return false, err
	}
	return flag.IsRelevant == "1", nil
}

func (s *CandidateExtractor) call(ctx context.Context, op string, req *StructuredRequest, out any) error {
	raw, err := s.llm.GenerateStructured(ctx, req)
	if err != nil {
		s.logger.Warn("Model call failed", zap.String("operation", op), zap.Error(err))
		if KindOf(err) == KindUnknown {
			err = NewError(KindTransient, op, err)
		}
		return err
	}

	if err := DecodeStructured(raw, req.Schema, out); err != nil {
		s.logger.Warn("Model response rejected",
			zap.String("operation", op),
			zap.String("schema", req.Schema.Name),
			zap.Error(err))
		return err
	}
	return nil
}
