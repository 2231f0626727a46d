package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// placeholder subject and body for documents that did not arrive by mail
const uploadPlaceholder = "Empty"

var (
	// ErrNoDocumentText is returned when an uploaded document yields no text
	ErrNoDocumentText = errors.New("document contains no extractable text")
	// ErrNoCandidateData is returned when extraction finds nothing in the document
	ErrNoCandidateData = errors.New("no candidate data extracted from document")
)

// UploadService creates candidates from documents handed in by an operator.
// The target position is chosen by the caller, so no relevance scoring runs.
type UploadService struct {
	repo      Repository
	extractor DocumentExtractor
	analyzer  CandidateAnalyzer
	files     FileStore
	logger    *zap.Logger
}

// NewUploadService creates the manual upload service
func NewUploadService(
	repo Repository,
	extractor DocumentExtractor,
	analyzer CandidateAnalyzer,
	files FileStore,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		repo:      repo,
		extractor: extractor,
		analyzer:  analyzer,
		files:     files,
		logger:    logger,
	}
}

// CreateFromDocument extracts a candidate from the document and stores it
// for the position. The candidate is returned even when only the resume file
// save failed; the error then has KindPersistence.
func (s *UploadService) CreateFromDocument(ctx context.Context, positionID int64, filename string, data []byte) (*Candidate, error) {
	log := s.logger.With(zap.Int64("position_id", positionID), zap.String("filename", filename))

	position, err := s.repo.GetPosition(ctx, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load position %d: %w", positionID, err)
	}

	text := s.extractor.Extract(filename, data)
	if text == "" {
		return nil, ErrNoDocumentText
	}

	info, err := s.analyzer.ExtractCandidate(ctx, uploadPlaceholder, uploadPlaceholder, text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract candidate: %w", err)
	}
	if info.IsEmpty() {
		return nil, ErrNoCandidateData
	}

	candidate := NewCandidate(info, position.ID)
	id, err := createWithResume(ctx, s.repo, s.files, log, candidate, filename, data)
	if id == 0 {
		return nil, err
	}

	log.Info("Candidate created from uploaded document", zap.Int64("candidate_id", id))
	return candidate, err
}
