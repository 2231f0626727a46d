package core

import (
	"context"
)

// LLMClient is the language-model capability used for structured calls
type LLMClient interface {
	// GenerateStructured sends the request and returns the raw model text,
	// expected to hold a JSON object matching req.Schema
	GenerateStructured(ctx context.Context, req *StructuredRequest) (string, error)
}

// DocumentExtractor turns a document into plain text. It never fails:
// unsupported or unreadable documents yield an empty string.
type DocumentExtractor interface {
	Extract(filename string, data []byte) string
}

// MailboxReader fetches recent messages from a user's mailbox
type MailboxReader interface {
	// FetchRecent returns at most limit messages, newest first
	FetchRecent(ctx context.Context, address, credential string, limit int) ([]Message, error)
}

// SeenLedger is the durable set of processed message keys
type SeenLedger interface {
	IsMember(ctx context.Context, key string) (bool, error)
	Add(ctx context.Context, key string) error

	// MarkIfAbsent adds key and reports whether this call added it.
	// Check and mark happen atomically.
	MarkIfAbsent(ctx context.Context, key string) (bool, error)
}

// CandidateAnalyzer is the extraction service as seen by the pipeline
type CandidateAnalyzer interface {
	ClassifyIsResume(ctx context.Context, subject, body, attachmentText string) (bool, error)
	ExtractCandidate(ctx context.Context, subject, body, attachmentText string) (*ExtractedCandidateInfo, error)
	ScoreRelevance(ctx context.Context, candidateSummary, requirements string) (bool, error)
}

// Repository gives the pipeline read access to users and positions and
// write access to candidates
type Repository interface {
	UsersWithMailCredentials(ctx context.Context) ([]User, error)

	// PositionsForUser returns the distinct positions of all projects the
	// user is a member of, in creation order
	PositionsForUser(ctx context.Context, userID int64) ([]Position, error)
	GetPosition(ctx context.Context, positionID int64) (*Position, error)

	CreateCandidate(ctx context.Context, candidate *Candidate) (int64, error)
	AttachResume(ctx context.Context, candidateID int64, fileRef string) error
	CandidatesForUser(ctx context.Context, userID int64) ([]Candidate, error)
}

// FileStore persists resume attachments
type FileStore interface {
	// Save stores data under a name derived from filename and returns the
	// reference recorded on the candidate
	Save(ctx context.Context, filename string, data []byte) (string, error)
}

// SenderFilter decides whether a sender is never worth classifying
type SenderFilter interface {
	IsIgnored(sender string) bool
}
