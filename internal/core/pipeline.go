package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/recruitflow-ingest/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultFetchLimit is the number of recent messages read per mailbox
	DefaultFetchLimit = 50
	// DefaultUserConcurrency is the number of mailboxes processed at once
	DefaultUserConcurrency = 4
)

// PipelineOptions tunes one ingestion run
type PipelineOptions struct {
	FetchLimit      int
	UserConcurrency int
}

// RunReport counts the outcome of every message seen in one run
type RunReport struct {
	RunID           string
	Users           int
	MailboxFailures int
	Messages        int
	AlreadySeen     int
	Marked          int
	LedgerFailures  int
	IgnoredSenders  int
	NotResume       int
	Accepted        int
	ExtractionEmpty int
	NoMatch         int
	Created         int
	CreateFailures  int
	FileSaveErrors  int
	Duration        time.Duration
}

func (r *RunReport) merge(o *RunReport) {
	r.Users += o.Users
	r.MailboxFailures += o.MailboxFailures
	r.Messages += o.Messages
	r.AlreadySeen += o.AlreadySeen
	r.Marked += o.Marked
	r.LedgerFailures += o.LedgerFailures
	r.IgnoredSenders += o.IgnoredSenders
	r.NotResume += o.NotResume
	r.Accepted += o.Accepted
	r.ExtractionEmpty += o.ExtractionEmpty
	r.NoMatch += o.NoMatch
	r.Created += o.Created
	r.CreateFailures += o.CreateFailures
	r.FileSaveErrors += o.FileSaveErrors
}

// Fields renders the report for structured logging
func (r *RunReport) Fields() []zap.Field {
	return []zap.Field{
		zap.String("run_id", r.RunID),
		zap.Int("users", r.Users),
		zap.Int("mailbox_failures", r.MailboxFailures),
		zap.Int("messages", r.Messages),
		zap.Int("already_seen", r.AlreadySeen),
		zap.Int("marked", r.Marked),
		zap.Int("ledger_failures", r.LedgerFailures),
		zap.Int("ignored_senders", r.IgnoredSenders),
		zap.Int("not_resume", r.NotResume),
		zap.Int("accepted", r.Accepted),
		zap.Int("extraction_empty", r.ExtractionEmpty),
		zap.Int("no_match", r.NoMatch),
		zap.Int("created", r.Created),
		zap.Int("create_failures", r.CreateFailures),
		zap.Int("file_save_errors", r.FileSaveErrors),
		zap.Duration("duration", r.Duration),
	}
}

// Pipeline turns inbound mail into candidates. Users are processed in
// parallel; messages of one user are processed in order.
type Pipeline struct {
	repo     Repository
	mailbox  MailboxReader
	ledger   SeenLedger
	analyzer CandidateAnalyzer
	files    FileStore
	senders  SenderFilter
	logger   *zap.Logger
	opts     PipelineOptions
}

// NewPipeline creates the ingestion pipeline. senders may be nil.
func NewPipeline(
	repo Repository,
	mailbox MailboxReader,
	ledger SeenLedger,
	analyzer CandidateAnalyzer,
	files FileStore,
	senders SenderFilter,
	logger *zap.Logger,
	opts PipelineOptions,
) *Pipeline {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = DefaultFetchLimit
	}
	if opts.UserConcurrency <= 0 {
		opts.UserConcurrency = DefaultUserConcurrency
	}
	return &Pipeline{
		repo:     repo,
		mailbox:  mailbox,
		ledger:   ledger,
		analyzer: analyzer,
		files:    files,
		senders:  senders,
		logger:   logger,
		opts:     opts,
	}
}

// Run processes every user with mail credentials once. Only a failure to
// list users is returned; everything else is counted in the report.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	started := time.Now()
	report := &RunReport{RunID: uuid.NewString()}
	logger := p.logger.With(zap.String("run_id", report.RunID))

	users, err := p.repo.UsersWithMailCredentials(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list users with mail credentials: %w", err)
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(p.opts.UserConcurrency)

	for i := range users {
		user := users[i]
		if !user.HasMailCredentials() {
			continue
		}
		g.Go(func() error {
			userReport := p.processUser(ctx, logger, &user)
			mu.Lock()
			report.merge(userReport)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(started)
	logger.Info("Ingestion run finished", report.Fields()...)
	return report, nil
}

func (p *Pipeline) processUser(ctx context.Context, logger *zap.Logger, user *User) (report *RunReport) {
	report = &RunReport{Users: 1}
	log := logging.WithFields(logger, logging.PipelineFields(user.Email, "")...)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic while processing user", zap.Any("panic", r))
		}
	}()

	messages, err := p.mailbox.FetchRecent(ctx, user.Email, user.MailPassword, p.opts.FetchLimit)
	if err != nil {
		log.Error("Failed to fetch mailbox", zap.Error(err))
		report.MailboxFailures++
		return report
	}
	report.Messages = len(messages)

	accepted := p.screen(ctx, log, messages, report)
	if len(accepted) == 0 {
		return report
	}

	positions, err := p.repo.PositionsForUser(ctx, user.ID)
	if err != nil {
		log.Error("Failed to load positions", zap.Error(err))
		return report
	}

	for i := range accepted {
		if ctx.Err() != nil {
			log.Warn("Run cancelled before extraction", zap.Int("remaining", len(accepted)-i))
			break
		}
		p.ingest(ctx, log, &accepted[i], positions, report)
	}
	return report
}

// screen applies the dedup gate and the resume classification. A key is
// marked seen before classification, so a failed classification is never retried.
func (p *Pipeline) screen(ctx context.Context, log *zap.Logger, messages []Message, report *RunReport) []Message {
	var accepted []Message
	for i := range messages {
		// Unmarked messages stay eligible for the next run
		if ctx.Err() != nil {
			log.Warn("Run cancelled, leaving remaining messages unseen", zap.Int("remaining", len(messages)-i))
			break
		}
		msg := &messages[i]
		key := msg.LedgerKey()
		msgLog := log.With(zap.String(logging.FieldMessageKey, key))

		added, err := p.ledger.MarkIfAbsent(ctx, key)
		if err != nil {
			msgLog.Error("Failed to mark message as seen", zap.Error(err))
			report.LedgerFailures++
			continue
		}
		if !added {
			report.AlreadySeen++
			continue
		}
		report.Marked++

		if p.senders != nil && p.senders.IsIgnored(msg.Sender) {
			msgLog.Debug("Skipping message from ignored sender")
			report.IgnoredSenders++
			continue
		}

		isResume, err := p.analyzer.ClassifyIsResume(ctx, msg.Subject, msg.Body, msg.AttachmentText)
		if err != nil {
			msgLog.Warn("Classification failed, skipping message", zap.Error(err))
		}
		if !isResume {
			msgLog.Debug("Message is not a resume")
			report.NotResume++
			continue
		}

		report.Accepted++
		accepted = append(accepted, *msg)
	}
	return accepted
}

// ingest extracts a candidate and attaches it to the first relevant position
func (p *Pipeline) ingest(ctx context.Context, log *zap.Logger, msg *Message, positions []Position, report *RunReport) {
	log = log.With(zap.String(logging.FieldMessageKey, msg.LedgerKey()))

	info, err := p.analyzer.ExtractCandidate(ctx, msg.Subject, msg.Body, msg.AttachmentText)
	if err != nil {
		log.Warn("Extraction failed, abandoning message", zap.Error(err))
	}
	if info.IsEmpty() {
		log.Info("Extraction yielded no candidate data")
		report.ExtractionEmpty++
		return
	}

	summary := info.SummaryText()
	for _, position := range positions {
		if ctx.Err() != nil {
			log.Warn("Run cancelled during relevance scoring", zap.Error(ctx.Err()))
			return
		}
		relevant, err := p.analyzer.ScoreRelevance(ctx, summary, position.Requirements)
		if err != nil {
			log.Warn("Relevance scoring failed, treating as no match",
				zap.Int64("position_id", position.ID), zap.Error(err))
		}
		if !relevant {
			continue
		}
		p.persist(ctx, log, info, &position, msg, report)
		return
	}

	log.Info("Candidate matched no position", zap.Int("positions", len(positions)))
	report.NoMatch++
}

func (p *Pipeline) persist(ctx context.Context, log *zap.Logger, info *ExtractedCandidateInfo, position *Position, msg *Message, report *RunReport) {
	id, err := createWithResume(ctx, p.repo, p.files, log, NewCandidate(info, position.ID), msg.AttachmentFilename, msg.AttachmentData)
	switch {
	case err == nil:
		report.Created++
	case id != 0:
		report.Created++
		report.FileSaveErrors++
	default:
		report.CreateFailures++
		return
	}
	log.Info("Candidate created",
		zap.Int64("candidate_id", id),
		zap.Int64("position_id", position.ID),
		zap.String("position", position.Name))
}

// createWithResume writes the candidate, then stores the resume file. A
// failed file save leaves the candidate in place without a resume; the
// returned id is non-zero whenever the candidate exists.
func createWithResume(ctx context.Context, repo Repository, files FileStore, log *zap.Logger, candidate *Candidate, filename string, data []byte) (int64, error) {
	id, err := repo.CreateCandidate(ctx, candidate)
	if err != nil {
		log.Error("Failed to create candidate", zap.Error(err))
		return 0, NewError(KindPersistence, "create candidate", err)
	}
	candidate.ID = id

	if len(data) == 0 || filename == "" {
		return id, nil
	}

	ref, err := files.Save(ctx, filename, data)
	if err == nil {
		err = repo.AttachResume(ctx, id, ref)
	}
	if err != nil {
		log.Error("Failed to save resume file",
			zap.Int64("candidate_id", id),
			zap.String("filename", filename),
			zap.Error(err))
		return id, NewError(KindPersistence, "save resume", err)
	}
	candidate.CVFile = ref
	return id, nil
}
