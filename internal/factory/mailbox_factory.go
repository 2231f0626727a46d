package factory

import (
	"github.com/mikey/recruitflow-ingest/internal/adapters/mailbox"
	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"go.uber.org/zap"
)

// MailboxFactory creates IMAP mailbox readers
type MailboxFactory struct {
	cfg       *config.Config
	extractor core.DocumentExtractor
	logger    *zap.Logger
}

// NewMailboxFactory creates a new mailbox factory
func NewMailboxFactory(cfg *config.Config, extractor core.DocumentExtractor, logger *zap.Logger) *MailboxFactory {
	return &MailboxFactory{
		cfg:       cfg,
		extractor: extractor,
		logger:    logger,
	}
}

// CreateMailboxReader creates the reader for the configured IMAP server
func (f *MailboxFactory) CreateMailboxReader() (core.MailboxReader, error) {
	mailCfg, err := f.cfg.GetMail()
	if err != nil {
		return nil, err
	}
	return mailbox.NewIMAPReader(mailbox.Options{
		Address: mailCfg.IMAPAddress,
		Mailbox: mailCfg.Mailbox,
		Timeout: mailCfg.Timeout,
	}, f.extractor, f.logger), nil
}
