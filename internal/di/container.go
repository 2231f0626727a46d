package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/recruitflow-ingest/internal/adapters/document"
	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/factory"
	"github.com/mikey/recruitflow-ingest/internal/logging"
	"github.com/mikey/recruitflow-ingest/internal/ports"
	"github.com/mikey/recruitflow-ingest/internal/scheduler"
	"github.com/mikey/recruitflow-ingest/internal/senders"
	"github.com/mikey/recruitflow-ingest/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// for the ingestion daemon
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	// Register the periodic runner
	if err := container.Provide(func(pipeline *core.Pipeline) ports.Job {
		return pipeline
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, job ports.Job, logger *zap.Logger) (*scheduler.Periodic, error) {
		pipelineCfg, err := cfg.GetPipeline()
		if err != nil {
			return nil, err
		}
		return scheduler.NewPeriodic(job, pipelineCfg.Interval, pipelineCfg.RunOnStart, logger), nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(p *scheduler.Periodic) ports.Runner {
		return p
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideServices registers everything below the logger and configuration.
// dig builds lazily, so commands only open the backends they ask for.
func provideServices(container *dig.Container) error {
	// Register factories
	for _, constructor := range []interface{}{
		factory.NewLLMFactory,
		factory.NewLedgerFactory,
		factory.NewStoreFactory,
		factory.NewFileStoreFactory,
		factory.NewMailboxFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	// Register backends
	if err := container.Provide(func(f *factory.LedgerFactory) (core.SeenLedger, error) {
		return f.CreateLedger()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.StoreFactory) (core.Repository, error) {
		return f.CreateRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.FileStoreFactory) (core.FileStore, error) {
		return f.CreateFileStore()
	}); err != nil {
		return err
	}

	// Register mail access
	if err := container.Provide(func(logger *zap.Logger) core.DocumentExtractor {
		return document.NewExtractor(logger)
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.MailboxFactory) (core.MailboxReader, error) {
		return f.CreateMailboxReader()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (core.SenderFilter, error) {
		mailCfg, err := cfg.GetMail()
		if err != nil {
			return nil, err
		}
		return senders.NewChecker(mailCfg.IgnoredSenderDomains, logger), nil
	}); err != nil {
		return err
	}

	// Register extraction service
	if err := container.Provide(func(
		llmClient core.LLMClient,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
		cfg *config.Config,
	) core.CandidateAnalyzer {
		return core.NewCandidateExtractor(llmClient, textProcessor, logger, cfg.GetExtraction().MaxAttachmentChars)
	}); err != nil {
		return err
	}

	// Register pipeline
	if err := container.Provide(func(
		cfg *config.Config,
		repo core.Repository,
		mailbox core.MailboxReader,
		ledger core.SeenLedger,
		analyzer core.CandidateAnalyzer,
		files core.FileStore,
		senderFilter core.SenderFilter,
		logger *zap.Logger,
	) (*core.Pipeline, error) {
		mailCfg, err := cfg.GetMail()
		if err != nil {
			return nil, err
		}
		pipelineCfg, err := cfg.GetPipeline()
		if err != nil {
			return nil, err
		}
		return core.NewPipeline(repo, mailbox, ledger, analyzer, files, senderFilter, logger, core.PipelineOptions{
			FetchLimit:      mailCfg.FetchLimit,
			UserConcurrency: pipelineCfg.UserConcurrency,
		}), nil
	}); err != nil {
		return err
	}

	// Register manual upload
	return container.Provide(core.NewUploadService)
}
