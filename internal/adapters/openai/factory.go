package openai

import (
	"fmt"

	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/secrets"
	"github.com/mikey/recruitflow-ingest/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIClient
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClient creates a new OpenAIClient
func (f *Factory) CreateClient() (*OpenAIClient, error) {
	openaiCfg := f.cfg.GetOpenAI()

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "openai api key",
		Value: openaiCfg.APIKey,
		File:  openaiCfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAI credentials: %w", err)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if openaiCfg.BaseURL != "" {
		clientCfg.BaseURL = openaiCfg.BaseURL
	}

	return NewOpenAIClient(
		openai.NewClientWithConfig(clientCfg),
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		openaiCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
