package genai

import (
	"context"
	"fmt"

	"github.com/mikey/recruitflow-ingest/internal/config"
	"github.com/mikey/recruitflow-ingest/internal/secrets"
	"github.com/mikey/recruitflow-ingest/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Backend names accepted in genai.backend
const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// Factory creates new instances of Client
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for GenAI clients
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClient creates a new Client for the configured backend
func (f *Factory) CreateClient() (*Client, error) {
	genaiCfg := f.cfg.GetGenAI()

	clientCfg, err := clientConfig(genaiCfg)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(context.Background(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return NewClient(
		client,
		genaiCfg.ModelName,
		genaiCfg.MaxTokens,
		genaiCfg.Temperature,
		genaiCfg.TopP,
		genaiCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}

func clientConfig(cfg config.GenAIConfig) (*genai.ClientConfig, error) {
	src := secrets.Source{Name: "genai api key", Value: cfg.APIKey, File: cfg.APIKeyFile}

	switch cfg.Backend {
	case "", BackendGemini:
		apiKey, err := secrets.Load(src)
		if err != nil {
			return nil, fmt.Errorf("failed to load GenAI credentials: %w", err)
		}
		return &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}, nil
	case BackendVertex:
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("vertex backend requires genai.project and genai.location")
		}
		// Vertex normally authenticates with application default credentials
		apiKey, err := secrets.LoadOptional(src)
		if err != nil {
			return nil, fmt.Errorf("failed to load GenAI credentials: %w", err)
		}
		return &genai.ClientConfig{
			APIKey:   apiKey,
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported genai backend: %s", cfg.Backend)
	}
}
