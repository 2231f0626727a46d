package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/logging"
	"github.com/mikey/recruitflow-ingest/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the LLMClient interface using the
// Google Gemini SDK
type GeminiClient struct {
	client        *genai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logging.WithModelFields(logger, "gemini", modelName),
		textProcessor: textProcessor,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// model builds a per-request model handle; GenerativeModel carries the
// schema and system instruction, so it cannot be shared between calls.
func (c *GeminiClient) model(req *core.StructuredRequest) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temperature)
	model.SetTopP(c.topP)
	model.SetMaxOutputTokens(int32(c.maxTokens))
	model.ResponseMIMEType = "application/json"
	if req.Schema != nil {
		model.ResponseSchema = ResponseSchema(req.Schema)
	}
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}
	return model
}

// GenerateStructured asks the model for a JSON object shaped by req.Schema
func (c *GeminiClient) GenerateStructured(ctx context.Context, req *core.StructuredRequest) (string, error) {
	prompt := c.textProcessor.ProcessText(req.Prompt, c.maxBodySize)

	resp, err := c.model(req).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	c.logger.Debug("Model answered",
		zap.String("finish_reason", resp.Candidates[0].FinishReason.String()))

	return b.String(), nil
}

// ResponseSchema translates the schema into the Gemini schema type
func ResponseSchema(schema *core.OutputSchema) *genai.Schema {
	out := &genai.Schema{
		Type:        genai.TypeObject,
		Description: schema.Description,
		Properties:  make(map[string]*genai.Schema, len(schema.Fields)),
		Required:    schema.RequiredNames(),
	}
	for _, f := range schema.Fields {
		prop := &genai.Schema{
			Type:        genai.TypeString,
			Description: f.Description,
			Nullable:    f.Nullable,
		}
		if f.Type == core.FieldEnum {
			prop.Format = "enum"
			prop.Enum = f.Enum
		}
		out.Properties[f.Name] = prop
	}
	return out
}
