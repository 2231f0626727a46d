package genai

import (
	"context"
	"fmt"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/logging"
	"github.com/mikey/recruitflow-ingest/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Client is an implementation of the LLMClient interface using the Google
// GenAI SDK, against either the Gemini API or Vertex AI
type Client struct {
	client        *genai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClient wraps an SDK client
func NewClient(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Client {
	return &Client{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logging.WithModelFields(logger, "genai", modelName),
		textProcessor: textProcessor,
	}
}

// GenerateStructured asks the model for a JSON object shaped by req.Schema
func (c *Client) GenerateStructured(ctx context.Context, req *core.StructuredRequest) (string, error) {
	prompt := c.textProcessor.ProcessText(req.Prompt, c.maxBodySize)

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		TopP:             genai.Ptr(c.topP),
		MaxOutputTokens:  int32(c.maxTokens),
		ResponseMIMEType: "application/json",
	}
	if req.Schema != nil {
		genCfg.ResponseSchema = ResponseSchema(req.Schema)
	}
	if req.SystemInstruction != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content with GenAI: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from GenAI")
	}

	if resp.UsageMetadata != nil {
		c.logger.Debug("Model answered",
			zap.Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount),
			zap.Int32("total_tokens", resp.UsageMetadata.TotalTokenCount))
	}

	return text, nil
}

// ResponseSchema translates the schema into the GenAI schema type
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
		}
		if f.Nullable {
			prop.Nullable = genai.Ptr(true)
		}
		if f.Type == core.FieldEnum {
			prop.Format = "enum"
			prop.Enum = f.Enum
		}
		out.Properties[f.Name] = prop
	}
	return out
}
