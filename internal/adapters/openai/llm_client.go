package openai

import (
	"context"
	"fmt"

	"github.com/mikey/recruitflow-ingest/internal/core"
	"github.com/mikey/recruitflow-ingest/internal/logging"
	"github.com/mikey/recruitflow-ingest/internal/utils"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the LLMClient interface using the
// OpenAI chat completions API or any server compatible with it
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logging.WithModelFields(logger, "openai", modelName),
		textProcessor: textProcessor,
	}
}

// GenerateStructured asks the model for a JSON object shaped by req.Schema
func (c *OpenAIClient) GenerateStructured(ctx context.Context, req *core.StructuredRequest) (string, error) {
	prompt := c.textProcessor.ProcessText(req.Prompt, c.maxBodySize)

	chatReq := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemInstruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:      c.maxTokens,
		Temperature:    c.temperature,
		TopP:           c.topP,
		ResponseFormat: responseFormat(req.Schema),
	}
	if req.Schema == nil {
		// json_object mode requires the word JSON somewhere in the messages
		chatReq.Messages[0].Content += "\nRespond only with a JSON object."
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("Model answered",
		zap.String("response_id", resp.ID),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("total_tokens", resp.Usage.TotalTokens))

	return resp.Choices[0].Message.Content, nil
}

func responseFormat(schema *core.OutputSchema) *openai.ChatCompletionResponseFormat {
	if schema == nil {
		return &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:        schema.Name,
			Description: schema.Description,
			Schema:      SchemaDefinition(schema),
			Strict:      false,
		},
	}
}

// SchemaDefinition translates the schema into a JSON Schema object.
// Nullable fields are plain strings here; the model is told to leave them
// empty, which the extraction service treats like null.
func SchemaDefinition(schema *core.OutputSchema) *jsonschema.Definition {
	def := &jsonschema.Definition{
		Type:        jsonschema.Object,
		Description: schema.Description,
		Properties:  make(map[string]jsonschema.Definition, len(schema.Fields)),
		Required:    schema.RequiredNames(),
	}
	for _, f := range schema.Fields {
		prop := jsonschema.Definition{
			Type:        jsonschema.String,
			Description: f.Description,
		}
		if f.Type == core.FieldEnum {
			prop.Enum = f.Enum
		}
		if f.Nullable {
			prop.Description += " Use an empty string when unknown."
		}
		def.Properties[f.Name] = prop
	}
	return def
}
