package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/codemaplab/codemap/internal/logger"
)

// OpenAIConfig holds the OpenAI-compatible client configuration.
type OpenAIConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	// BaseURL overrides the API endpoint for compatible providers.
	BaseURL string
}

// OpenAIClient implements Client using the OpenAI SDK.
type OpenAIClient struct {
	client         *openai.Client
	model          string
	embeddingModel string
	log            *logger.Logger
}

// NewOpenAIClient creates a client for the configured OpenAI-compatible API.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(config),
		model:          model,
		embeddingModel: embeddingModel,
		log:            logger.Default().WithPrefix("llm"),
	}, nil
}

func (c *OpenAIClient) GenerateJSON(ctx context.Context, system, user string, schema *Schema, out any) error {
	log := logger.FromContext(ctx).WithPrefix("llm")
	log.Debug("chat completion request: model=%s", c.model)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		log.Warn("chat completion failed: %v", err)
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("no choices in completion response")
	}

	raw, err := ExtractJSONObject(resp.Choices[0].Message.Content)
	if err != nil {
		log.Warn("model output contained no JSON object")
		return err
	}

	if err := schema.Validate(json.RawMessage(raw)); err != nil {
		log.Warn("model output failed schema validation: %v", err)
		return err
	}

	return json.Unmarshal([]byte(raw), out)
}

func (c *OpenAIClient) StreamChat(ctx context.Context, system string, history []Message, onDelta func(delta string) error) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("llm")

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	log.Debug("starting chat stream: model=%s, history=%d", c.model, len(history))
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		log.Warn("failed to open chat stream: %v", err)
		return "", err
	}
	defer stream.Close()

	var full []byte
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("chat stream interrupted: %v", err)
			return string(full), err
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full = append(full, delta...)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return string(full), err
			}
		}
	}

	log.Debug("chat stream complete: %d bytes", len(full))
	return string(full), nil
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	log := logger.FromContext(ctx).WithPrefix("llm")
	log.Debug("embedding request: model=%s, text_len=%d", c.embeddingModel, len(text))

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		log.Warn("embedding request failed: %v", err)
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no data in embedding response")
	}

	src := resp.Data[0].Embedding
	vector := make([]float64, len(src))
	for i, v := range src {
		vector[i] = float64(v)
	}
	return vector, nil
}

func (c *OpenAIClient) ModelID() string {
	return c.model
}

var _ Client = (*OpenAIClient)(nil)
