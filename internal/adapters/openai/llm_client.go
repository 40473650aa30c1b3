package openai

import (
	"context"
	"fmt"

	"github.com/mikey/phishing-relay/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient is an implementation of the LLMClient interface using
// OpenAI chat completions.
type OpenAIClient struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(
	apiKey string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *OpenAIClient {
	c := &OpenAIClient{
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
	if apiKey == "" {
		logger.Warn("OpenAI API key not configured, classification routes will be unavailable")
		return c
	}
	c.client = openai.NewClient(apiKey)
	return c
}

// Configured reports whether an API key was supplied
func (c *OpenAIClient) Configured() bool {
	return c.client != nil
}

// GenerateJSON runs one chat completion against the named model in JSON
// mode and returns the raw response text.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, model, system, user string) (string, error) {
	if c.client == nil {
		return "", core.ErrNoCredential
	}

	messages := []openai.ChatCompletionMessage{}
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	})

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI model %s", model)
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the model identifiers visible to the credential.
// The OpenAI listing carries no generation-capability flag, so every
// returned model is included.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, core.ErrNoCredential
	}

	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list OpenAI models: %w", err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}
