package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/phishing-relay/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient is an implementation of the LLMClient interface using
// Google Gemini. With an empty API key the client is created in a
// disabled state and every call reports the missing credential.
type GeminiClient struct {
	client      *genai.Client
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*GeminiClient, error) {
	if apiKey == "" {
		logger.Warn("Gemini API key not configured, classification routes will be unavailable")
		return &GeminiClient{logger: logger}, nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}, nil
}

// Configured reports whether an API key was supplied
func (c *GeminiClient) Configured() bool {
	return c.client != nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GenerateJSON runs one generation call against the named model with the
// response constrained to JSON, and returns the raw response text.
func (c *GeminiClient) GenerateJSON(ctx context.Context, modelName, system, user string) (string, error) {
	if c.client == nil {
		return "", core.ErrNoCredential
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.temperature)
	model.SetTopP(c.topP)
	model.SetMaxOutputTokens(int32(c.maxTokens))
	model.ResponseMIMEType = "application/json"
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini model %s", modelName)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// ListModels returns the names of models that support content generation.
func (c *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, core.ErrNoCredential
	}

	names := []string{}
	it := c.client.ListModels(ctx)
	for {
		info, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list Gemini models: %w", err)
		}
		for _, method := range info.SupportedGenerationMethods {
			if method == "generateContent" {
				names = append(names, info.Name)
				break
			}
		}
	}
	return names, nil
}
