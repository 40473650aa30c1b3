package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/phishing-relay/internal/core"
	"go.uber.org/zap"
)

// BedrockClient is an implementation of the LLMClient interface using
// Amazon Bedrock. The invocation payload depends on the model family, so
// the request is built per call against the probed model identifier.
type BedrockClient struct {
	client      *bedrockruntime.Client
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client *bedrockruntime.Client,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:      client,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Configured reports whether the AWS credential chain produced a client
func (c *BedrockClient) Configured() bool {
	return c.client != nil
}

// GenerateJSON invokes the named Bedrock model and returns the response
// text. Bedrock has no JSON output mode, so the instruction to respond
// with JSON only lives in the prompt itself.
func (c *BedrockClient) GenerateJSON(ctx context.Context, model, system, user string) (string, error) {
	if c.client == nil {
		return "", core.ErrNoCredential
	}

	prompt := user
	if system != "" {
		prompt = system + "\n\n" + user
	}

	var payload []byte
	var err error
	switch {
	case isAnthropicModel(model):
		payload, err = json.Marshal(map[string]any{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	case isAmazonTitanModel(model):
		payload, err = json.Marshal(map[string]any{
			"inputText": prompt,
			"textGenerationConfig": map[string]any{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	default:
		payload, err = json.Marshal(map[string]any{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(model),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model %s: %w", model, err)
	}

	return extractResponseText(model, resp.Body)
}

// ListModels is unsupported: the Bedrock runtime API exposes no listing
// call, only invocation.
func (c *BedrockClient) ListModels(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, core.ErrNoCredential
	}
	return nil, fmt.Errorf("bedrock runtime does not support model listing")
}

// extractResponseText pulls the generated text out of the model-family
// specific response envelope.
func extractResponseText(model string, body []byte) (string, error) {
	switch {
	case isAnthropicModel(model):
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case isAmazonTitanModel(model):
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			return genericResp.Output, nil
		case genericResp.Text != "":
			return genericResp.Text, nil
		case genericResp.Response != "":
			return genericResp.Response, nil
		default:
			return string(body), nil
		}
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func isAnthropicModel(model string) bool {
	return strings.HasPrefix(model, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func isAmazonTitanModel(model string) bool {
	return strings.HasPrefix(model, "amazon.titan")
}
