package factory

import (
	"fmt"

	"github.com/mikey/phishing-relay/internal/adapters/bedrock"
	"github.com/mikey/phishing-relay/internal/adapters/gemini"
	"github.com/mikey/phishing-relay/internal/adapters/openai"
	"github.com/mikey/phishing-relay/internal/config"
	"github.com/mikey/phishing-relay/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "gemini":
		cfg := f.cfg.GetGemini()
		factory := gemini.NewFactory(cfg.APIKey, cfg.MaxTokens, cfg.Temperature, cfg.TopP, f.logger)
		return factory.CreateLLMClient()
	case "openai":
		cfg := f.cfg.GetOpenAI()
		factory := openai.NewFactory(cfg.APIKey, cfg.MaxTokens, cfg.Temperature, cfg.TopP, f.logger)
		return factory.CreateLLMClient()
	case "bedrock":
		cfg := f.cfg.GetBedrock()
		factory := bedrock.NewFactory(cfg.Region, cfg.MaxTokens, cfg.Temperature, cfg.TopP, f.logger)
		return factory.CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
