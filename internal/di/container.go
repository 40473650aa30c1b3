package di

import (
	"go.uber.org/dig"

	"github.com/mikey/phishing-relay/internal/config"
	"github.com/mikey/phishing-relay/internal/core"
	"github.com/mikey/phishing-relay/internal/factory"
	"github.com/mikey/phishing-relay/internal/logging"
	"github.com/mikey/phishing-relay/internal/ports"
	"github.com/mikey/phishing-relay/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewServerFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return nil, err
	}

	// Register the model binding
	if err := container.Provide(core.NewModelBinding); err != nil {
		return nil, err
	}

	// Register relay options from the active provider's configuration
	if err := container.Provide(func(cfg *config.Config) core.RelayOptions {
		preferred, candidates := cfg.GetRelayOptions()
		return core.RelayOptions{
			PreferredModel:  preferred,
			CandidateModels: candidates,
			MaxSnippetBytes: cfg.GetInt("relay.max_snippet_bytes"),
		}
	}); err != nil {
		return nil, err
	}

	// Register relay service
	if err := container.Provide(core.NewRelayService); err != nil {
		return nil, err
	}

	// Register HTTP API server
	if err := container.Provide(func(f *factory.ServerFactory) (ports.APIServer, error) {
		return f.CreateAPIServer()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
