package core

import (
	"context"
)

// LLMClient defines the interface for interacting with the generative
// model API.
type LLMClient interface {
	// Configured reports whether an API credential was supplied at
	// startup. Unconfigured clients never reach the network.
	Configured() bool

	// GenerateJSON runs one generation call against the named model with
	// an optional system instruction and a user turn, asking the provider
	// to constrain its output to JSON. It returns the raw response text.
	GenerateJSON(ctx context.Context, model, system, user string) (string, error)

	// ListModels returns the names of upstream models that support
	// content generation.
	ListModels(ctx context.Context) ([]string, error)
}
