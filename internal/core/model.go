package core

import (
	"sync"
)

// EmailSummary is the per-email metadata submitted by the client
// application. Every string field may be empty; the id is an opaque
// caller-supplied value and is never validated.
type EmailSummary struct {
	ID          any    `json:"id"`
	Sender      string `json:"sender"`
	SenderEmail string `json:"senderEmail"`
	Subject     string `json:"subject"`
	Snippet     string `json:"snippet"`
}

// ClassificationResult is the normalized verdict for one email. The id is
// echoed from whatever the model returned, untyped.
type ClassificationResult struct {
	ID         any      `json:"id"`
	IsPhishing bool     `json:"isPhishing"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// BatchResult wraps the normalized results for one classification request.
// The result count may diverge from the input count; the relay performs no
// reconciliation.
type BatchResult struct {
	Results []ClassificationResult `json:"results"`
}

// ModelBinding records which upstream model identifier the process has
// bound to. It starts unbound and transitions to bound at most once;
// there is no transition back during a process lifetime.
type ModelBinding struct {
	mu    sync.RWMutex
	model string
}

// NewModelBinding creates an unbound model binding.
func NewModelBinding() *ModelBinding {
	return &ModelBinding{}
}

// Bind records the resolved model name. The first successful call wins;
// later calls and empty names are ignored.
func (b *ModelBinding) Bind(model string) bool {
	if model == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.model != "" {
		return false
	}
	b.model = model
	return true
}

// Model returns the bound model name, if any.
func (b *ModelBinding) Model() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model, b.model != ""
}
