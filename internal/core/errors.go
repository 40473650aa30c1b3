package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential is returned when the upstream API credential was
	// never configured.
	ErrNoCredential = errors.New("llm credential not configured")
	// ErrModelUnbound is returned when startup resolution never bound a
	// working model.
	ErrModelUnbound = errors.New("no generative model bound")
)

// UpstreamFormatError reports upstream response text that is not valid
// JSON. Raw carries a truncated excerpt safe to surface to callers.
type UpstreamFormatError struct {
	Raw string
	Err error
}

func (e *UpstreamFormatError) Error() string {
	return fmt.Sprintf("upstream returned non-JSON content: %v", e.Err)
}

func (e *UpstreamFormatError) Unwrap() error {
	return e.Err
}

// UpstreamSchemaError reports upstream JSON that parsed but lacks an
// array-valued results field. Parsed carries the decoded document for
// diagnostics.
type UpstreamSchemaError struct {
	Parsed map[string]any
}

func (e *UpstreamSchemaError) Error() string {
	return "upstream response missing results array"
}
