package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mikey/phishing-relay/internal/utils"
	"go.uber.org/zap"
)

// probePrompt is the liveness check sent while resolving a model. A
// candidate passes when its response parses as JSON and carries ok=true.
const probePrompt = `Reply with exactly this JSON document and nothing else: {"ok": true}`

// RelayOptions carries the model-resolution and mapping settings for the
// relay service.
type RelayOptions struct {
	// PreferredModel is probed before the candidate list when non-empty.
	PreferredModel string
	// CandidateModels is the ordered fallback list; the first candidate
	// that passes the liveness probe wins.
	CandidateModels []string
	// MaxSnippetBytes caps each email snippet before it is sent upstream.
	MaxSnippetBytes int
}

// RelayService is the core classification relay: it resolves a working
// model at startup and forwards email batches to it with a fixed
// classification prompt.
type RelayService struct {
	llmClient     LLMClient
	binding       *ModelBinding
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	opts          RelayOptions
	prompt        string
}

// NewRelayService creates a new classification relay service.
func NewRelayService(
	llmClient LLMClient,
	binding *ModelBinding,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	opts RelayOptions,
) *RelayService {
	return &RelayService{
		llmClient:     llmClient,
		binding:       binding,
		textProcessor: textProcessor,
		logger:        logger,
		opts:          opts,
		prompt: `You are a phishing detection system. You will receive a JSON document
with an "emails" array; each element has id, sender, senderEmail, subject
and snippet fields. Judge every email independently.
Respond with a JSON object containing a "results" array with one element
per email:
- id: the id of the email, echoed unchanged
- isPhishing: boolean (true if the email is a phishing attempt)
- confidence: number between 0 and 1
- reasons: array of short strings explaining the judgement

Respond only with the JSON object and nothing else.`,
	}
}

// ResolveModel probes the preferred model followed by the candidate list,
// in order, and binds the relay to the first model that answers the
// liveness probe. It runs once at startup; when every probe fails the
// binding stays unbound and dependent routes report unavailability.
func (s *RelayService) ResolveModel(ctx context.Context) {
	if !s.llmClient.Configured() {
		s.logger.Warn("LLM credential not configured, classification is disabled")
		return
	}

	candidates := s.opts.CandidateModels
	if s.opts.PreferredModel != "" {
		candidates = append([]string{s.opts.PreferredModel}, candidates...)
	}

	for _, name := range candidates {
		if !s.probe(ctx, name) {
			continue
		}
		s.binding.Bind(name)
		s.logger.Info("Bound generative model", zap.String("model", name))
		return
	}

	s.logger.Warn("No candidate model passed the liveness probe",
		zap.Strings("candidates", candidates))
}

// probe issues one minimal generation call and checks the truth marker.
// One attempt per candidate, no retries.
func (s *RelayService) probe(ctx context.Context, model string) bool {
	raw, err := s.llmClient.GenerateJSON(ctx, model, "", probePrompt)
	if err != nil {
		s.logger.Debug("Model probe failed",
			zap.String("model", model),
			zap.Error(err))
		return false
	}

	var marker struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal([]byte(raw), &marker); err != nil {
		s.logger.Debug("Model probe returned unparseable JSON",
			zap.String("model", model),
			zap.String("raw", raw))
		return false
	}
	return marker.OK
}

// ClassifyBatch forwards a batch of email summaries to the bound model
// and normalizes the returned JSON. The result count is whatever the
// model produced; no reconciliation against the input is attempted.
func (s *RelayService) ClassifyBatch(ctx context.Context, emails []EmailSummary) (*BatchResult, error) {
	if !s.llmClient.Configured() {
		return nil, ErrNoCredential
	}
	model, ok := s.binding.Model()
	if !ok {
		return nil, ErrModelUnbound
	}

	mapped := make([]EmailSummary, len(emails))
	for i, email := range emails {
		mapped[i] = s.mapEmail(email)
	}

	payload, err := json.Marshal(map[string]any{"emails": mapped})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize email batch: %w", err)
	}

	raw, err := s.llmClient.GenerateJSON(ctx, model, s.prompt, string(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to classify batch with model %s: %w", model, err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.logger.Error("Upstream returned non-JSON content",
			zap.String("model", model),
			zap.String("raw", raw),
			zap.Error(err))
		return nil, &UpstreamFormatError{Raw: Excerpt(raw, RawExcerptLimit), Err: err}
	}

	items, ok := doc["results"].([]any)
	if !ok {
		s.logger.Error("Upstream JSON missing results array",
			zap.String("model", model),
			zap.Any("parsed", doc))
		return nil, &UpstreamSchemaError{Parsed: doc}
	}

	results := make([]ClassificationResult, 0, len(items))
	for _, item := range items {
		results = append(results, NormalizeResult(item))
	}
	return &BatchResult{Results: results}, nil
}

// mapEmail applies the documented default for every field before the
// batch goes upstream. String zero values already are the defaults; the
// snippet is additionally capped.
func (s *RelayService) mapEmail(email EmailSummary) EmailSummary {
	email.Snippet = s.textProcessor.ProcessText(email.Snippet, s.opts.MaxSnippetBytes)
	return email
}

// PingGeneration issues one trivial generation call against the bound
// model and returns the raw JSON text.
func (s *RelayService) PingGeneration(ctx context.Context) (string, error) {
	if !s.llmClient.Configured() {
		return "", ErrNoCredential
	}
	model, ok := s.binding.Model()
	if !ok {
		return "", ErrModelUnbound
	}
	raw, err := s.llmClient.GenerateJSON(ctx, model, "", probePrompt)
	if err != nil {
		return "", fmt.Errorf("failed to ping model %s: %w", model, err)
	}
	return raw, nil
}

// ListModels returns the upstream models that support generation.
func (s *RelayService) ListModels(ctx context.Context) ([]string, error) {
	if !s.llmClient.Configured() {
		return nil, ErrNoCredential
	}
	return s.llmClient.ListModels(ctx)
}
