package core_test

import (
	"context"
	"strings"
	"testing"

	"github.com/mikey/phishing-relay/internal/core"
	"github.com/mikey/phishing-relay/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeLLMClient scripts upstream behavior per model name and records
// every generation call.
type fakeLLMClient struct {
	configured bool
	replies    map[string]string
	models     []string
	calls      []string
}

func (f *fakeLLMClient) Configured() bool {
	return f.configured
}

func (f *fakeLLMClient) GenerateJSON(_ context.Context, model, _, _ string) (string, error) {
	f.calls = append(f.calls, model)
	reply, ok := f.replies[model]
	if !ok {
		return "", assert.AnError
	}
	return reply, nil
}

func (f *fakeLLMClient) ListModels(_ context.Context) ([]string, error) {
	return f.models, nil
}

func newTestService(client core.LLMClient, binding *core.ModelBinding, opts core.RelayOptions) *core.RelayService {
	logger := zap.NewNop()
	return core.NewRelayService(client, binding, utils.NewTextProcessor(logger), logger, opts)
}

func TestResolveModelBindsFirstWorkingCandidate(t *testing.T) {
	fake := &fakeLLMClient{
		configured: true,
		replies: map[string]string{
			"c2": `{"ok": true}`,
			"c3": `{"ok": true}`,
		},
	}
	binding := core.NewModelBinding()
	svc := newTestService(fake, binding, core.RelayOptions{
		PreferredModel:  "preferred",
		CandidateModels: []string{"c1", "c2", "c3"},
	})

	svc.ResolveModel(context.Background())

	model, bound := binding.Model()
	require.True(t, bound)
	assert.Equal(t, "c2", model)
	// Preferred first, then candidates in order, stopping at the first
	// success.
	assert.Equal(t, []string{"preferred", "c1", "c2"}, fake.calls)
}

func TestResolveModelRejectsMissingTruthMarker(t *testing.T) {
	fake := &fakeLLMClient{
		configured: true,
		replies: map[string]string{
			"c1": `{"ok": false}`,
			"c2": `not json at all`,
		},
	}
	binding := core.NewModelBinding()
	svc := newTestService(fake, binding, core.RelayOptions{
		CandidateModels: []string{"c1", "c2"},
	})

	svc.ResolveModel(context.Background())

	_, bound := binding.Model()
	assert.False(t, bound)
	assert.Equal(t, []string{"c1", "c2"}, fake.calls)
}

func TestResolveModelSkipsWhenUnconfigured(t *testing.T) {
	fake := &fakeLLMClient{configured: false}
	binding := core.NewModelBinding()
	svc := newTestService(fake, binding, core.RelayOptions{
		CandidateModels: []string{"c1"},
	})

	svc.ResolveModel(context.Background())

	_, bound := binding.Model()
	assert.False(t, bound)
	assert.Empty(t, fake.calls)
}

func TestModelBindingBindsOnce(t *testing.T) {
	binding := core.NewModelBinding()
	assert.False(t, binding.Bind(""))
	assert.True(t, binding.Bind("first"))
	assert.False(t, binding.Bind("second"))

	model, bound := binding.Model()
	assert.True(t, bound)
	assert.Equal(t, "first", model)
}

func TestClassifyBatchRequiresCredential(t *testing.T) {
	fake := &fakeLLMClient{configured: false}
	svc := newTestService(fake, core.NewModelBinding(), core.RelayOptions{})

	_, err := svc.ClassifyBatch(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrNoCredential)
	assert.Empty(t, fake.calls)
}

func TestClassifyBatchRequiresBoundModel(t *testing.T) {
	fake := &fakeLLMClient{configured: true}
	svc := newTestService(fake, core.NewModelBinding(), core.RelayOptions{})

	_, err := svc.ClassifyBatch(context.Background(), []core.EmailSummary{{ID: "a"}})
	assert.ErrorIs(t, err, core.ErrModelUnbound)
	assert.Empty(t, fake.calls)
}

func boundService(t *testing.T, reply string) *core.RelayService {
	t.Helper()
	fake := &fakeLLMClient{
		configured: true,
		replies:    map[string]string{"m": reply},
	}
	binding := core.NewModelBinding()
	require.True(t, binding.Bind("m"))
	return newTestService(fake, binding, core.RelayOptions{MaxSnippetBytes: 2048})
}

func TestClassifyBatchNormalizesUpstreamResults(t *testing.T) {
	svc := boundService(t, `{"results":[{"id":1,"isPhishing":true,"confidence":2,"reasons":["a","b","c","d","e","f","g","h","i"]}]}`)

	got, err := svc.ClassifyBatch(context.Background(), []core.EmailSummary{
		{ID: float64(1), Subject: "urgent wire transfer"},
	})
	require.NoError(t, err)
	require.Len(t, got.Results, 1)

	result := got.Results[0]
	assert.Equal(t, float64(1), result.ID)
	assert.True(t, result.IsPhishing)
	assert.Equal(t, float64(1), result.Confidence)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, result.Reasons)
}

func TestClassifyBatchPassesResultCountThrough(t *testing.T) {
	// Two inputs, three results: the relay performs no reconciliation.
	svc := boundService(t, `{"results":[{"id":1},{"id":1},{"id":2}]}`)

	got, err := svc.ClassifyBatch(context.Background(), []core.EmailSummary{{ID: float64(1)}, {ID: float64(2)}})
	require.NoError(t, err)
	assert.Len(t, got.Results, 3)
}

func TestClassifyBatchNonJSONUpstream(t *testing.T) {
	svc := boundService(t, "not json")

	_, err := svc.ClassifyBatch(context.Background(), []core.EmailSummary{{ID: "a"}})

	var formatErr *core.UpstreamFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "not json", formatErr.Raw)
}

func TestClassifyBatchTruncatesRawExcerpt(t *testing.T) {
	svc := boundService(t, strings.Repeat("garbage ", 500))

	_, err := svc.ClassifyBatch(context.Background(), []core.EmailSummary{{ID: "a"}})

	var formatErr *core.UpstreamFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Len(t, formatErr.Raw, core.RawExcerptLimit)
}

func TestClassifyBatchMissingResultsArray(t *testing.T) {
	svc := boundService(t, `{"foo":1}`)

	_, err := svc.ClassifyBatch(context.Background(), []core.EmailSummary{{ID: "a"}})

	var schemaErr *core.UpstreamSchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, map[string]any{"foo": float64(1)}, schemaErr.Parsed)
}

func TestClassifyBatchResultsMustBeArray(t *testing.T) {
	svc := boundService(t, `{"results":"yes"}`)

	_, err := svc.ClassifyBatch(context.Background(), []core.EmailSummary{{ID: "a"}})

	var schemaErr *core.UpstreamSchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestPingGeneration(t *testing.T) {
	svc := boundService(t, `{"ok": true}`)

	raw, err := svc.PingGeneration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, raw)
}

func TestPingGenerationUnbound(t *testing.T) {
	fake := &fakeLLMClient{configured: true}
	svc := newTestService(fake, core.NewModelBinding(), core.RelayOptions{})

	_, err := svc.PingGeneration(context.Background())
	assert.ErrorIs(t, err, core.ErrModelUnbound)
}
