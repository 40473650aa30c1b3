package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mikey/phishing-relay/internal/core"
	"github.com/mikey/phishing-relay/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

type fakeLLMClient struct {
	configured bool
	reply      string
	replyErr   error
	models     []string
	modelsErr  error
	calls      int
}

func (f *fakeLLMClient) Configured() bool {
	return f.configured
}

func (f *fakeLLMClient) GenerateJSON(_ context.Context, _, _, _ string) (string, error) {
	f.calls++
	return f.reply, f.replyErr
}

func (f *fakeLLMClient) ListModels(_ context.Context) ([]string, error) {
	return f.models, f.modelsErr
}

func newTestServer(fake *fakeLLMClient, bound bool) *Server {
	logger := zap.NewNop()
	binding := core.NewModelBinding()
	if bound {
		binding.Bind("m")
	}
	service := core.NewRelayService(fake, binding, utils.NewTextProcessor(logger), logger, core.RelayOptions{
		MaxSnippetBytes: 2048,
	})
	return NewServer(service, logger, 0, 1<<20)
}

func doRequest(server *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.routes().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	server := newTestServer(&fakeLLMClient{configured: true}, true)

	rec := doRequest(server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestClassifyRejectsMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"emails not an array", `{"emails": "not an array"}`},
		{"emails missing", `{}`},
		{"not json", `hello`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeLLMClient{configured: true}
			server := newTestServer(fake, true)

			rec := doRequest(server, http.MethodPost, "/api/phishing", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
			assert.Zero(t, fake.calls, "no upstream call may be attempted")
		})
	}
}

func TestClassifyUnavailableBeforeModelBinds(t *testing.T) {
	fake := &fakeLLMClient{configured: true}
	server := newTestServer(fake, false)

	rec := doRequest(server, http.MethodPost, "/api/phishing", `{"emails": []}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, fake.calls)
}

func TestClassifyUnavailableWithoutCredential(t *testing.T) {
	fake := &fakeLLMClient{configured: false}
	server := newTestServer(fake, false)

	rec := doRequest(server, http.MethodPost, "/api/phishing", `{"emails": []}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, fake.calls)
}

func TestClassifyReturnsNormalizedResults(t *testing.T) {
	fake := &fakeLLMClient{
		configured: true,
		reply:      `{"results":[{"id":1,"isPhishing":true,"confidence":2,"reasons":["a","b","c","d","e","f","g","h","i"]}]}`,
	}
	server := newTestServer(fake, true)

	body := `{"emails":[{"id":1,"sender":"Acme","senderEmail":"x@acme.test","subject":"hi","snippet":"click here"}]}`
	rec := doRequest(server, http.MethodPost, "/api/phishing", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"results":[{"id":1,"isPhishing":true,"confidence":1,"reasons":["a","b","c","d","e","f","g","h"]}]}`,
		rec.Body.String())
}

func TestClassifyUpstreamNotJSON(t *testing.T) {
	fake := &fakeLLMClient{configured: true, reply: "not json"}
	server := newTestServer(fake, true)

	rec := doRequest(server, http.MethodPost, "/api/phishing", `{"emails": []}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"model returned non-JSON content","raw":"not json"}`, rec.Body.String())
}

func TestClassifyUpstreamMissingResults(t *testing.T) {
	fake := &fakeLLMClient{configured: true, reply: `{"foo":1}`}
	server := newTestServer(fake, true)

	rec := doRequest(server, http.MethodPost, "/api/phishing", `{"emails": []}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"model response missing results array","parsed":{"foo":1}}`, rec.Body.String())
}

func TestPingGen(t *testing.T) {
	fake := &fakeLLMClient{configured: true, reply: `{"ok": true}`}
	server := newTestServer(fake, true)

	rec := doRequest(server, http.MethodGet, "/api/ping-gen", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"ok": true}`, rec.Body.String())
}

func TestPingGenUnavailableBeforeModelBinds(t *testing.T) {
	server := newTestServer(&fakeLLMClient{configured: true}, false)

	rec := doRequest(server, http.MethodGet, "/api/ping-gen", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListModels(t *testing.T) {
	fake := &fakeLLMClient{
		configured: true,
		models:     []string{"models/alpha", "models/beta"},
	}
	server := newTestServer(fake, true)

	rec := doRequest(server, http.MethodGet, "/api/models-rest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2,"models":["models/alpha","models/beta"]}`, rec.Body.String())
}

func TestListModelsUnavailableWithoutCredential(t *testing.T) {
	server := newTestServer(&fakeLLMClient{configured: false}, false)

	rec := doRequest(server, http.MethodGet, "/api/models-rest", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListModelsForwardsUpstreamStatus(t *testing.T) {
	fake := &fakeLLMClient{
		configured: true,
		modelsErr: fmt.Errorf("failed to list models: %w", &googleapi.Error{
			Code:    http.StatusTooManyRequests,
			Message: "quota exceeded",
		}),
	}
	server := newTestServer(fake, true)

	rec := doRequest(server, http.MethodGet, "/api/models-rest", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}

func TestListModelsUnexpectedFailure(t *testing.T) {
	fake := &fakeLLMClient{configured: true, modelsErr: assert.AnError}
	server := newTestServer(fake, true)

	rec := doRequest(server, http.MethodGet, "/api/models-rest", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBodyLimitRejectsOversizedBatch(t *testing.T) {
	fake := &fakeLLMClient{configured: true, reply: `{"results":[]}`}
	logger := zap.NewNop()
	binding := core.NewModelBinding()
	binding.Bind("m")
	service := core.NewRelayService(fake, binding, utils.NewTextProcessor(logger), logger, core.RelayOptions{})
	server := NewServer(service, logger, 0, 64)

	body := `{"emails":[{"id":"a","snippet":"` + strings.Repeat("x", 256) + `"}]}`
	rec := doRequest(server, http.MethodPost, "/api/phishing", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, fake.calls)
}
