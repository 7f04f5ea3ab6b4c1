package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		APIURL:      srv.URL + "/v1/",
		APIKey:      "test-key",
		Model:       "test-model",
		MaxTokens:   50,
		Temperature: 0.5,
		Timeout:     2 * time.Second,
	})
}

func TestGenerate(t *testing.T) {
	var got ChatCompletionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Consider Robotics."}}]}`))
	})

	out, err := c.Generate(context.Background(), []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleUser, Content: "I like robots"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Consider Robotics.", out)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 50, got.MaxTokens)
	assert.InDelta(t, 0.5, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleUser, got.Messages[1].Role)
	assert.Equal(t, "I like robots", got.Messages[1].Content)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, ErrUpstreamStatus},
		{"unauthorized", http.StatusUnauthorized, `nope`, ErrUpstreamStatus},
		{"not json", http.StatusOK, `<html>`, ErrMalformedResponse},
		{"no choices", http.StatusOK, `{"choices":[]}`, ErrMalformedResponse},
		{"choice without message", http.StatusOK, `{"choices":[{"index":0}]}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			out, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, out)
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedResponse)
	assert.NotErrorIs(t, err, ErrUpstreamStatus)
}

func TestGenerateNoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIURL: srv.URL})
	out, err := c.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(ClientConfig{})
	def := DefaultClientConfig()
	assert.Equal(t, def.APIURL, c.cfg.APIURL)
	assert.Equal(t, def.Model, c.cfg.Model)
	assert.Equal(t, def.MaxTokens, c.cfg.MaxTokens)
	assert.Equal(t, def.Timeout, c.client.Timeout)
	assert.Nil(t, c.limiter)
}
