package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatClient(t *testing.T, handler http.HandlerFunc) *ChatClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.Endpoint = server.URL
	config.Referer = "https://maps-agent.test"
	client, err := NewChatClient(config, "test-key")
	require.NoError(t, err)
	return client
}

func TestNewChatClient_RequiresKey(t *testing.T) {
	_, err := NewChatClient(nil, "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestChatClient_Complete(t *testing.T) {
	var got chatRequest
	var headers http.Header
	client := newTestChatClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "x-ai/grok-3-mini-beta",
			"choices": [{"message": {"role": "assistant", "content": "{\"emails\":[\"info@acme.com\"]}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
		}`))
	})

	resp, err := client.Complete(context.Background(), Request{
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "find emails"},
		},
		Temperature: 0.3,
		MaxTokens:   300,
		TopP:        0.9,
		Title:       "Website Analysis",
	})
	require.NoError(t, err)

	assert.Equal(t, `{"emails":["info@acme.com"]}`, resp.Content)
	assert.Equal(t, "x-ai/grok-3-mini-beta", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 20, resp.Usage.TotalTokens)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Len(t, got.Messages, 2)
	assert.InDelta(t, 0.3, got.Temperature, 0.0001)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.9, got.TopP, 0.0001)

	assert.Equal(t, "Bearer test-key", headers.Get("Authorization"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "https://maps-agent.test", headers.Get("HTTP-Referer"))
	assert.Equal(t, "Website Analysis", headers.Get("X-Title"))
}

func TestChatClient_DefaultTitle(t *testing.T) {
	var title string
	client := newTestChatClient(t, func(w http.ResponseWriter, r *http.Request) {
		title = r.Header.Get("X-Title")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	})

	resp, err := client.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, title)
	assert.Equal(t, DefaultModel, resp.Model)
	assert.Nil(t, resp.Usage)
}

func TestChatClient_StatusError(t *testing.T) {
	client := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found"}}`))
	})

	_, err := client.Complete(context.Background(), Request{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "No auth credentials found")
}

func TestChatClient_StatusErrorLongBodyStaysValidUTF8(t *testing.T) {
	body := "x" + strings.Repeat("é", maxErrorBody)
	client := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(body))
	})

	_, err := client.Complete(context.Background(), Request{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.True(t, utf8.ValidString(statusErr.Body))
	assert.True(t, strings.HasSuffix(statusErr.Body, "..."))
	assert.LessOrEqual(t, len(statusErr.Body), maxErrorBody+len("..."))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "a...", truncate("aé", 2), "a two-byte rune is not split")
	assert.Equal(t, "...", truncate("日本", 2))
}

func TestChatClient_NoContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no choices", `{"choices":[]}`},
		{"empty content", `{"choices":[{"message":{"content":""}}]}`},
		{"missing message", `{"choices":[{}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Complete(context.Background(), Request{})
			assert.True(t, errors.Is(err, ErrNoContent))
			assert.EqualError(t, err, "no content received")
		})
	}
}

func TestChatClient_InvalidJSONBody(t *testing.T) {
	client := newTestChatClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	})

	_, err := client.Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode model response")
}

func TestNewClient_Providers(t *testing.T) {
	client, err := NewClient(context.Background(), nil, "key")
	require.NoError(t, err)
	assert.IsType(t, &ChatClient{}, client)
	assert.Equal(t, DefaultModel, client.Model())

	_, err = NewClient(context.Background(), &Config{Provider: "carrier-pigeon"}, "key")
	assert.Error(t, err)
}

func TestSystemAndUser(t *testing.T) {
	system, user := SystemAndUser([]Message{
		{Role: RoleSystem, Content: "a"},
		{Role: RoleUser, Content: "b"},
		{Role: RoleUser, Content: "c"},
	})
	assert.Equal(t, "a", system)
	assert.Equal(t, "b\n\nc", user)
}
