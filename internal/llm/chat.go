package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxErrorBody bounds the response text copied into a StatusError.
const maxErrorBody = 512

// ChatClient implements Client for OpenAI-compatible chat-completion endpoints.
type ChatClient struct {
	config     *Config
	apiKey     string
	httpClient *http.Client
	verbose    bool
}

// ChatOption customizes a ChatClient.
type ChatOption func(*ChatClient)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) ChatOption {
	return func(cc *ChatClient) { cc.httpClient = c }
}

// WithVerbose enables request logging.
func WithVerbose(verbose bool) ChatOption {
	return func(cc *ChatClient) { cc.verbose = verbose }
}

// NewChatClient creates a new chat-completion client
func NewChatClient(config *Config, apiKey string, opts ...ChatOption) (*ChatClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config == nil {
		config = DefaultConfig()
	}
	config = config.MergeDefaults()

	c := &ChatClient{
		config:     config,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	TopP        float32   `json:"top_p"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete posts the request and returns the first choice's message content.
func (c *ChatClient) Complete(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopP:        req.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode model request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create model request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.config.Referer)
	}
	title := req.Title
	if title == "" {
		title = c.config.Title
	}
	if title != "" {
		httpReq.Header.Set("X-Title", title)
	}

	if c.verbose {
		log.Printf("[MODEL] POST %s model=%s max_tokens=%d", c.config.Endpoint, c.config.Model, req.MaxTokens)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("model API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(strings.TrimSpace(string(respBody)), maxErrorBody),
		}
	}

	var decoded chatResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return nil, ErrNoContent
	}

	out := &Response{
		Content: decoded.Choices[0].Message.Content,
		Model:   decoded.Model,
	}
	if out.Model == "" {
		out.Model = c.config.Model
	}
	if decoded.Usage != nil {
		out.Usage = &Usage{
			PromptTokens:     decoded.Usage.PromptTokens,
			CompletionTokens: decoded.Usage.CompletionTokens,
			TotalTokens:      decoded.Usage.TotalTokens,
		}
	}
	return out, nil
}

// Model returns the configured model name
func (c *ChatClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client holds no exclusive resources.
func (c *ChatClient) Close() error {
	return nil
}

// truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
