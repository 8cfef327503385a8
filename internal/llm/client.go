package llm

import (
	"context"
	"fmt"
)

// Role constants for chat messages.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat completion with fixed sampling parameters.
type Request struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
	TopP        float32
	// Title overrides the configured X-Title header for this request.
	Title string
}

// Usage reports token counts when the provider returns them.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is the text of the first choice.
type Response struct {
	Content string
	Model   string
	Usage   *Usage
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends one chat completion request and returns the first choice's text
	Complete(ctx context.Context, req Request) (*Response, error)
	// Model returns the model name requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.MergeDefaults()

	switch config.Provider {
	case ProviderOpenRouter:
		return NewChatClient(config, apiKey)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported model provider %q", config.Provider)
	}
}

// SystemAndUser splits a request's messages into the system instruction and the user prompt.
func SystemAndUser(messages []Message) (system, user string) {
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = joinNonEmpty(system, m.Content)
		default:
			user = joinNonEmpty(user, m.Content)
		}
	}
	return system, user
}

func joinNonEmpty(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "\n\n" + b
}
