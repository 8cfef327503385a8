// Package llm provides chat-completion clients for the contact inference model.
// Providers share one request shape so callers can switch endpoints through configuration.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenRouter is any OpenAI-compatible chat-completion endpoint (OpenRouter by default)
	ProviderOpenRouter Provider = "openrouter"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults for the OpenRouter-compatible provider.
const (
	DefaultEndpoint    = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel       = "x-ai/grok-3-mini-beta"
	DefaultTitle       = "Google Maps Data Scraper"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultTimeout     = 60 * time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Endpoint string
	Model    string
	// Referer and Title are sent as HTTP-Referer and X-Title to identify the caller to the router.
	Referer string
	Title   string
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (OpenRouter)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenRouter,
		Endpoint: DefaultEndpoint,
		Model:    DefaultModel,
		Title:    DefaultTitle,
		Timeout:  DefaultTimeout,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultGeminiModel,
		Timeout:  DefaultTimeout,
	}
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	cp := *c
	cp.Model = model
	return &cp
}

// MergeDefaults fills empty fields from the provider's defaults.
func (c *Config) MergeDefaults() *Config {
	var defaults *Config
	if c.Provider == ProviderGemini {
		defaults = DefaultGeminiConfig()
	} else {
		defaults = DefaultConfig()
	}

	cp := *c
	if cp.Provider == "" {
		cp.Provider = defaults.Provider
	}
	if cp.Endpoint == "" {
		cp.Endpoint = defaults.Endpoint
	}
	if cp.Model == "" {
		cp.Model = defaults.Model
	}
	if cp.Title == "" {
		cp.Title = defaults.Title
	}
	if cp.Timeout <= 0 {
		cp.Timeout = defaults.Timeout
	}
	return &cp
}
