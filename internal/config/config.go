// Package config provides configuration loading and validation for the CLI and the API server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AnshKr2004/google-map-automation/internal/fetch"
	"github.com/AnshKr2004/google-map-automation/internal/llm"
	"github.com/AnshKr2004/google-map-automation/internal/schemas"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags and the environment.
type Config struct {
	// Fetching
	Verbose      bool          `json:"verbose,omitempty"`       // Print detailed debug information
	DirectFetch  *bool         `json:"direct_fetch,omitempty"`  // Try the site directly before relays (default true)
	UseBrowser   bool          `json:"use_browser,omitempty"`   // Re-render thin pages in a headless browser
	FetchTimeout string        `json:"fetch_timeout,omitempty"` // Per-attempt timeout, e.g. "15s"
	Relays       []fetch.Relay `json:"relays,omitempty"`        // Relay chain in priority order

	// Extraction
	Denylist         []string `json:"denylist,omitempty"`          // Substrings that reject a candidate email
	BusinessKeywords []string `json:"business_keywords,omitempty"` // Local-part keywords that mark an email relevant

	Model     ModelConfig     `json:"model,omitempty"`
	Settings  *SettingsConfig `json:"settings,omitempty"`
	StorePath string          `json:"store_path,omitempty"` // Badger directory for local mode
	Server    ServerConfig    `json:"server,omitempty"`
}

// ModelConfig selects the language-model provider used for inference.
type ModelConfig struct {
	Enabled  *bool  `json:"enabled,omitempty"`
	Provider string `json:"provider,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
	Name     string `json:"name,omitempty"`
	Referer  string `json:"referer,omitempty"`
	Title    string `json:"title,omitempty"`
}

// SettingsConfig overrides individual default settings.
type SettingsConfig struct {
	DelayMS    *int  `json:"delay_ms,omitempty"`
	AutoScroll *bool `json:"auto_scroll,omitempty"`
	UseModel   *bool `json:"use_model,omitempty"`
}

// ServerConfig holds API server options.
type ServerConfig struct {
	Port           int     `json:"port,omitempty"`
	RateLimitRPS   float64 `json:"rate_limit_rps,omitempty"`
	RateLimitBurst int     `json:"rate_limit_burst,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// The document is checked against the embedded config schema before decoding.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := schemas.ValidateDocument(schemas.ConfigSchema, string(data)); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.FetchTimeout != "" {
		d, err := time.ParseDuration(c.FetchTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'fetch_timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'fetch_timeout' must be positive")
		}
	}

	for _, r := range c.Relays {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	switch llm.Provider(c.Model.Provider) {
	case "", llm.ProviderOpenRouter, llm.ProviderGemini:
	default:
		return fmt.Errorf("config error: unsupported model provider %q", c.Model.Provider)
	}

	if c.Settings != nil && c.Settings.DelayMS != nil && *c.Settings.DelayMS < 0 {
		return fmt.Errorf("config error: 'settings.delay_ms' must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range")
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("config error: rate limits must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DirectFetch == nil {
		result.DirectFetch = defaults.DirectFetch
	}
	if result.FetchTimeout == "" {
		result.FetchTimeout = defaults.FetchTimeout
	}
	if result.Relays == nil {
		result.Relays = defaults.Relays
	}
	if result.Denylist == nil {
		result.Denylist = defaults.Denylist
	}
	if result.BusinessKeywords == nil {
		result.BusinessKeywords = defaults.BusinessKeywords
	}
	if result.StorePath == "" {
		result.StorePath = defaults.StorePath
	}

	if result.Model.Enabled == nil {
		result.Model.Enabled = defaults.Model.Enabled
	}
	if result.Model.Provider == "" {
		result.Model.Provider = defaults.Model.Provider
	}
	if result.Model.Endpoint == "" {
		result.Model.Endpoint = defaults.Model.Endpoint
	}
	if result.Model.Name == "" {
		result.Model.Name = defaults.Model.Name
	}
	if result.Model.Referer == "" {
		result.Model.Referer = defaults.Model.Referer
	}
	if result.Model.Title == "" {
		result.Model.Title = defaults.Model.Title
	}

	if result.Settings == nil {
		result.Settings = defaults.Settings
	}

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.RateLimitRPS == 0 {
		result.Server.RateLimitRPS = defaults.Server.RateLimitRPS
	}
	if result.Server.RateLimitBurst == 0 {
		result.Server.RateLimitBurst = defaults.Server.RateLimitBurst
	}

	// Bool fields without pointers cannot distinguish unset from false, so they are not merged
	// (CLI flags should always win for bools)

	return result
}

// DirectFetchEnabled reports whether direct fetching is on. It defaults to true.
func (c *Config) DirectFetchEnabled() bool {
	return c.DirectFetch == nil || *c.DirectFetch
}

// ModelEnabled reports whether model inference is on. It defaults to true.
func (c *Config) ModelEnabled() bool {
	return c.Model.Enabled == nil || *c.Model.Enabled
}

// Timeout returns the per-attempt fetch timeout, or fetch.DefaultTimeout when unset or invalid.
func (c *Config) Timeout() time.Duration {
	if d, err := time.ParseDuration(c.FetchTimeout); err == nil && d > 0 {
		return d
	}
	return fetch.DefaultTimeout
}

// LLMConfig converts the model section into a client configuration.
func (c *Config) LLMConfig() *llm.Config {
	cfg := &llm.Config{
		Provider: llm.Provider(c.Model.Provider),
		Endpoint: c.Model.Endpoint,
		Model:    c.Model.Name,
		Referer:  c.Model.Referer,
		Title:    c.Model.Title,
	}
	return cfg.MergeDefaults()
}

// ApplySettings overlays the configured settings onto base.
func (c *Config) ApplySettings(base types.Settings) types.Settings {
	if c.Settings == nil {
		return base
	}
	if c.Settings.DelayMS != nil {
		base.DelayMS = *c.Settings.DelayMS
	}
	if c.Settings.AutoScroll != nil {
		base.AutoScroll = *c.Settings.AutoScroll
	}
	if c.Settings.UseModel != nil {
		base.UseModel = *c.Settings.UseModel
	}
	return base
}
