package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderOpenRouter, config.Provider)
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", config.Endpoint)
	assert.Equal(t, "x-ai/grok-3-mini-beta", config.Model)
	assert.Equal(t, DefaultTitle, config.Title)
	assert.Equal(t, DefaultTimeout, config.Timeout)
}

func TestDefaultGeminiConfig(t *testing.T) {
	config := DefaultGeminiConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, DefaultGeminiModel, config.Model)
	assert.Empty(t, config.Endpoint)
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel("custom-model")

	// Original should be unchanged
	assert.Equal(t, DefaultModel, config.Model)
	assert.Equal(t, "custom-model", newConfig.Model)
	assert.Equal(t, config.Endpoint, newConfig.Endpoint)
}

func TestMergeDefaults(t *testing.T) {
	merged := (&Config{Model: "mine", Timeout: 5 * time.Second}).MergeDefaults()

	assert.Equal(t, ProviderOpenRouter, merged.Provider)
	assert.Equal(t, DefaultEndpoint, merged.Endpoint)
	assert.Equal(t, "mine", merged.Model)
	assert.Equal(t, 5*time.Second, merged.Timeout)

	gemini := (&Config{Provider: ProviderGemini}).MergeDefaults()
	assert.Equal(t, DefaultGeminiModel, gemini.Model)
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("openrouter"), ProviderOpenRouter)
	assert.Equal(t, Provider("gemini"), ProviderGemini)
}
