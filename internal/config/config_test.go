package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshKr2004/google-map-automation/internal/fetch"
	"github.com/AnshKr2004/google-map-automation/internal/llm"
	"github.com/AnshKr2004/google-map-automation/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"verbose": true,
		"direct_fetch": false,
		"fetch_timeout": "5s",
		"relays": [{"name": "local", "base": "http://127.0.0.1:9000/raw", "style": "query"}],
		"denylist": ["noreply"],
		"model": {"provider": "gemini", "name": "gemini-2.5-pro"},
		"settings": {"delay_ms": 250},
		"server": {"port": 9090}
	}`

	cfg, err := LoadConfig(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.DirectFetchEnabled())
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, []fetch.Relay{{Name: "local", Base: "http://127.0.0.1:9000/raw", Style: fetch.StyleQuery}}, cfg.Relays)
	assert.Equal(t, []string{"noreply"}, cfg.Denylist)
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"relays": [{"name": "x", "base": "http://r.test", "style": "header"}]}`))
	assert.Error(t, err)
	assert.Nil(t, cfg)

	_, err = LoadConfig(writeConfig(t, `{"job_url": "https://example.com"}`))
	assert.Error(t, err, "unknown keys are rejected")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "bad timeout", cfg: Config{FetchTimeout: "soon"}, wantErr: "fetch_timeout"},
		{name: "negative timeout", cfg: Config{FetchTimeout: "-1s"}, wantErr: "fetch_timeout"},
		{name: "relative relay", cfg: Config{Relays: []fetch.Relay{{Name: "x", Base: "/raw", Style: fetch.StylePath}}}, wantErr: "relay x"},
		{name: "unknown provider", cfg: Config{Model: ModelConfig{Provider: "acme"}}, wantErr: "unsupported model provider"},
		{name: "negative delay", cfg: Config{Settings: &SettingsConfig{DelayMS: lo.ToPtr(-5)}}, wantErr: "delay_ms"},
		{name: "port range", cfg: Config{Server: ServerConfig{Port: 70000}}, wantErr: "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		FetchTimeout: "3s",
		Model:        ModelConfig{Name: "mine"},
	}
	defaults := Config{
		DirectFetch:  lo.ToPtr(false),
		FetchTimeout: "10s",
		Relays:       fetch.DefaultRelays(),
		StorePath:    "data",
		Model:        ModelConfig{Provider: "gemini", Name: "theirs"},
		Server:       ServerConfig{Port: 8080, RateLimitRPS: 2},
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "3s", merged.FetchTimeout)
	assert.False(t, merged.DirectFetchEnabled())
	assert.Len(t, merged.Relays, 3)
	assert.Equal(t, "data", merged.StorePath)
	assert.Equal(t, "gemini", merged.Model.Provider)
	assert.Equal(t, "mine", merged.Model.Name)
	assert.Equal(t, 8080, merged.Server.Port)
	assert.Equal(t, 2.0, merged.Server.RateLimitRPS)

	// Original should be unchanged
	assert.Nil(t, cfg.DirectFetch)
}

func TestDefaultsWhenUnset(t *testing.T) {
	var cfg Config
	assert.True(t, cfg.DirectFetchEnabled())
	assert.True(t, cfg.ModelEnabled())
	assert.Equal(t, fetch.DefaultTimeout, cfg.Timeout())

	llmCfg := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenRouter, llmCfg.Provider)
	assert.Equal(t, llm.DefaultModel, llmCfg.Model)
}

func TestApplySettings(t *testing.T) {
	cfg := Config{Settings: &SettingsConfig{UseModel: lo.ToPtr(false)}}
	got := cfg.ApplySettings(types.DefaultSettings())

	assert.Equal(t, types.DefaultDelayMS, got.DelayMS)
	assert.True(t, got.AutoScroll)
	assert.False(t, got.UseModel)

	assert.Equal(t, types.DefaultSettings(), (&Config{}).ApplySettings(types.DefaultSettings()))
}
