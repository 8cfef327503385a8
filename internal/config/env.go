package config

import (
	"fmt"

	env "github.com/Netflix/go-env"
)

// Env holds settings read from the process environment.
type Env struct {
	ModelAPIKey   string `env:"MODEL_API_KEY"`
	ModelProvider string `env:"MODEL_PROVIDER"`
	ModelEndpoint string `env:"MODEL_ENDPOINT"`
	ModelName     string `env:"MODEL_NAME"`

	DatabaseURL string `env:"DATABASE_URL"`
	StorePath   string `env:"STORE_PATH,default=maps_agent_data"`

	JWTSecret          string `env:"JWT_SECRET"`
	JWTExpirationHours int    `env:"JWT_EXPIRATION_HOURS,default=24"`

	Port           int     `env:"PORT,default=8080"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=10"`

	RateLimitWhitelist string `env:"RATE_LIMIT_WHITELIST"`
	RateLimitBlacklist string `env:"RATE_LIMIT_BLACKLIST"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (*Env, error) {
	var e Env
	if _, err := env.UnmarshalFromEnviron(&e); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return &e, nil
}

// Apply overlays non-empty environment values onto the file configuration.
// Environment values win over the file.
func (e *Env) Apply(cfg Config) Config {
	if e.ModelProvider != "" {
		cfg.Model.Provider = e.ModelProvider
	}
	if e.ModelEndpoint != "" {
		cfg.Model.Endpoint = e.ModelEndpoint
	}
	if e.ModelName != "" {
		cfg.Model.Name = e.ModelName
	}
	if cfg.StorePath == "" {
		cfg.StorePath = e.StorePath
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = e.Port
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = e.RateLimitRPS
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = e.RateLimitBurst
	}
	return cfg
}

// HasModelKey reports whether a model API key is configured.
func (e *Env) HasModelKey() bool {
	return e.ModelAPIKey != ""
}

// JWT returns the bearer-auth configuration, or nil when no secret is set.
func (e *Env) JWT() (*JWTConfig, error) {
	if e.JWTSecret == "" {
		return nil, nil
	}
	return NewJWTConfig(e.JWTSecret, e.JWTExpirationHours)
}

