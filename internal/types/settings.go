package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultDelayMS is the default pause between processed listings.
const DefaultDelayMS = 1500

// Settings are the user-facing scraping preferences.
type Settings struct {
	DelayMS    int  `json:"delay_ms" validate:"gte=0"`
	AutoScroll bool `json:"auto_scroll"`
	UseModel   bool `json:"use_model"`
}

// DefaultSettings returns the settings written on first install.
func DefaultSettings() Settings {
	return Settings{
		DelayMS:    DefaultDelayMS,
		AutoScroll: true,
		UseModel:   true,
	}
}

// Delay returns the configured delay as a duration.
func (s Settings) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

// Validate validates the Settings using the validator.
func (s *Settings) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
