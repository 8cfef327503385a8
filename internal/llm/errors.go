package llm

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned when a successful response carries no message text.
var ErrNoContent = errors.New("no content received")

// ErrMissingAPIKey is returned when a client is created without credentials.
var ErrMissingAPIKey = errors.New("API key is required")

// StatusError represents a non-2xx response from the model endpoint.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("model API request failed: %s - %s", e.Status, e.Body)
	}
	return fmt.Sprintf("model API request failed: %s", e.Status)
}
