package parsing

import "fmt"

// Stage names the check a model reply failed.
type Stage string

const (
	StageJSON   Stage = "json"
	StageSchema Stage = "schema"
)

// ParseError reports why a model reply could not be used as structured contact data.
type ParseError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("model reply rejected at %s stage: %s", e.Stage, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
