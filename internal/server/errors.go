package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/AnshKr2004/google-map-automation/internal/inference"
	"github.com/AnshKr2004/google-map-automation/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// validationError converts validator errors into an ErrValidation for the first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed on '%s'", fe.Tag())}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErrs), errors.Is(err, session.ErrNotMapsPage):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoActiveSession):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionActive), errors.Is(err, session.ErrSessionStopped):
		return http.StatusConflict
	case errors.Is(err, inference.ErrNoClient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
