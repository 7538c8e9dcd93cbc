package review

import (
	"errors"
	"strings"
)

// EmptyCodeMessage is shown when a submission has no code.
const EmptyCodeMessage = "Please enter some code to review"

// ValidationError is returned when a request is rejected before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateRequest checks that a request can be sent to the backend.
func ValidateRequest(req ReviewRequest) error {
	if strings.TrimSpace(req.Code) == "" {
		return &ValidationError{Message: EmptyCodeMessage}
	}
	if !req.Language.Valid() {
		return &ValidationError{Message: "unsupported language: " + string(req.Language)}
	}
	return nil
}
