package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the API error taxonomy. Callers match with errors.Is.
var (
	ErrAuth        = errors.New("authentication required or session expired")
	ErrForbidden   = errors.New("permission denied")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("service unreachable")
	ErrServer      = errors.New("unexpected server error")
)

// FieldError is a field-level validation failure from the API envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError carries the envelope message and field errors alongside the
// sentinel the HTTP status mapped to.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
	kind    error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.kind.Error()
}

func (e *APIError) Unwrap() error { return e.kind }

// FromStatus folds an HTTP status plus envelope payload into an APIError.
func FromStatus(status int, message string, fields []FieldError) error {
	var kind error
	switch {
	case status == http.StatusUnauthorized:
		kind = ErrAuth
	case status == http.StatusForbidden:
		kind = ErrForbidden
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status == http.StatusConflict:
		kind = ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = ErrValidation
	default:
		kind = ErrServer
	}
	return &APIError{Status: status, Message: message, Fields: fields, kind: kind}
}

// Transport wraps a network-level failure (DNS, refused connection, timeout).
func Transport(err error) error {
	return &APIError{kind: fmt.Errorf("%w: %v", ErrUnavailable, err)}
}

// IsAuth reports whether err means the bearer token was rejected.
func IsAuth(err error) bool { return errors.Is(err, ErrAuth) }

// Message returns a user-facing string for err. Field errors are joined so a
// flash banner can show them in one line.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			if len(apiErr.Fields) == 0 {
				return apiErr.Message
			}
			parts := make([]string, 0, len(apiErr.Fields))
			for _, f := range apiErr.Fields {
				parts = append(parts, f.Field+": "+f.Message)
			}
			return apiErr.Message + " (" + strings.Join(parts, "; ") + ")"
		}
		if errors.Is(err, ErrUnavailable) {
			return ErrUnavailable.Error()
		}
	}
	return err.Error()
}
