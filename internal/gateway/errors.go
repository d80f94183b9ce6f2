package gateway

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by calls that require a bearer token
// when no session is established.
var ErrNotAuthenticated = errors.New("not authenticated")

// genericErrorMessage is the user-facing fallback when neither the server
// nor the transport supplied anything displayable.
const genericErrorMessage = "Something went wrong. Please try again."

// APIError is a non-2xx response from the backend. Every error body uses
// the same {"message": ..., "error": ...} JSON shape.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Detail     string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// ErrorMessage extracts a human-readable message from a failed call:
// the server's message field, then its error field, then the transport
// error's own text, finally a generic fallback. Safe on nil.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericErrorMessage
}
