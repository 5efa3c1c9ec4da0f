package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// errorEnvelope is the backend's standard failure shape. The message is
// optional and the body may not be JSON at all.
type errorEnvelope struct {
	Message *string `json:"message"`
}

// ServerError is a non-2xx response. Message is resolved from the error
// envelope when present, else the raw body, else a status-derived fallback.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ConnectionError is a transport-level failure: the request never produced an
// HTTP status.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return "error de conexión"
	}
	return e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// serverError builds the ServerError for a non-2xx response body.
func serverError(status int, body []byte) *ServerError {
	return &ServerError{Status: status, Message: errorMessage(status, body)}
}

func errorMessage(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Sprintf("Error del servidor (Código: %d)", status)
	}
	var env errorEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err == nil && env.Message != nil && *env.Message != "" {
		return *env.Message
	}
	return trimmed
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToUpper(haystack), strings.ToUpper(needle))
}
