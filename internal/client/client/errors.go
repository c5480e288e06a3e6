package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrBadResponse  = errors.New("malformed response")
)

// APIError is the single error shape produced by the resource accessors.
type APIError struct {
	// Op names the accessor, e.g. "CreateComment".
	Op string
	// Status is the HTTP status, or 0 when no response was received.
	Status int
	// Message is what the user sees.
	Message string

	kind error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.kind
}

func transportError(op, fallback string) *APIError {
	return &APIError{Op: op, Message: fallback, kind: ErrUnavailable}
}

func decodeError(op, fallback string, status int) *APIError {
	return &APIError{Op: op, Status: status, Message: fallback, kind: ErrBadResponse}
}

func statusError(op, fallback string, status int, payload []byte) *APIError {
	msg := serverMessage(payload)
	if msg == "" {
		msg = fallback
	}

	kind := ErrServer
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrUnauthorized
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		kind = ErrUnavailable
	}
	return &APIError{Op: op, Status: status, Message: msg, kind: kind}
}

// serverMessage pulls "message" out of an error body. Validation failures
// commonly carry a list of strings; those are joined.
func serverMessage(payload []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || len(body.Message) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Message, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, "; "))
	}
	return ""
}
