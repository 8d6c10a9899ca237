package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorType categorizes failures talking to the RSVP service
type ErrorType string

const (
	ErrTypeConfiguration  ErrorType = "configuration"
	ErrTypeNetwork        ErrorType = "network"
	ErrTypeTimeout        ErrorType = "timeout"
	ErrTypeAuthentication ErrorType = "authentication"
	ErrTypeNotFound       ErrorType = "not_found"
	ErrTypeValidation     ErrorType = "validation"
	ErrTypeConflict       ErrorType = "conflict"
	ErrTypeRateLimit      ErrorType = "rate_limit"
	ErrTypeServer         ErrorType = "server"
	ErrTypeDecode         ErrorType = "decode"
)

// APIError is returned by every Client method
type APIError struct {
	Type       ErrorType
	Message    string
	Endpoint   string
	StatusCode int
	Cause      error
	Retryable  bool
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	parts := make([]string, 0, 5)
	if e.Endpoint != "" {
		parts = append(parts, "endpoint="+e.Endpoint)
	}
	parts = append(parts, fmt.Sprintf("type=%s", e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, "cause="+e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches on Type, so errors.Is(err, &APIError{Type: ErrTypeNotFound}) works
func (e *APIError) Is(target error) bool {
	var t *APIError
	if errors.As(target, &t) {
		return e.Type == t.Type
	}
	return false
}

// UserMessage is the server's own explanation, suitable for inline display
func (e *APIError) UserMessage() string {
	return e.Message
}

func newError(t ErrorType, endpoint, message string, cause error) *APIError {
	return &APIError{
		Type:      t,
		Endpoint:  endpoint,
		Message:   message,
		Cause:     cause,
		Retryable: t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeRateLimit || t == ErrTypeServer,
	}
}

// errorFromStatus maps an HTTP failure to an APIError
func errorFromStatus(endpoint string, status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}

	var t ErrorType
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		t = ErrTypeAuthentication
	case status == http.StatusNotFound:
		t = ErrTypeNotFound
	case status == http.StatusConflict:
		t = ErrTypeConflict
	case status == http.StatusTooManyRequests:
		t = ErrTypeRateLimit
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		t = ErrTypeValidation
	case status >= 500:
		t = ErrTypeServer
	default:
		t = ErrTypeValidation
	}

	e := newError(t, endpoint, message, nil)
	e.StatusCode = status
	return e
}

func errorType(err error) (ErrorType, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e.Type, true
	}
	return "", false
}

func IsNotFound(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeNotFound
}

func IsAuthentication(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeAuthentication
}

func IsConflict(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeConflict
}

func IsRetryable(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.Retryable
}

// Message returns the text to show a guest for err
func Message(err error) string {
	var e *APIError
	if errors.As(err, &e) {
		return e.UserMessage()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
