// Package errors defines the typed application errors handlers map to HTTP responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	ErrTypeConnection ErrorType = "connection"
	ErrTypeValidation ErrorType = "validation"
	ErrTypeConfig     ErrorType = "config"
	ErrTypeAuth       ErrorType = "authentication"
	ErrTypeNotFound   ErrorType = "not_found"
	ErrTypeInternal   ErrorType = "internal"
	ErrTypeTimeout    ErrorType = "timeout"
	ErrTypeRateLimit  ErrorType = "rate_limit"
)

// AppError is a classified error with an optional machine-readable code.
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Code != "" {
		fmt.Fprintf(&b, ": code=%s", e.Code)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": cause=%v", e.Cause)
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, e.Context[k])
		}
		fmt.Fprintf(&b, ": context={%s}", strings.Join(pairs, ", "))
	}
	return b.String()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext records a diagnostic key/value on the error.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCode sets the machine-readable code.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause sets the wrapped error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func ConnectionError(msg string, cause error) *AppError {
	return &AppError{Type: ErrTypeConnection, Message: msg, Cause: cause}
}

func ValidationError(msg string) *AppError {
	return &AppError{Type: ErrTypeValidation, Message: msg}
}

func ConfigError(msg string) *AppError {
	return &AppError{Type: ErrTypeConfig, Message: msg}
}

func AuthError(msg string) *AppError {
	return &AppError{Type: ErrTypeAuth, Message: msg}
}

func NotFoundError(resource string) *AppError {
	return &AppError{Type: ErrTypeNotFound, Message: resource + " not found"}
}

func InternalError(msg string, cause error) *AppError {
	return &AppError{Type: ErrTypeInternal, Message: msg, Cause: cause}
}

func TimeoutError(operation string) *AppError {
	return &AppError{Type: ErrTypeTimeout, Message: "timeout during " + operation}
}

func RateLimitError(resource string) *AppError {
	return &AppError{Type: ErrTypeRateLimit, Message: "rate limit exceeded for " + resource}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err wraps an AppError of type t.
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}

// GetType returns the AppError type in err's chain, ErrTypeInternal for
// foreign errors and "" for nil.
func GetType(err error) ErrorType {
	if err == nil {
		return ""
	}
	if appErr, ok := As(err); ok {
		return appErr.Type
	}
	return ErrTypeInternal
}

// HTTPStatus maps err to the response status a handler should use.
func HTTPStatus(err error) int {
	switch GetType(err) {
	case "":
		return http.StatusOK
	case ErrTypeAuth:
		return http.StatusUnauthorized
	case ErrTypeValidation:
		return http.StatusBadRequest
	case ErrTypeNotFound:
		return http.StatusNotFound
	case ErrTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrTypeConnection:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
