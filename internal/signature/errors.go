package signature

import (
	"errors"
	"net/http"

	apperrors "twilio-gateway/internal/common/errors"
)

// Reason is the machine-readable code attached to a gate rejection.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonMissing       Reason = "missing_signature"
	ReasonInvalid       Reason = "invalid_signature"
	ReasonMisconfigured Reason = "misconfigured"
)

var (
	// ErrMissingSignature means no signing material was found in the request.
	ErrMissingSignature = errors.New("no signature in header or body")
	// ErrInvalidSignature means the presented token does not match the expected signature.
	ErrInvalidSignature = errors.New("signature mismatch")
	// ErrMisconfiguredSecret means no shared secret is configured.
	ErrMisconfiguredSecret = errors.New("twilio auth token is not configured")
	// ErrMalformedBody is reported by body parsing. The gate treats it as "no material".
	ErrMalformedBody = errors.New("malformed request body")
	// ErrBodyTooLarge means the body exceeded the configured limit.
	ErrBodyTooLarge = errors.New("request body too large")
)

// ReasonFor maps a verification error to its reason code.
func ReasonFor(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrMisconfiguredSecret):
		return ReasonMisconfigured
	case errors.Is(err, ErrMissingSignature), errors.Is(err, ErrMalformedBody):
		return ReasonMissing
	default:
		return ReasonInvalid
	}
}

// Status returns the HTTP status for a rejection reason.
func (r Reason) Status() int {
	switch r {
	case ReasonNone:
		return http.StatusOK
	case ReasonMisconfigured:
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}

// toAppError converts a gate failure into the application error type.
func toAppError(err error) *apperrors.AppError {
	reason := ReasonFor(err)
	var appErr *apperrors.AppError
	if reason == ReasonMisconfigured {
		appErr = apperrors.ConfigError(err.Error())
	} else {
		appErr = apperrors.AuthError(err.Error())
	}
	return appErr.WithCode(string(reason)).WithCause(err)
}
