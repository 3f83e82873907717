package coinbase

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors matched by APIError through errors.Is
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServerError  = errors.New("server error")
)

var (
	errUnsupportedEncoding          = errors.New("unsupported signature encoding")
	errAuthenticatedSupportDisabled = errors.New("authenticated HTTP request called but not supported due to unset/default API keys")
	errProfileUnsupported           = errors.New("endpoint is not available for profile")
	errInvalidJSON                  = errors.New("response body is not valid JSON")
	errMissingDataEnvelope          = errors.New("response has no data envelope")
	errUnexpectedDataType           = errors.New("unexpected data envelope type")
	errCurrencyPairEmpty            = errors.New("currency pair is empty")
	errAccountIDEmpty               = errors.New("account ID is empty")
	errUnknownProfile               = errors.New("unknown profile")
	errSandboxUnsupported           = errors.New("sandbox is only available for the exchange profile")
	errServerTimeUnavailable        = errors.New("server time unavailable")
	errSetupRequired                = errors.New("SetDefaults or Setup must be called first")
)

// AuthError is returned when a request cannot be signed. It is always
// returned before anything is sent.
type AuthError struct {
	Err error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return "authentication error: " + e.Err.Error()
}

// Unwrap returns the underlying credential error
func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the API
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error: status %d code %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
}

// Is matches the status class sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrServerError:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// Retryable reports whether the request may succeed if sent again
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// DecodeError is returned when a response body cannot be decoded into the
// expected type
type DecodeError struct {
	Err        error
	Body       []byte
	StatusCode int
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: status %d: %v raw response: %s", e.StatusCode, e.Err, e.Body)
}

// Unwrap returns the underlying decode error
func (e *DecodeError) Unwrap() error {
	return e.Err
}
