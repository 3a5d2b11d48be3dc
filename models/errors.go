package models

import "fmt"

// ErrorKind classifies a fetch-layer failure. The fetcher returns a typed
// result instead of an error for everything except pre-flight validation,
// so callers can branch on kind without parsing prose.
type ErrorKind string

const (
	// ErrorKindNone means the fetch succeeded.
	ErrorKindNone ErrorKind = ""

	// ErrorKindInvalidURL is a local pre-flight validation failure.
	// It never reaches the network and is never retried.
	ErrorKindInvalidURL ErrorKind = "invalid_url"

	// ErrorKindTimeout means an attempt exceeded its per-attempt deadline.
	ErrorKindTimeout ErrorKind = "timeout"

	// ErrorKindHTTPError means the upstream returned a non-2xx status.
	ErrorKindHTTPError ErrorKind = "http_error"

	// ErrorKindNetworkError covers DNS and connection failures.
	ErrorKindNetworkError ErrorKind = "network_error"

	// ErrorKindTooLarge means the body exceeded the byte cap and was
	// truncated. The truncated prefix is still usable for extraction, so
	// this kind is reported alongside Succeeded=true.
	ErrorKindTooLarge ErrorKind = "too_large"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidURL   = "INVALID_URL"
	ErrCodeTimeout      = "FETCH_TIMEOUT"
	ErrCodeUpstreamHTTP = "UPSTREAM_HTTP_ERROR"
	ErrCodeNetwork      = "NETWORK_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind,omitempty"`
}

// EngineError is the internal error type carrying an error code and the
// fetch-layer kind. It implements the error interface and supports error
// wrapping via Unwrap.
type EngineError struct {
	Code    string
	Kind    ErrorKind
	Message string
	Err     error // wrapped original error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new EngineError.
func NewEngineError(code, message string, err error) *EngineError {
	return &EngineError{Code: code, Message: message, Err: err}
}

// NewKindError creates an EngineError whose code is derived from the
// fetch-layer kind.
func NewKindError(kind ErrorKind, message string, err error) *EngineError {
	return &EngineError{Code: CodeForKind(kind), Kind: kind, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *EngineError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message, Kind: e.Kind}
}

// CodeForKind maps a fetch-layer error kind to its API error code.
func CodeForKind(kind ErrorKind) string {
	switch kind {
	case ErrorKindInvalidURL:
		return ErrCodeInvalidURL
	case ErrorKindTimeout:
		return ErrCodeTimeout
	case ErrorKindHTTPError:
		return ErrCodeUpstreamHTTP
	case ErrorKindNetworkError:
		return ErrCodeNetwork
	default:
		return ErrCodeInternal
	}
}
