package altura

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrTransport indicates a non-2xx response or a network failure
	ErrTransport = errors.New("transport error")
	// ErrDecode indicates the response body could not be decoded into the model
	ErrDecode = errors.New("decode error")
	// ErrTimeout indicates the watchdog fired before any response arrived
	ErrTimeout = errors.New("request timed out")
	// ErrRejected indicates Run was called while the operation was already in flight
	ErrRejected = errors.New("operation already running")
	// ErrInvalidRequest indicates the request descriptor could not be built
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid altura configuration")
	// ErrEmptyURL is returned by the request builder when no URL was given
	ErrEmptyURL = errors.New("request URL is required")
)

// Failure reasons that are not derived from a response.
const (
	ReasonDecode   = "decode_error"
	ReasonTimeout  = "timeout"
	ReasonRejected = "concurrency_rejected"
	ReasonInvalid  = "invalid_request"
)

// FailureKind classifies a Failure
type FailureKind int

const (
	// KindTransport is a non-2xx status or a network failure
	KindTransport FailureKind = iota + 1
	// KindDecode is a body that is not valid JSON for the target model
	KindDecode
	// KindTimeout is a watchdog expiry
	KindTimeout
	// KindRejected is a Run denied by the single-flight guard
	KindRejected
	// KindInvalidRequest is a request descriptor that failed to build
	KindInvalidRequest
)

// String returns the string representation of a FailureKind
func (k FailureKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindTimeout:
		return "timeout"
	case KindRejected:
		return "rejected"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Failure is the error half of an Outcome. Reason is the string handed to
// error callbacks. StatusCode is zero when no HTTP response was received.
type Failure struct {
	Kind       FailureKind
	Reason     string
	StatusCode int
	RawBody    string
	Err        error
}

// Error implements the error interface
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Reason, f.Err)
	}
	return f.Reason
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is.
func (f *Failure) Unwrap() []error {
	errs := []error{f.sentinel()}
	if f.Err != nil {
		errs = append(errs, f.Err)
	}
	return errs
}

func (f *Failure) sentinel() error {
	switch f.Kind {
	case KindTransport:
		return ErrTransport
	case KindDecode:
		return ErrDecode
	case KindTimeout:
		return ErrTimeout
	case KindRejected:
		return ErrRejected
	default:
		return ErrInvalidRequest
	}
}

// HasStatus reports whether the failure carries an HTTP status code
func (f *Failure) HasStatus() bool {
	return f.StatusCode != 0
}

// IsTimeout checks if the failure was produced by the watchdog
func (f *Failure) IsTimeout() bool {
	return f.Kind == KindTimeout
}

// IsUnauthorized checks if the failure indicates an authentication failure
func (f *Failure) IsUnauthorized() bool {
	return f.StatusCode == 401 || f.StatusCode == 403
}

// transportFailure formats a failed response the way existing log scrapers expect.
func transportFailure(statusCode int, rawBody string, err error) *Failure {
	return &Failure{
		Kind:       KindTransport,
		Reason:     fmt.Sprintf("Response code: %d. Result %s", statusCode, rawBody),
		StatusCode: statusCode,
		RawBody:    rawBody,
		Err:        err,
	}
}

func decodeFailure(statusCode int, rawBody string, err error) *Failure {
	return &Failure{
		Kind:       KindDecode,
		Reason:     ReasonDecode,
		StatusCode: statusCode,
		RawBody:    rawBody,
		Err:        err,
	}
}

func timeoutFailure() *Failure {
	return &Failure{Kind: KindTimeout, Reason: ReasonTimeout}
}

func rejectedFailure() *Failure {
	return &Failure{Kind: KindRejected, Reason: ReasonRejected}
}

func invalidRequestFailure(err error) *Failure {
	return &Failure{Kind: KindInvalidRequest, Reason: ReasonInvalid, Err: err}
}
