package vapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies fetch failures for the sync layer: transient failures
// are eligible for a stale-cache fallback, permanent ones must always surface.
type ErrorKind int

const (
	// KindTransient covers network errors, timeouts and server-side failures.
	KindTransient ErrorKind = iota
	// KindPermanent covers auth failures and malformed requests. Serving
	// stale data behind an auth error would mislead the user about access.
	KindPermanent
)

// String returns the string representation of the ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// FetchError is a classified remote fetch failure.
type FetchError struct {
	Err        error
	Op         string
	Kind       ErrorKind
	StatusCode int
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s fetch failed (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s fetch failed: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a transient fetch error.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindTransient
}

// IsPermanent reports whether err is a permanent fetch error.
func IsPermanent(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindPermanent
}

// classifyStatus maps an HTTP status code to an error kind. Server-side
// failures and throttling are retryable; other client errors are not.
func classifyStatus(status int) ErrorKind {
	switch {
	case status >= 500:
		return KindTransient
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests:
		return KindTransient
	default:
		return KindPermanent
	}
}

// transportError wraps a failed round trip. Everything at this level
// (connection refused, DNS, timeout, cancellation) is retryable; the wrapped
// error keeps its identity so callers can still detect abandonment via
// errors.Is(err, context.Canceled).
func transportError(op string, err error) error {
	return &FetchError{Op: op, Kind: KindTransient, Err: err}
}
