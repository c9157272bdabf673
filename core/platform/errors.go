package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound indicates the requested entity does not exist on the platform.
	ErrNotFound = errors.New("platform: entity not found")
	// ErrUnsupportedKind indicates the platform has no API for the entity kind.
	ErrUnsupportedKind = errors.New("platform: unsupported entity kind")
	// ErrInvalidToken indicates a continuation token the platform cannot interpret.
	ErrInvalidToken = errors.New("platform: invalid continuation token")
)

// TransientError is a failure the caller may retry with backoff
// (network timeouts, rate limiting, server errors).
type TransientError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transient failure (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError is a failure the caller must not retry
// (validation, not found, other 4xx, bad credentials).
type PermanentError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *PermanentError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: rejected (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: rejected: %v", e.Op, e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError.
func Transient(op string, status int, err error) error {
	return &TransientError{Op: op, StatusCode: status, Err: err}
}

// Permanent wraps err as a PermanentError.
func Permanent(op string, status int, err error) error {
	return &PermanentError{Op: op, StatusCode: status, Err: err}
}

// IsTransient reports whether err, or any error it wraps, is a TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// IsPermanent reports whether err, or any error it wraps, is a PermanentError.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// Classify turns the outcome of an HTTP exchange into nil, a TransientError or a
// PermanentError. transportErr is the error returned by the HTTP client, if any;
// detail describes the response body for rejected requests.
func Classify(op string, status int, transportErr error, detail string) error {
	if transportErr != nil {
		if errors.Is(transportErr, context.Canceled) {
			return transportErr
		}
		return Transient(op, 0, transportErr)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return Transient(op, status, errors.New("rate limited"))
	case status >= 500:
		return Transient(op, status, errors.New(statusDetail(status, detail)))
	case status == http.StatusNotFound:
		return Permanent(op, status, ErrNotFound)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Permanent(op, status, fmt.Errorf("credentials rejected: %s", statusDetail(status, detail)))
	case status >= 400:
		return Permanent(op, status, errors.New(statusDetail(status, detail)))
	default:
		return nil
	}
}

func statusDetail(status int, detail string) string {
	if detail == "" {
		return http.StatusText(status)
	}
	return detail
}
