package gateway

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed model invocation.
type ErrorKind string

const (
	KindTimeout           ErrorKind = "timeout"
	KindRateLimited       ErrorKind = "rate_limited"
	KindAuth              ErrorKind = "auth"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnknown           ErrorKind = "unknown"
)

// ModelError wraps a gateway failure with its classification.
type ModelError struct {
	Kind ErrorKind
	Err  error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model call failed (%s): %v", e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError wraps err with the given classification.
func NewModelError(kind ErrorKind, err error) error {
	return &ModelError{Kind: kind, Err: err}
}

// KindOf returns the classification of err, or KindUnknown for errors that
// did not come from a gateway.
func KindOf(err error) ErrorKind {
	var me *ModelError
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the failure is transient: a bounded retry with
// backoff may succeed. Auth and malformed-response failures never are.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindRateLimited:
		return true
	default:
		return false
	}
}
