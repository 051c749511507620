package parser

import (
	"errors"
	"fmt"
)

// Reason classifies why a model reply could not be parsed.
type Reason string

const (
	// ReasonNotStructured means neither strict nor lenient extraction found
	// any usable structure in the reply.
	ReasonNotStructured Reason = "not_structured"
	// ReasonMissingField means the reply was structured but a required field
	// was absent.
	ReasonMissingField Reason = "missing_required_field"
	// ReasonTypeMismatch means a required field had the wrong shape.
	ReasonTypeMismatch Reason = "type_mismatch"
)

// ParseError reports a reply that failed schema validation. Partially missing
// optional fields never produce a ParseError; only absent required structure
// does.
type ParseError struct {
	Reason Reason
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse failed: %s", e.Reason)
	}
	return fmt.Sprintf("parse failed (%s): %s", e.Reason, e.Detail)
}

func newParseError(reason Reason, format string, args ...interface{}) error {
	return &ParseError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf returns the classification of err, or empty for non-parse errors.
func ReasonOf(err error) Reason {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ""
}
