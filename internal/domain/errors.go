package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Violation is a single failed input constraint.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every constraint a client request violated.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// orNil keeps callers from returning a typed nil inside an error interface.
func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// NewValidationError builds a ValidationError with a single violation.
func NewValidationError(field, format string, args ...any) *ValidationError {
	e := &ValidationError{}
	e.add(field, format, args...)
	return e
}

// RowError locates a problem inside an uploaded tabular payload.
// Line is 1-based and counts the header.
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// ParseError means an uploaded payload could not be decoded. Nothing from
// the payload is used when it is returned.
type ParseError struct {
	Reason string     `json:"reason"`
	Rows   []RowError `json:"rows,omitempty"`
}

func (e *ParseError) Error() string {
	if len(e.Rows) == 0 {
		return "parse failed: " + e.Reason
	}
	first := e.Rows[0]
	return fmt.Sprintf("parse failed: %s (line %d: %s, %d row errors)",
		e.Reason, first.Line, first.Message, len(e.Rows))
}

// ErrPayloadTooLarge is wrapped when an upload exceeds the accepted size.
var ErrPayloadTooLarge = errors.New("payload too large")
