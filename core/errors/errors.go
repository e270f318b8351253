// Package errors provides standardized error types and helpers for the
// rittdoc codebase.
package errors

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates invalid input or validation failure.
var ErrInvalidInput = errors.New("invalid input")

// DecodeError represents a hand-off document that could not be decoded.
type DecodeError struct {
	Element int    // Index of the offending element, -1 when not tied to one
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *DecodeError) Error() string {
	if e.Element >= 0 {
		return fmt.Sprintf("document element %d: %s", e.Element, e.Message)
	}
	return fmt.Sprintf("document: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "JSON", "XML")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewDecode creates a DecodeError tied to an element index.
func NewDecode(element int, message string) *DecodeError {
	return &DecodeError{
		Element: element,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
