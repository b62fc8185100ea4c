package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Base error types
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrConflict      = errors.New("status conflict")
	ErrTimeout       = errors.New("timeout")
	ErrUnavailable   = errors.New("unavailable")
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypePersistence ErrorType = "persistence"
	ErrorTypeInternal    ErrorType = "internal"
)

// IngestError is a structured error for a single report.
type IngestError struct {
	Type   ErrorType
	Op     string            // "validate", "upsert_incident", "increment_occurrence", ...
	Index  int               // position in the batch, -1 for single ingestion
	Fields map[string]string // per-field validation messages
	Err    error
}

func (e *IngestError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s failed for report %d: %v", e.Op, e.Index, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface
func (e *IngestError) Is(target error) bool {
	if target == ErrInvalidInput && e.Type == ErrorTypeValidation {
		return true
	}
	return errors.Is(e.Err, target)
}

// NewValidationError wraps per-field validation messages.
func NewValidationError(index int, fields map[string]string) *IngestError {
	return &IngestError{
		Type:   ErrorTypeValidation,
		Op:     "validate",
		Index:  index,
		Fields: fields,
		Err:    fmt.Errorf("%w: %s", ErrInvalidInput, summarize(fields)),
	}
}

// NewPersistenceError wraps a store failure.
func NewPersistenceError(op string, index int, err error) *IngestError {
	return &IngestError{Type: ErrorTypePersistence, Op: op, Index: index, Err: err}
}

// TypeOf returns the ErrorType of err, or internal when err is not an IngestError.
func TypeOf(err error) ErrorType {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Type
	}
	return ErrorTypeInternal
}

// FieldsOf returns validation field messages if err carries them.
func FieldsOf(err error) map[string]string {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Fields
	}
	return nil
}

func summarize(fields map[string]string) string {
	if len(fields) == 0 {
		return "malformed report"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+fields[k])
	}
	return strings.Join(parts, "; ")
}
