package service

import (
	"errors"
	"strings"

	"github.com/mrmorrispmorris/dailymood/backend/internal/repository"
)

var (
	// ErrNotFound is returned for missing rows and rows owned by someone else
	ErrNotFound = repository.ErrNotFound

	// ErrPremiumRequired is returned when a free user calls a premium feature
	ErrPremiumRequired = errors.New("premium subscription required")
)

// FieldViolation is one failed validation rule
type FieldViolation struct {
	Field   string
	Message string
	Code    string
}

// ValidationError collects every invalid field of a request
type ValidationError struct {
	Fields []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, code, message string) {
	e.Fields = append(e.Fields, FieldViolation{Field: field, Message: message, Code: code})
}

// orNil returns e only when a violation was recorded
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// InvalidFieldError ties a sentinel error such as ErrFutureTimestamp to the
// request field that caused it
type InvalidFieldError struct {
	Field string
	Err   error
}

func (e *InvalidFieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *InvalidFieldError) Unwrap() error {
	return e.Err
}
