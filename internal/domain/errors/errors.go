package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid")

// Content pipeline outcomes. None of them is fatal: the store turns the
// source errors into an empty collection and the resolver's not-found turns
// into a 404 fragment.
var (
	ErrSourceUnavailable = errors.New("content source unavailable")
	ErrSourceMalformed   = errors.New("content source malformed")
	ErrRecordNotFound    = errors.New("record not found")
)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	b.WriteString("validation failed:\n")
	for _, item := range e.Items {
		b.WriteString(" - ")
		b.WriteString(item.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// SourceError describes why a content source could not be used. Reason is
// ErrSourceUnavailable or ErrSourceMalformed; Err is the underlying cause.
type SourceError struct {
	Kind   string
	Path   string
	Reason error
	Err    error
}

func (e *SourceError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind)
	b.WriteString(": ")
	b.WriteString(e.Reason.Error())
	if e.Path != "" {
		b.WriteString(" (")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SourceError) Is(target error) bool {
	return target == e.Reason
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ReasonLabel is a short metric/log label for the failure class.
func (e *SourceError) ReasonLabel() string {
	switch e.Reason {
	case ErrSourceMalformed:
		return "malformed"
	case ErrSourceUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}
