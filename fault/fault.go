// Package fault holds the error taxonomy shared by the data layer.
//
// Every error surfaced by the façade carries a stable Kind that handlers
// map to a response, plus a human readable message.
package fault

import (
	"errors"
	"fmt"
)

type Kind string

const (
	Validation        Kind = "validation"
	NotFound          Kind = "not_found"
	DuplicateConflict Kind = "duplicate_conflict"
	Persistence       Kind = "persistence"
	PartialBatch      Kind = "partial_batch"
	StaleReport       Kind = "stale_report"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, fault.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// kind sentinels for errors.Is
var (
	ErrValidation        = &Error{Kind: Validation}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrDuplicateConflict = &Error{Kind: DuplicateConflict}
	ErrPersistence       = &Error{Kind: Persistence}
	ErrStaleReport       = &Error{Kind: StaleReport}
)

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Invalid(format string, args ...any) *Error {
	return New(Validation, format, args...)
}

func Missing(collection, id string) *Error {
	return New(NotFound, "%s %q not found", collection, id)
}

func Duplicate(collection, name string) *Error {
	return New(DuplicateConflict, "%s named %q already exists", collection, name)
}

// KindOf reports the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
