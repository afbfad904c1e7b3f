// Package errors provides structured error handling for the diffable library.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNotFound indicates an identifier that does not exist in a structure.
	KindNotFound
	// KindEmptyCollection indicates an operation that requires elements was
	// invoked on an empty collection.
	KindEmptyCollection
	// KindDuplicate indicates an identity uniqueness violation.
	KindDuplicate
	// KindInternal indicates an inconsistency inside the library itself.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindEmptyCollection:
		return "empty-collection"
	case KindDuplicate:
		return "duplicate"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the diffable library.
//
// Errors raised through Fatal are precondition violations: they indicate a
// caller/data inconsistency that must be fixed in code, and are not meant to
// be recovered from.
type Error struct {
	// Op is the operation that failed (e.g., "snapshot.InsertItemsBefore").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error with the given operation, kind and message.
func New(op string, kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Op:        op,
		Kind:      kind,
		Err:       fmt.Errorf(format, args...),
		Timestamp: time.Now(),
	}
}
