package pfb

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the taxonomy of errors the core surfaces. Every error
// raised by this package can be inspected with errors.As against *Error
// and dispatched on Kind.
type Kind int

const (
	// KindIO covers a backing file that is unreadable, unwritable, or
	// truncated mid-operation.
	KindIO Kind = iota
	// KindFormat covers header fields that are implausible or
	// inconsistent with the file's actual length.
	KindFormat
	// KindInvalidState covers an operation called on a Grid lacking a
	// prerequisite, e.g. WriteFile on xyz-ordered storage.
	KindInvalidState
	// KindOutOfBounds covers a coordinate or clip rectangle outside the
	// grid's extents.
	KindOutOfBounds
	// KindUnsupported covers requests this format cannot express, e.g.
	// zero partitions.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	case KindInvalidState:
		return "invalid_state"
	case KindOutOfBounds:
		return "out_of_bounds"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Error is the single flat error type surfaced by every component in
// this package. Op names the failing operation (e.g. "LoadData",
// "WriteFile") and Err carries the underlying cause, wrapped with a
// stack trace via github.com/pkg/errors so failures are diagnosable
// without re-running the operation under a debugger.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("pfb: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("pfb: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// newErr constructs an *Error, wrapping cause (if non-nil) with a stack
// trace. cause may be nil for errors that have no underlying Go error
// (e.g. a bounds check).
func newErr(kind Kind, op string, cause error) *Error {
	if cause == nil {
		return &Error{Kind: kind, Op: op}
	}
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(cause)}
}

func ioErr(op string, cause error) error {
	return newErr(KindIO, op, cause)
}

func formatErr(op string, format string, args ...any) error {
	return newErr(KindFormat, op, fmt.Errorf(format, args...))
}

func invalidStateErr(op string, format string, args ...any) error {
	return newErr(KindInvalidState, op, fmt.Errorf(format, args...))
}

func outOfBoundsErr(op string, format string, args ...any) error {
	return newErr(KindOutOfBounds, op, fmt.Errorf(format, args...))
}

func unsupportedErr(op string, format string, args ...any) error {
	return newErr(KindUnsupported, op, fmt.Errorf(format, args...))
}
