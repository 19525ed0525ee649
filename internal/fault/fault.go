// Package fault defines the error taxonomy shared by the connection factory,
// the volumetry dispatcher and the tabular loader.
// Every failure a user action can hit is one of these kinds, so callers can
// branch on the kind instead of parsing message text.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Unknown is returned by KindOf for errors that carry no fault kind.
	Unknown Kind = iota
	// UnsupportedEngine means the engine selector matched no registered driver.
	UnsupportedEngine
	// ConnectionFailure covers driver, DSN, auth and network errors while opening.
	ConnectionFailure
	// QueryFailure covers catalog query execution, scan and iteration errors.
	QueryFailure
	// UnsupportedFileType means the file extension is neither CSV nor XLSX.
	UnsupportedFileType
	// FileParseFailure covers malformed content and encoding errors.
	FileParseFailure
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case UnsupportedEngine:
		return "unsupported_engine"
	case ConnectionFailure:
		return "connection_failure"
	case QueryFailure:
		return "query_failure"
	case UnsupportedFileType:
		return "unsupported_file_type"
	case FileParseFailure:
		return "file_parse_failure"
	default:
		return "unknown"
	}
}

// Error is a classified failure with its underlying cause.
type Error struct {
	Kind  Kind
	Op    string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Op
	}
	if e.Op == "" {
		return e.Cause.Error()
	}
	return e.Op + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a classified error. Op describes what was being attempted.
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// Newf creates a classified error whose cause is a formatted message.
func Newf(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Cause: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
