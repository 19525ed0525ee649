// Package exitcodes defines standard exit codes for CLI operations so that
// scripts and schedulers can tell a bad config from an unreachable database.
package exitcodes

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/johndauphine/db-volumetry/internal/fault"
)

const (
	// Success - report produced without errors
	Success = 0

	// ConfigError - configuration/YAML parsing or missing required settings
	ConfigError = 1

	// ConnectionError - database could not be opened or pinged (recoverable)
	ConnectionError = 2

	// QueryError - a catalog size query failed
	QueryError = 3

	// UnsupportedEngine - engine selector matched no driver
	UnsupportedEngine = 4

	// UnsupportedFileType - file is neither CSV nor XLSX
	UnsupportedFileType = 5

	// FileParseError - malformed or badly encoded file content
	FileParseError = 6

	// IOError - file I/O errors (recoverable)
	IOError = 7

	// Cancelled - user cancelled via SIGINT/SIGTERM (recoverable)
	Cancelled = 8
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// FromError determines the appropriate exit code for an error.
// Classified faults map directly; other errors fall back to message checks.
func FromError(err error) int {
	if err == nil {
		return Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, context.Canceled) {
		return Cancelled
	}

	switch fault.KindOf(err) {
	case fault.UnsupportedEngine:
		return UnsupportedEngine
	case fault.ConnectionFailure:
		return ConnectionError
	case fault.QueryFailure:
		return QueryError
	case fault.UnsupportedFileType:
		return UnsupportedFileType
	case fault.FileParseFailure:
		return FileParseError
	}

	// Check for os.PathError (file not found, permission denied, etc.)
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return IOError
	}

	errStr := strings.ToLower(err.Error())

	if containsAny(errStr, []string{
		"no such file",
		"file not found",
		"permission denied",
		"is a directory",
	}) {
		return IOError
	}

	if containsAny(errStr, []string{
		"yaml:",
		"parsing config",
		"invalid config",
		"is required",
		"required flag",
		"flag provided but not defined",
		"unknown verbosity",
	}) {
		return ConfigError
	}

	if containsAny(errStr, []string{
		"cancel",
		"interrupt",
		"context deadline",
	}) {
		return Cancelled
	}

	// Anything else is reported like a failed query
	return QueryError
}

// IsRecoverable returns true if the error is recoverable (safe to retry).
func IsRecoverable(code int) bool {
	switch code {
	case ConnectionError, Cancelled, IOError:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description of the exit code.
func Description(code int) string {
	switch code {
	case Success:
		return "success"
	case ConfigError:
		return "configuration error"
	case ConnectionError:
		return "connection error (recoverable)"
	case QueryError:
		return "query error"
	case UnsupportedEngine:
		return "unsupported engine"
	case UnsupportedFileType:
		return "unsupported file type"
	case FileParseError:
		return "file parse error"
	case IOError:
		return "I/O error (recoverable)"
	case Cancelled:
		return "cancelled (recoverable)"
	default:
		return "unknown error"
	}
}

func containsAny(s string, substrs []string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
