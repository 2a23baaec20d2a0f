package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks bad or missing arguments, unknown verbs, actions or kinds.
	ErrValidation = errors.New("invalid input")
	// ErrAlreadyExists marks a scaffold target that exists without --force.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownTemplate marks a template name that is neither builtin nor registered.
	// Errors wrapping it also match ErrValidation.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrFormatVerification marks sources that the formatter would still change.
	ErrFormatVerification = errors.New("code formatting verification failed")
)

// ValidationErrorf builds an error wrapping ErrValidation.
func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// UnknownTemplateError builds an error matching both ErrUnknownTemplate and ErrValidation.
func UnknownTemplateError(name string, available []string) error {
	return fmt.Errorf("%w: %w: %s. Available templates: %s",
		ErrValidation, ErrUnknownTemplate, name, strings.Join(available, ", "))
}

// ProcessFailure reports an external process that could not be started or exited non-zero.
type ProcessFailure struct {
	Command  string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ProcessFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command failed: %s", e.Command)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (%v)", e.Cause)
	} else {
		fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, "\nError: %s", stderr)
	}
	return b.String()
}

func (e *ProcessFailure) Unwrap() error { return e.Cause }

// Started reports whether the process ran at all.
func (e *ProcessFailure) Started() bool { return e.Cause == nil }

// AsProcessFailure returns the ProcessFailure wrapped by err, if any.
func AsProcessFailure(err error) (*ProcessFailure, bool) {
	var pf *ProcessFailure
	if errors.As(err, &pf) {
		return pf, true
	}
	return nil, false
}
