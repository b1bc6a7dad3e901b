// Package errors provides custom error types for submodsync.
// These errors enable programmatic error checking across the parser and
// the remote reconciler, and carry enough context for useful reporting.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library equivalents, so callers
// don't need a second errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for submodsync
var (
	// ErrMalformedSection indicates a configuration section is missing required data
	ErrMalformedSection = errors.New("malformed section")

	// ErrDuplicatePath indicates two configuration sections declare the same path
	ErrDuplicatePath = errors.New("duplicate path")

	// ErrApplyFailed indicates one or more remote bindings could not be applied
	ErrApplyFailed = errors.New("apply failed")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// MalformedSectionError reports a configuration section that lacks required
// data, such as a derivable path or at least one url entry.
type MalformedSectionError struct {
	Section string // subsection name, if one was parsed
	Line    int    // line the section header appeared on
	Reason  string
}

// Error implements the error interface
func (e *MalformedSectionError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("malformed section %q (line %d): %s", e.Section, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed section (line %d): %s", e.Line, e.Reason)
}

// Is implements errors.Is support
func (e *MalformedSectionError) Is(target error) bool {
	return target == ErrMalformedSection
}

// NewMalformedSectionError creates a new MalformedSectionError
func NewMalformedSectionError(section string, line int, reason string) *MalformedSectionError {
	return &MalformedSectionError{Section: section, Line: line, Reason: reason}
}

// DuplicatePathError reports two sections declaring the same sub-project path.
type DuplicatePathError struct {
	Path     string
	Sections [2]string // names of the colliding sections, in file order
}

// Error implements the error interface
func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("duplicate path %q declared by sections %q and %q",
		e.Path, e.Sections[0], e.Sections[1])
}

// Is implements errors.Is support
func (e *DuplicatePathError) Is(target error) bool {
	return target == ErrDuplicatePath
}

// NewDuplicatePathError creates a new DuplicatePathError
func NewDuplicatePathError(path, first, second string) *DuplicatePathError {
	return &DuplicatePathError{Path: path, Sections: [2]string{first, second}}
}

// ParseError represents a syntax error in the configuration text.
type ParseError struct {
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(file string, line int, message string) *ParseError {
	return &ParseError{File: file, Line: line, Message: message}
}

// ApplyError represents a failure applying remote bindings for one
// sub-project. Reconciliation continues for other sub-projects; ApplyErrors
// are collected and reported together.
type ApplyError struct {
	Path   string // sub-project path
	Remote string // remote name being applied, if the failure was binding-specific
	URL    string
	Err    error
}

// Error implements the error interface
func (e *ApplyError) Error() string {
	if e.Remote != "" {
		return fmt.Sprintf("failed to apply remote %q -> %s for %s: %v", e.Remote, e.URL, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to reconcile %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ApplyError) Is(target error) bool {
	return target == ErrApplyFailed
}

// NewApplyError creates a new ApplyError
func NewApplyError(path, remote, url string, err error) *ApplyError {
	return &ApplyError{Path: path, Remote: remote, URL: url, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "stat"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// ProcessError represents an error from an external process or command
type ProcessError struct {
	Operation string // what operation was being performed
	Command   string // the command that was executed
	Output    string // combined stdout/stderr from the process
	Err       error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("process error during %s (command: %s): %v\noutput: %s", e.Operation, e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("process error during %s (command: %s): %v", e.Operation, e.Command, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// NewProcessError creates a new ProcessError
func NewProcessError(operation, command, output string, err error) *ProcessError {
	return &ProcessError{Operation: operation, Command: command, Output: output, Err: err}
}

// Helper functions for error checking

// IsMalformedSection checks if an error is a malformed section error
func IsMalformedSection(err error) bool {
	return errors.Is(err, ErrMalformedSection)
}

// IsDuplicatePath checks if an error is a duplicate path error
func IsDuplicatePath(err error) bool {
	return errors.Is(err, ErrDuplicatePath)
}

// IsApplyFailure checks if an error is a remote apply failure
func IsApplyFailure(err error) bool {
	return errors.Is(err, ErrApplyFailed)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(file string, line int, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{File: file, Line: line, Message: err.Error(), Err: err}
}
