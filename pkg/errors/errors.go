// Package errors provides structured error types for localfile.
//
// Errors carry a machine-readable Code so that the CLI, the preview server
// and library callers can branch on the failure category without parsing
// messages. Fatal assembly failures (missing records, unknown entity,
// malformed JSON) are reported through this package; recoverable problems
// such as unresolved references are logged and never become errors.
//
// # Error Codes
//
// Codes follow a coarse naming convention:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: a named resource does not exist
//   - NETWORK_ERROR, UNAUTHORIZED: content gateway and sync failures
//   - COMPILE_FAILED, INTERNAL_ERROR: output stage failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEntityNotFound, "entity %q not found", id)
//	if errors.Is(err, errors.ErrCodeEntityNotFound) {
//	    // list available entities
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidInput, cause, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure category.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"     // malformed JSON, bad flag values
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"    // unknown output format
	ErrCodeInvalidBlueprint Code = "INVALID_BLUEPRINT" // blueprint without entity or sections
	ErrCodeInvalidPath      Code = "INVALID_PATH"      // reference escapes its content root

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeEntityNotFound   Code = "ENTITY_NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeSectionNotFound  Code = "SECTION_NOT_FOUND"

	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	ErrCodeCompileFailed Code = "COMPILE_FAILED"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
	ErrCodeUnsupported   Code = "UNSUPPORTED"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coder is implemented by typed errors that map to a fixed Code.
type coder interface{ Code() Code }

// GetCode returns the code of the first coded error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message of a coded error without the code
// prefix, or err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

var hints = map[Code]string{
	ErrCodeFileNotFound:     "check the --data and --blueprint paths",
	ErrCodeEntityNotFound:   "the blueprint entity must match an entity id in the records file",
	ErrCodeInvalidBlueprint: "run `localfile blueprint generate` for a starting point",
	ErrCodeInvalidFormat:    "run `localfile assemble --help` for the supported formats",
	ErrCodeTemplateNotFound: "check the --template path",
	ErrCodeUnauthorized:     "set LOCALFILE_API_KEY or [api] key in localfile.toml",
	ErrCodeNetwork:          "check your connection, or set content.plugin_root to work offline",
	ErrCodeTimeout:          "check your connection, or set content.plugin_root to work offline",
	ErrCodeCompileFailed:    "see the .log file next to the output, or install pdflatex",
}

// Hint returns a one-line next step for err, or "" when there is none.
func Hint(err error) string {
	return hints[GetCode(err)]
}

// CompileError carries the compiler log of a failed PDF build.
type CompileError struct {
	Pass int    // 1-based
	Log  string // compiler stdout, where LaTeX reports errors
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("pdflatex pass %d failed: %v", e.Pass, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Code implements the coder interface used by GetCode.
func (e *CompileError) Code() Code { return ErrCodeCompileFailed }
