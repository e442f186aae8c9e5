// Package rgerrors provides the failure taxonomy for refitgen runs.
//
// Every failure that reaches the top of a generation run is classified into
// exactly one Kind. Callers branch on the kind through KindOf (or errors.Is
// with the package sentinels) rather than switching on concrete types.
//
// # Error Categories
//
//   - ConfigurationError: invalid flags, settings files, or naming policies
//   - DocumentLoadError: unreadable, unreachable, or unsupported documents
//   - DocumentValidationError: the document failed validation
//   - GenerationError: the generation engine could not produce code
//   - WriteError: the output could not be persisted
//
// # Usage with errors.As
//
//	outcome, err := runner.Run(ctx, req)
//	if err != nil {
//	    var loadErr *rgerrors.DocumentLoadError
//	    if errors.As(err, &loadErr) && loadErr.Unsupported {
//	        fmt.Println("Unsupported OpenAPI version:", loadErr.Version)
//	    }
//	}
package rgerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrConfiguration indicates the run configuration is invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrDocumentLoad indicates the source document could not be loaded.
	ErrDocumentLoad = errors.New("document load error")

	// ErrDocumentValidation indicates the source document failed validation.
	ErrDocumentValidation = errors.New("document validation error")

	// ErrGeneration indicates code generation failed.
	ErrGeneration = errors.New("generation error")

	// ErrWrite indicates generated output could not be written.
	ErrWrite = errors.New("write error")
)

// ConfigurationError represents an invalid setting, flag, or settings document.
type ConfigurationError struct {
	// Field names the offending setting, if known
	Field string
	// Message describes the problem
	Message string
	// Cause is the underlying error, if any
	Cause error

	stack []byte
}

// Error returns a human-readable error message.
func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in %q", e.Field)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DocumentLoadError represents a failure to read or interpret the source document.
type DocumentLoadError struct {
	// Path is the file path or URL of the document
	Path string
	// Version is the declared specification version, when one was found
	Version string
	// Unsupported is true when the declared version is not supported
	Unsupported bool
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error

	stack []byte
}

// Error returns a human-readable error message.
func (e *DocumentLoadError) Error() string {
	if e.Unsupported {
		msg := fmt.Sprintf("unsupported OpenAPI version: %s", e.Version)
		if e.Path != "" {
			msg += " in " + e.Path
		}
		return msg
	}
	msg := "failed to load document"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DocumentLoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DocumentLoadError) Is(target error) bool {
	return target == ErrDocumentLoad
}

// DocumentValidationError represents a document that failed validation.
// It deliberately carries no stack trace; the diagnostics are the report.
type DocumentValidationError struct {
	// Path is the file path or URL of the document
	Path string
	// ErrorCount is the number of validation errors
	ErrorCount int
	// WarningCount is the number of validation warnings
	WarningCount int
}

// Error returns a human-readable error message.
func (e *DocumentValidationError) Error() string {
	msg := "document validation failed"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	return msg + fmt.Sprintf(": %d error(s), %d warning(s)", e.ErrorCount, e.WarningCount)
}

// Is reports whether target matches this error type.
func (e *DocumentValidationError) Is(target error) bool {
	return target == ErrDocumentValidation
}

// GenerationError represents a failure inside the generation engine.
type GenerationError struct {
	// Stage is "setup" when binding the document failed, "render" otherwise
	Stage string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error

	stack []byte
}

// Error returns a human-readable error message.
func (e *GenerationError) Error() string {
	msg := "generation error"
	if e.Stage != "" {
		msg += " during " + e.Stage
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// WriteError represents a failure to persist generated output.
type WriteError struct {
	// Path is the destination that could not be written
	Path string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error

	stack []byte
}

// Error returns a human-readable error message.
func (e *WriteError) Error() string {
	msg := "failed to write"
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}
