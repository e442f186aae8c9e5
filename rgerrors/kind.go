package rgerrors

import (
	"errors"
	"runtime/debug"
	"syscall"
)

// Kind classifies a run failure.
type Kind int

const (
	// KindUnknown is any failure not produced by refitgen itself.
	KindUnknown Kind = iota
	KindConfiguration
	KindDocumentLoad
	KindDocumentValidation
	KindGeneration
	KindWrite
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "ConfigurationError"
	case KindDocumentLoad:
		return "DocumentLoadError"
	case KindDocumentValidation:
		return "DocumentValidationError"
	case KindGeneration:
		return "GenerationError"
	case KindWrite:
		return "WriteError"
	default:
		return "UnknownError"
	}
}

// exit codes used when the failure carries no native signal of its own
var sentinelExitCodes = map[Kind]int{
	KindUnknown:            1,
	KindConfiguration:      2,
	KindDocumentLoad:       3,
	KindDocumentValidation: 4,
	KindGeneration:         5,
	KindWrite:              6,
}

// KindOf returns the kind of the first classified error in err's chain,
// walking wrapped errors depth-first. A nil error has KindUnknown.
func KindOf(err error) Kind {
	if c := firstClassified(err); c != nil {
		return kindOf(c)
	}
	return KindUnknown
}

// firstClassified returns the outermost error in err's chain that has a
// kind, or nil.
func firstClassified(err error) error {
	if err == nil {
		return nil
	}
	if kindOf(err) != KindUnknown {
		return err
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return firstClassified(u.Unwrap())
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if c := firstClassified(e); c != nil {
				return c
			}
		}
	}
	return nil
}

var kindSentinels = []struct {
	kind     Kind
	sentinel error
}{
	{KindDocumentValidation, ErrDocumentValidation},
	{KindConfiguration, ErrConfiguration},
	{KindDocumentLoad, ErrDocumentLoad},
	{KindGeneration, ErrGeneration},
	{KindWrite, ErrWrite},
}

// kindOf classifies err itself, without looking at what it wraps.
func kindOf(err error) Kind {
	is, _ := err.(interface{ Is(error) bool })
	for _, ks := range kindSentinels {
		if err == ks.sentinel || (is != nil && is.Is(ks.sentinel)) {
			return ks.kind
		}
	}
	return KindUnknown
}

// exitCoder is implemented by errors that carry their own process exit code.
type exitCoder interface {
	ExitCode() int
}

// ExitCode maps err to a non-zero process exit code. A native code found in
// the chain (an ExitCode method or a syscall.Errno) wins; otherwise the
// fixed code for the error's kind is used. A nil error maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder exitCoder
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code != 0 {
			return code
		}
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return int(errno)
	}
	return sentinelExitCodes[KindOf(err)]
}

// ShowsTrace reports whether a stack trace should accompany err in reports.
// Validation failures are reported through their diagnostics instead.
func ShowsTrace(err error) bool {
	return err != nil && KindOf(err) != KindDocumentValidation
}

// Trace returns the stack captured when the first classified error in err's
// chain was constructed, or nil when there is none.
func Trace(err error) []byte {
	if !ShowsTrace(err) {
		return nil
	}
	switch e := firstClassified(err).(type) {
	case *ConfigurationError:
		return e.stack
	case *DocumentLoadError:
		return e.stack
	case *GenerationError:
		return e.stack
	case *WriteError:
		return e.stack
	}
	return nil
}

// Configuration returns a ConfigurationError with the current stack attached.
func Configuration(field, message string, cause error) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message, Cause: cause, stack: debug.Stack()}
}

// DocumentLoad returns a DocumentLoadError with the current stack attached.
func DocumentLoad(path, message string, cause error) *DocumentLoadError {
	return &DocumentLoadError{Path: path, Message: message, Cause: cause, stack: debug.Stack()}
}

// UnsupportedVersion returns a DocumentLoadError for a declared version that
// cannot be processed.
func UnsupportedVersion(path, version string) *DocumentLoadError {
	return &DocumentLoadError{Path: path, Version: version, Unsupported: true, stack: debug.Stack()}
}

// Generation returns a GenerationError with the current stack attached.
func Generation(stage, message string, cause error) *GenerationError {
	return &GenerationError{Stage: stage, Message: message, Cause: cause, stack: debug.Stack()}
}

// Write returns a WriteError with the current stack attached.
func Write(path, message string, cause error) *WriteError {
	return &WriteError{Path: path, Message: message, Cause: cause, stack: debug.Stack()}
}
