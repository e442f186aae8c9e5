package rgerrors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"configuration minimal", &ConfigurationError{}, "configuration error"},
		{"configuration full", &ConfigurationError{Field: "naming.operationNameTemplate", Message: "missing placeholder", Cause: cause},
			`configuration error in "naming.operationNameTemplate": missing placeholder: boom`},
		{"load", &DocumentLoadError{Path: "api.yaml", Cause: cause}, "failed to load document api.yaml: boom"},
		{"unsupported", &DocumentLoadError{Path: "api.yaml", Version: "4.0.0", Unsupported: true},
			"unsupported OpenAPI version: 4.0.0 in api.yaml"},
		{"validation", &DocumentValidationError{Path: "api.yaml", ErrorCount: 2, WarningCount: 1},
			"document validation failed for api.yaml: 2 error(s), 1 warning(s)"},
		{"generation", &GenerationError{Stage: "setup", Message: "unresolved reference"},
			"generation error during setup: unresolved reference"},
		{"write", &WriteError{Path: "out/Output.cs", Cause: cause}, "failed to write out/Output.cs: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("x"), KindUnknown},
		{"configuration", Configuration("", "bad", nil), KindConfiguration},
		{"load", DocumentLoad("a", "", nil), KindDocumentLoad},
		{"validation", &DocumentValidationError{}, KindDocumentValidation},
		{"generation", Generation("render", "", nil), KindGeneration},
		{"write", Write("a", "", nil), KindWrite},
		{"wrapped", fmt.Errorf("pipeline: %w", Write("a", "", nil)), KindWrite},
		{"outermost kind wins", Generation("setup", "", DocumentLoad("a", "", nil)), KindGeneration},
		{"configuration wrapping write", Configuration("", "", fmt.Errorf("x: %w", Write("a", "", nil))), KindConfiguration},
		{"wrapped sentinel", fmt.Errorf("settings: %w", ErrConfiguration), KindConfiguration},
		{"joined", errors.Join(errors.New("x"), Write("a", "", nil), Generation("", "", nil)), KindWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

type codedError struct{ code int }

func (e codedError) Error() string { return "coded" }
func (e codedError) ExitCode() int { return e.code }

func TestExitCode(t *testing.T) {
	t.Run("nil is success", func(t *testing.T) {
		assert.Equal(t, 0, ExitCode(nil))
	})

	t.Run("sentinel codes are distinct and non-zero", func(t *testing.T) {
		errs := []error{
			errors.New("unknown"),
			Configuration("", "", nil),
			DocumentLoad("", "", nil),
			&DocumentValidationError{},
			Generation("", "", nil),
			Write("", "", nil),
		}
		seen := map[int]bool{}
		for _, err := range errs {
			code := ExitCode(err)
			assert.NotZero(t, code, "%v", err)
			assert.False(t, seen[code], "duplicate exit code %d", code)
			seen[code] = true
		}
		assert.Equal(t, 2, ExitCode(Configuration("", "", nil)))
		assert.Equal(t, 4, ExitCode(&DocumentValidationError{}))
	})

	t.Run("native exit code wins", func(t *testing.T) {
		err := Generation("render", "", codedError{code: 42})
		assert.Equal(t, 42, ExitCode(err))
	})

	t.Run("zero native code falls back to kind", func(t *testing.T) {
		err := Generation("render", "", codedError{code: 0})
		assert.Equal(t, 5, ExitCode(err))
	})

	t.Run("errno in chain wins", func(t *testing.T) {
		err := Write("out.cs", "", &fs.PathError{Op: "open", Path: "out.cs", Err: syscall.EACCES})
		assert.Equal(t, int(syscall.EACCES), ExitCode(err))
	})

	t.Run("write without errno uses kind code", func(t *testing.T) {
		err := Write("out.cs", "", os.ErrExist)
		assert.Equal(t, 6, ExitCode(err))
	})
}

func TestTrace(t *testing.T) {
	t.Run("constructors capture stack", func(t *testing.T) {
		for _, err := range []error{
			Configuration("", "", nil),
			DocumentLoad("", "", nil),
			UnsupportedVersion("a", "1.0"),
			Generation("", "", nil),
			Write("", "", nil),
		} {
			assert.True(t, ShowsTrace(err))
			require.NotEmpty(t, Trace(err), "%T", err)
			assert.Contains(t, string(Trace(err)), "TestTrace")
		}
	})

	t.Run("validation never shows trace", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &DocumentValidationError{ErrorCount: 1})
		assert.False(t, ShowsTrace(err))
		assert.Nil(t, Trace(err))
	})

	t.Run("outermost classified error supplies the trace", func(t *testing.T) {
		inner := DocumentLoad("a", "", nil)
		outer := Generation("setup", "", inner)
		assert.Equal(t, outer.stack, Trace(fmt.Errorf("run: %w", outer)))
	})

	t.Run("unknown error has no captured trace", func(t *testing.T) {
		err := errors.New("x")
		assert.True(t, ShowsTrace(err))
		assert.Nil(t, Trace(err))
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "DocumentLoadError", KindDocumentLoad.String())
	assert.Equal(t, "UnknownError", Kind(99).String())
}
