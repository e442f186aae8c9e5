package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
	"github.com/erraggy/refitgen/spec"
)

func newTestConsole(opts ...ConsoleOption) (*Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewConsole(&out, &errOut, opts...), &out, &errOut
}

func TestConsoleProgress(t *testing.T) {
	c, out, errOut := newTestConsole(WithBanner(false))

	c.Started("1.2.3", "key-123")
	c.Validated(&spec.ValidationResult{
		Valid: true,
		Diagnostics: spec.Diagnostics{
			Warnings: []spec.Issue{{Path: "paths./pets.get", Message: "missing description", Severity: "warning"}},
		},
		Statistics: spec.Statistics{Version: "3.0.3", Paths: 2, Operations: 3, Schemas: 1},
	})
	c.Generated(MainPass, 1024)
	c.Written(MainPass, "Generated/Output.cs", 1024)
	c.Generated(ContractsPass, 512)
	c.Written(ContractsPass, "Generated/Contracts.cs", 512)
	c.Completed(1500 * time.Millisecond)

	got := out.String()
	for _, want := range []string{
		"refitgen v1.2.3\n",
		"Support key: key-123\n",
		"warning: paths./pets.get: missing description\n",
		"OpenAPI document is valid\n",
		"OpenAPI statistics:\n  OpenAPI Version: 3.0.3\n",
		"  Operations: 3\n",
		"Generated output: 1024 bytes\n",
		"Output file: Generated/Output.cs\n",
		"Generated contracts: 512 bytes\n",
		"Contracts file: Generated/Contracts.cs\n",
		"Duration: 1.5s\n",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "Generated with refitgen")
	assert.Empty(t, errOut.String())
}

func TestConsoleSupportKeyDisabled(t *testing.T) {
	c, out, _ := newTestConsole()
	c.Started("dev", "")
	assert.Contains(t, out.String(), "Support key: unavailable when logging is disabled")
}

func TestConsoleBanner(t *testing.T) {
	c, out, _ := newTestConsole()
	c.Completed(time.Second)
	assert.Contains(t, out.String(), "Generated with refitgen")
}

func TestConsoleValidationErrors(t *testing.T) {
	c, out, _ := newTestConsole()
	c.Validated(&spec.ValidationResult{
		Valid: false,
		Diagnostics: spec.Diagnostics{
			Errors: []spec.Issue{{Path: "info", Message: "version is required", Severity: "error"}},
		},
	})
	got := out.String()
	assert.Contains(t, got, "error: info: version is required\n")
	assert.NotContains(t, got, "is valid")
	assert.NotContains(t, got, "statistics", "statistics need a parsed document")
}

func TestConsoleFailed(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		skipped     bool
		wantKind    bool
		wantTrace   bool
		wantTip     bool
		wantFooter  bool
		wantMessage string
	}{
		{
			name:        "validation failure shows no trace",
			err:         &rgerrors.DocumentValidationError{Path: "api.yaml", ErrorCount: 2},
			wantMessage: "document validation failed for api.yaml",
		},
		{
			name:        "generation failure",
			err:         rgerrors.Generation("setup", "boom", nil),
			wantKind:    true,
			wantTrace:   true,
			wantTip:     true,
			wantFooter:  true,
			wantMessage: "generation error during setup: boom",
		},
		{
			name:        "load failure with validation skipped",
			err:         rgerrors.DocumentLoad("api.yaml", "fetch failed", nil),
			skipped:     true,
			wantKind:    true,
			wantTrace:   true,
			wantFooter:  true,
			wantMessage: "failed to load document api.yaml",
		},
		{
			name:        "configuration failure has no tip",
			err:         rgerrors.Configuration("namespace", "is required", nil),
			wantKind:    true,
			wantTrace:   true,
			wantFooter:  true,
			wantMessage: `configuration error in "namespace"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out, errOut := newTestConsole()
			c.Started("dev", "key-1")
			c.Failed(tt.err, tt.skipped)

			got := errOut.String()
			assert.Contains(t, got, "Error: "+tt.wantMessage)
			assert.Equal(t, tt.wantKind, strings.Contains(got, "Kind: "+rgerrors.KindOf(tt.err).String()))
			assert.Equal(t, tt.wantTrace, strings.Contains(got, "goroutine"))
			assert.Equal(t, tt.wantTip, strings.Contains(got, "--skip-validation"))
			assert.Equal(t, tt.wantFooter, strings.Contains(got, "include support key key-1"))
			assert.NotContains(t, out.String(), "Error:")
		})
	}
}

// recorder collects event names.
type recorder struct{ events []string }

func (r *recorder) Started(string, string) { r.events = append(r.events, "started") }
func (r *recorder) Resolved(settings.Settings) { r.events = append(r.events, "resolved") }
func (r *recorder) Validated(*spec.ValidationResult) { r.events = append(r.events, "validated") }
func (r *recorder) Generated(Pass, int) { r.events = append(r.events, "generated") }
func (r *recorder) Written(Pass, string, int) { r.events = append(r.events, "written") }
func (r *recorder) Completed(time.Duration) { r.events = append(r.events, "completed") }
func (r *recorder) Failed(error, bool) { r.events = append(r.events, "failed") }

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi(a, Discard, b)

	m.Started("dev", "")
	m.Resolved(settings.Default())
	m.Validated(nil)
	m.Generated(MainPass, 1)
	m.Written(MainPass, "x", 1)
	m.Completed(0)
	m.Failed(errors.New("x"), false)

	want := []string{"started", "resolved", "validated", "generated", "written", "completed", "failed"}
	assert.Equal(t, want, a.events)
	assert.Equal(t, want, b.events)
}

func decodeEvents(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var events []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var e map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		events = append(events, e)
	}
	return events
}

func TestTelemetryEvents(t *testing.T) {
	var buf bytes.Buffer
	tel := NewTelemetry(&buf)
	require.True(t, tel.Enabled())
	require.NotEmpty(t, tel.SupportKey())

	s := settings.Default()
	s.OpenAPIPath = "https://example.com/openapi.json"
	s.SplitContracts = true

	tel.Started("1.0.0", tel.SupportKey())
	tel.Resolved(s)
	tel.Validated(&spec.ValidationResult{Valid: true, Statistics: spec.Statistics{Version: "3.0.3", Operations: 2}})
	tel.Generated(MainPass, 10)
	tel.Written(MainPass, "secret/path.cs", 10)
	tel.Completed(2 * time.Second)
	tel.Failed(rgerrors.UnsupportedVersion("api.yaml", "4.0.0"), false)

	events := decodeEvents(t, buf.Bytes())
	require.Len(t, events, 6)

	var names []string
	for _, e := range events {
		names = append(names, e["msg"].(string))
		assert.Equal(t, tel.SupportKey(), e["support_key"])
	}
	assert.Equal(t, []string{"run_started", "feature_usage", "document_validated", "code_generated", "run_completed", "run_failed"}, names)

	assert.Equal(t, true, events[1]["remote_document"])
	assert.Equal(t, true, events[1]["split_contracts"])
	assert.Equal(t, "PlainResult", events[1]["return_style"])
	assert.NotContains(t, buf.String(), "example.com")
	assert.NotContains(t, buf.String(), "secret/path.cs")

	assert.Equal(t, float64(2000), events[4]["duration_ms"])
	assert.Equal(t, "DocumentLoadError", events[5]["kind"])
	assert.Equal(t, float64(3), events[5]["exit_code"])
	assert.Equal(t, "4.0.0", events[5]["unsupported_version"])
}

func TestTelemetryDisabled(t *testing.T) {
	tel := Disabled()
	assert.False(t, tel.Enabled())
	assert.Empty(t, tel.SupportKey())

	tel.Started("dev", "")
	tel.Resolved(settings.Default())
	tel.Failed(errors.New("boom"), false)
	assert.NoError(t, tel.Close())
}

func TestOpenTelemetry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.jsonl")

	tel, err := OpenTelemetry(path)
	require.NoError(t, err)
	tel.Completed(time.Millisecond)
	require.NoError(t, tel.Close())

	tel, err = OpenTelemetry(path)
	require.NoError(t, err)
	tel.Completed(time.Millisecond)
	require.NoError(t, tel.Close())
	assert.NoError(t, tel.Close(), "closing twice is harmless")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, decodeEvents(t, data), 2, "events are appended")
}

func TestOpenTelemetryFailureDisables(t *testing.T) {
	dir := t.TempDir()
	tel, err := OpenTelemetry(dir)
	assert.Error(t, err)
	require.NotNil(t, tel)
	assert.False(t, tel.Enabled())
}

func TestSupportKeyStable(t *testing.T) {
	assert.Equal(t, SupportKey(), SupportKey())
	assert.Len(t, SupportKey(), 36)
}
