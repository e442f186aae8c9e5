package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/erraggy/refitgen/internal/fileutil"
	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
	"github.com/erraggy/refitgen/spec"
)

// supportNamespace scopes support keys so they never collide with other
// name-based UUIDs derived from the same machine identity.
var supportNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://refitgen.invalid/support-key"))

// Telemetry records anonymous usage events as JSON lines. It is best-effort:
// a failing destination disables it without affecting the run.
type Telemetry struct {
	logger     *slog.Logger
	closer     io.Closer
	supportKey string
	enabled    bool
}

var _ Sink = (*Telemetry)(nil)

// Disabled returns a Telemetry that records nothing and has no support key.
func Disabled() *Telemetry {
	return &Telemetry{}
}

// NewTelemetry records events to w.
func NewTelemetry(w io.Writer) *Telemetry {
	return &Telemetry{
		logger:     slog.New(slog.NewJSONHandler(w, nil)),
		supportKey: SupportKey(),
		enabled:    true,
	}
}

// OpenTelemetry appends events to the file at path, creating it and its
// directory as needed. When the file cannot be opened telemetry is
// disabled and the error returned for logging.
func OpenTelemetry(path string) (*Telemetry, error) {
	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirPerm); err != nil {
		return Disabled(), err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileutil.OwnerReadWrite)
	if err != nil {
		return Disabled(), err
	}
	t := NewTelemetry(f)
	t.closer = f
	return t, nil
}

// DefaultTelemetryPath is the event log location under the user's cache
// directory.
func DefaultTelemetryPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "refitgen", "events.jsonl"), nil
}

// SupportKey derives a stable anonymous identifier for this machine and
// user. The key is a name-based UUID so it reveals neither input.
func SupportKey() string {
	host, _ := os.Hostname()
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return uuid.NewSHA1(supportNamespace, []byte(host+"\x00"+name)).String()
}

// SupportKey returns the key reported with events, or "" when disabled.
func (t *Telemetry) SupportKey() string {
	if !t.enabled {
		return ""
	}
	return t.supportKey
}

// Enabled reports whether events are recorded.
func (t *Telemetry) Enabled() bool {
	return t.enabled
}

// Close releases the destination opened by OpenTelemetry.
func (t *Telemetry) Close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

func (t *Telemetry) event(msg string, attrs ...slog.Attr) {
	if !t.enabled {
		return
	}
	attrs = append(attrs, slog.String("support_key", t.supportKey))
	t.logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
}

// Started records the start of a run.
func (t *Telemetry) Started(version, _ string) {
	t.event("run_started", slog.String("version", version))
}

// Resolved records which features a run uses. Paths and names are never
// recorded.
func (t *Telemetry) Resolved(s settings.Settings) {
	t.event("feature_usage",
		slog.Bool("remote_document", spec.IsURL(s.OpenAPIPath)),
		slog.Bool("generate_contracts", s.GenerateContracts),
		slog.Bool("generate_interface", s.GenerateInterface),
		slog.Bool("dependency_injection", s.GenerateDependencyInjection),
		slog.Bool("split_contracts", s.SplitContracts),
		slog.Bool("use_openapi_title", s.Naming.UseOpenAPITitle),
		slog.Bool("name_template", s.Naming.OperationNameTemplate != ""),
		slog.String("name_generator", string(s.Naming.OperationNameGenerator)),
		slog.Int("path_filters", len(s.Filters.IncludePathMatches)),
		slog.Int("tag_filters", len(s.Filters.IncludeTags)),
		slog.Bool("trim_unused_schema", s.Filters.TrimUnusedSchema),
		slog.Bool("xml_doc_comments", s.Docs.GenerateXMLDocCodeComments),
		slog.String("return_style", string(s.ReturnStyle)),
		slog.Bool("cancellation_tokens", s.UseCancellationTokens),
		slog.String("accessibility", string(s.TypeAccessibility)),
		slog.String("multiple_interfaces", string(s.MultipleInterfaces)),
		slog.Bool("optional_parameters", s.OptionalParameters),
		slog.Bool("iso_date_format", s.UseISODateFormat),
	)
}

// Validated records the validation outcome and document size.
func (t *Telemetry) Validated(vr *spec.ValidationResult) {
	if vr == nil {
		return
	}
	t.event("document_validated",
		slog.Bool("valid", vr.Valid),
		slog.String("openapi_version", vr.Statistics.Version),
		slog.Int("operations", vr.Statistics.Operations),
		slog.Int("schemas", vr.Statistics.Schemas),
		slog.Int("errors", len(vr.Diagnostics.Errors)),
		slog.Int("warnings", len(vr.Diagnostics.Warnings)))
}

// Generated records the size of a generated pass.
func (t *Telemetry) Generated(pass Pass, length int) {
	t.event("code_generated", slog.String("pass", string(pass)), slog.Int("length", length))
}

// Written implements Sink; file paths are never recorded.
func (t *Telemetry) Written(Pass, string, int) {}

// Completed records the run duration.
func (t *Telemetry) Completed(elapsed time.Duration) {
	t.event("run_completed", slog.Int64("duration_ms", elapsed.Milliseconds()))
}

// Failed records the kind of a failed run.
func (t *Telemetry) Failed(err error, validationSkipped bool) {
	if err == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("kind", rgerrors.KindOf(err).String()),
		slog.Int("exit_code", rgerrors.ExitCode(err)),
		slog.Bool("validation_skipped", validationSkipped),
	}
	var loadErr *rgerrors.DocumentLoadError
	if errors.As(err, &loadErr) && loadErr.Unsupported {
		attrs = append(attrs, slog.String("unsupported_version", loadErr.Version))
	}
	t.event("run_failed", attrs...)
}
