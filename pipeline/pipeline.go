package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/refitgen"
	"github.com/erraggy/refitgen/engine"
	"github.com/erraggy/refitgen/internal/fileutil"
	"github.com/erraggy/refitgen/report"
	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
	"github.com/erraggy/refitgen/spec"
)

// DefaultContractsFilename names the contracts file of a split run when no
// contracts file name is configured.
const DefaultContractsFilename = "Contracts.cs"

// State is a step of a run.
type State string

const (
	StateIdle           State = "Idle"
	StateConfigResolved State = "ConfigResolved"
	StateValidated      State = "Validated"
	StateGenerated      State = "Generated"
	StateWritten        State = "Written"
	StateSplitGenerated State = "SplitGenerated"
	StateSplitWritten   State = "SplitWritten"
	StateDone           State = "Done"
	StateFailed         State = "Failed"
)

// Writer persists generated source.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// WriterFunc adapts a function to a Writer.
type WriterFunc func(path string, data []byte) error

// WriteFile implements Writer.
func (f WriterFunc) WriteFile(path string, data []byte) error {
	return f(path, data)
}

// AtomicWriter writes through a temporary file and rename, creating missing
// directories. Files are readable by all.
var AtomicWriter Writer = WriterFunc(func(path string, data []byte) error {
	return fileutil.WriteAtomic(path, data, fileutil.ReadableByAll)
})

// Request describes one run.
type Request struct {
	// Args are the command-line arguments.
	Args settings.CLIArgs
	// Persisted is a settings document; nil when none was given.
	Persisted []byte
	// Format is the format of Persisted.
	Format settings.Format
	// SkipValidation bypasses document validation.
	SkipValidation bool
}

// Outcome summarises a run. States is filled in for failed runs too.
type Outcome struct {
	Settings      settings.Settings
	OutputPath    string
	Size          int
	ContractsPath string
	ContractsSize int
	Duration      time.Duration
	States        []State
}

// Runner sequences a generation run.
type Runner struct {
	loader     spec.Loader
	factory    engine.Factory
	sink       report.Sink
	writer     Writer
	logger     *slog.Logger
	version    string
	supportKey string
	now        func() time.Time
}

// Option configures a Runner.
type Option func(*Runner) error

// WithLoader sets the document loader. The default is spec.NewLoader with
// the runner's logger.
func WithLoader(l spec.Loader) Option {
	return func(r *Runner) error {
		if l == nil {
			return fmt.Errorf("pipeline: loader cannot be nil")
		}
		r.loader = l
		return nil
	}
}

// WithFactory sets the generator factory. The default is
// engine.NewRefitFactory with the runner's logger.
func WithFactory(f engine.Factory) Option {
	return func(r *Runner) error {
		if f == nil {
			return fmt.Errorf("pipeline: factory cannot be nil")
		}
		r.factory = f
		return nil
	}
}

// WithSink sets where events are reported. The default discards them.
func WithSink(s report.Sink) Option {
	return func(r *Runner) error {
		if s == nil {
			return fmt.Errorf("pipeline: sink cannot be nil")
		}
		r.sink = s
		return nil
	}
}

// WithWriter sets how output is persisted. The default is AtomicWriter.
func WithWriter(w Writer) Option {
	return func(r *Runner) error {
		if w == nil {
			return fmt.Errorf("pipeline: writer cannot be nil")
		}
		r.writer = w
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) error {
		if l == nil {
			return fmt.Errorf("pipeline: logger cannot be nil")
		}
		r.logger = l
		return nil
	}
}

// WithVersion sets the version reported when a run starts.
func WithVersion(v string) Option {
	return func(r *Runner) error {
		r.version = v
		return nil
	}
}

// WithSupportKey sets the support key reported when a run starts. Leave it
// empty when telemetry is disabled.
func WithSupportKey(key string) Option {
	return func(r *Runner) error {
		r.supportKey = key
		return nil
	}
}

// New creates a Runner.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		sink:    report.Discard,
		writer:  AtomicWriter,
		logger:  slog.Default(),
		version: refitgen.Version(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.loader == nil {
		l, err := spec.NewLoader(spec.WithLogger(r.logger))
		if err != nil {
			return nil, err
		}
		r.loader = l
	}
	if r.factory == nil {
		f, err := engine.NewRefitFactory(engine.WithLogger(r.logger))
		if err != nil {
			return nil, err
		}
		r.factory = f
	}
	return r, nil
}

// Run executes one generation run. Every error returned is classified by
// rgerrors; the Outcome is returned on failure as well so callers can see
// how far the run got.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	start := r.now()
	out := &Outcome{States: []State{StateIdle}}
	r.sink.Started(r.version, r.supportKey)

	if err := r.run(ctx, req, out); err != nil {
		out.States = append(out.States, StateFailed)
		out.Duration = r.now().Sub(start)
		r.logger.Debug("run failed", "kind", rgerrors.KindOf(err).String(), "error", err)
		r.sink.Failed(err, req.SkipValidation)
		return out, err
	}

	out.States = append(out.States, StateDone)
	out.Duration = r.now().Sub(start)
	r.sink.Completed(out.Duration)
	return out, nil
}

func (r *Runner) run(ctx context.Context, req Request, out *Outcome) error {
	s, err := settings.Resolve(req.Args, req.Persisted, req.Format)
	if err != nil {
		return err
	}
	if err := checkSource(s.OpenAPIPath); err != nil {
		return err
	}
	out.Settings = s
	out.States = append(out.States, StateConfigResolved)
	r.sink.Resolved(s)

	doc, err := r.load(ctx, s.OpenAPIPath, req.SkipValidation, out)
	if err != nil {
		return err
	}

	code, err := r.generate(ctx, doc, s)
	if err != nil {
		return err
	}
	out.States = append(out.States, StateGenerated)
	r.sink.Generated(report.MainPass, len(code))

	out.OutputPath = OutputPath(req.Args, s)
	if s.SplitContracts {
		out.ContractsPath = ContractsOutputPath(s)
		if samePath(out.OutputPath, out.ContractsPath) {
			return rgerrors.Write(out.ContractsPath, "contracts output would overwrite the main output", nil)
		}
	}
	if err := r.write(out.OutputPath, code); err != nil {
		return err
	}
	out.Size = len(code)
	out.States = append(out.States, StateWritten)
	r.sink.Written(report.MainPass, out.OutputPath, out.Size)

	if !s.SplitContracts {
		return nil
	}

	contracts, err := r.generate(ctx, doc, s.ContractsOnly())
	if err != nil {
		return err
	}
	out.States = append(out.States, StateSplitGenerated)
	r.sink.Generated(report.ContractsPass, len(contracts))

	if err := r.write(out.ContractsPath, contracts); err != nil {
		return err
	}
	out.ContractsSize = len(contracts)
	out.States = append(out.States, StateSplitWritten)
	r.sink.Written(report.ContractsPass, out.ContractsPath, out.ContractsSize)
	return nil
}

// load returns the document to generate from. Unless validation is skipped
// the document is validated and generated from the same read.
func (r *Runner) load(ctx context.Context, path string, skipValidation bool, out *Outcome) (*spec.Document, error) {
	asLoadError := func(err error) error {
		return rgerrors.DocumentLoad(path, "", err)
	}
	if skipValidation {
		doc, err := r.loader.Load(ctx, path)
		if err != nil {
			return nil, classify(err, asLoadError)
		}
		return doc, nil
	}

	doc, vr, err := r.loader.LoadValidated(ctx, path)
	if err != nil {
		return nil, classify(err, asLoadError)
	}
	r.sink.Validated(vr)
	if !vr.Valid {
		return nil, &rgerrors.DocumentValidationError{
			Path:         path,
			ErrorCount:   len(vr.Diagnostics.Errors),
			WarningCount: len(vr.Diagnostics.Warnings),
		}
	}
	if doc == nil {
		return nil, rgerrors.DocumentLoad(path, "validated document was not returned", nil)
	}
	out.States = append(out.States, StateValidated)
	return doc, nil
}

func (r *Runner) generate(ctx context.Context, doc *spec.Document, s settings.Settings) (string, error) {
	gen, err := r.factory.CreateGenerator(ctx, doc, s)
	if err != nil {
		return "", classify(err, func(err error) error {
			return rgerrors.Generation("setup", "", err)
		})
	}
	code, err := gen.Generate()
	if err != nil {
		return "", classify(err, func(err error) error {
			return rgerrors.Generation("render", "", err)
		})
	}
	return code, nil
}

func (r *Runner) write(path, code string) error {
	if err := r.writer.WriteFile(path, []byte(code)); err != nil {
		return classify(err, func(err error) error {
			return rgerrors.Write(path, "", err)
		})
	}
	r.logger.Debug("output written", "path", path, "size", len(code))
	return nil
}

// classify keeps errors that already carry a kind and wraps the rest.
func classify(err error, wrap func(error) error) error {
	if rgerrors.KindOf(err) != rgerrors.KindUnknown {
		return err
	}
	return wrap(err)
}

// checkSource fails for a local document that does not exist. URLs are
// checked when fetched.
func checkSource(path string) error {
	if spec.IsURL(path) {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rgerrors.Configuration("openApiPath", fmt.Sprintf("file %s does not exist", path), err)
		}
		return rgerrors.Configuration("openApiPath", "cannot access "+path, err)
	}
	return nil
}

// OutputPath returns where the main pass is written. An explicit output
// path on the command line beats the configured file name, and the output
// folder is prefixed unless it is blank or the default folder.
func OutputPath(args settings.CLIArgs, s settings.Settings) string {
	name := s.OutputFilename
	if args.HasExplicitOutput() {
		name = args.OutputPath
	}
	if strings.TrimSpace(name) == "" {
		name = settings.DefaultOutputFilename
	}
	return inFolder(s.OutputFolder, name)
}

// ContractsOutputPath returns where the contracts pass of a split run is
// written, following the OutputPath rule with the contracts file name.
func ContractsOutputPath(s settings.Settings) string {
	name := s.ContractsOutputFilename
	if strings.TrimSpace(name) == "" {
		name = DefaultContractsFilename
	}
	return inFolder(s.OutputFolder, name)
}

func inFolder(folder, name string) string {
	folder = strings.TrimSpace(folder)
	if folder == "" || folder == settings.DefaultOutputFolder || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(folder, name)
}

func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
