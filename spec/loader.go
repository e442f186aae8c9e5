// Package spec loads and validates OpenAPI documents for generation.
//
// Parsing and validation are delegated to github.com/erraggy/oastools. This
// package adds what a generation run needs around them: reading local files
// or fetching URLs, rejecting unsupported specification versions before
// parsing, and reporting validation problems as structured diagnostics.
//
// # Usage
//
//	loader, err := spec.NewLoader(spec.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	vr, err := loader.Validate(ctx, "petstore.yaml")
//	if err != nil {
//		return err // I/O or unsupported version
//	}
//	if !vr.Valid {
//		// vr.Diagnostics.Errors explains why
//	}
//	doc, err := loader.Load(ctx, "petstore.yaml")
//
// LoadValidated does both from a single read of the source, so a remote
// document cannot change between validation and generation.
package spec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erraggy/oastools/parser"
	"github.com/erraggy/oastools/validator"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/refitgen"
	"github.com/erraggy/refitgen/rgerrors"
)

// Loader loads and validates OpenAPI documents.
type Loader interface {
	// Load reads and parses the document at path (a file path or URL).
	Load(ctx context.Context, path string) (*Document, error)
	// Validate reads, parses and validates the document at path. Problems
	// with the document itself are reported in the result; only failures to
	// obtain the document, or an unsupported version, return an error.
	Validate(ctx context.Context, path string) (*ValidationResult, error)
	// LoadValidated validates the document at path and returns it parsed
	// from the same read. The Document is nil when the source could not be
	// parsed; the result then explains why.
	LoadValidated(ctx context.Context, path string) (*Document, *ValidationResult, error)
}

const (
	// DefaultTimeout bounds a remote document fetch.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxSize bounds the size of a document in bytes.
	DefaultMaxSize int64 = 50 << 20
)

// OASLoader is the Loader backed by the oastools parser and validator.
type OASLoader struct {
	logger    *slog.Logger
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxSize   int64
	strict    bool
}

var _ Loader = (*OASLoader)(nil)

// LoaderOption configures an OASLoader.
type LoaderOption func(*OASLoader) error

// WithLogger sets the structured logger handed to the parser.
func WithLogger(l *slog.Logger) LoaderOption {
	return func(o *OASLoader) error {
		if l == nil {
			return fmt.Errorf("spec: logger cannot be nil")
		}
		o.logger = l
		return nil
	}
}

// WithHTTPClient sets the client used to fetch remote documents.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(o *OASLoader) error {
		if c == nil {
			return fmt.Errorf("spec: http client cannot be nil")
		}
		o.client = c
		return nil
	}
}

// WithTimeout bounds each remote fetch.
func WithTimeout(d time.Duration) LoaderOption {
	return func(o *OASLoader) error {
		if d <= 0 {
			return fmt.Errorf("spec: timeout must be positive, got %s", d)
		}
		o.timeout = d
		return nil
	}
}

// WithUserAgent sets the User-Agent of remote fetches.
func WithUserAgent(ua string) LoaderOption {
	return func(o *OASLoader) error {
		o.userAgent = ua
		return nil
	}
}

// WithMaxSize bounds the document size in bytes.
func WithMaxSize(n int64) LoaderOption {
	return func(o *OASLoader) error {
		if n <= 0 {
			return fmt.Errorf("spec: max size must be positive, got %d", n)
		}
		o.maxSize = n
		return nil
	}
}

// WithStrict promotes best-practice warnings to errors during validation.
func WithStrict(enabled bool) LoaderOption {
	return func(o *OASLoader) error {
		o.strict = enabled
		return nil
	}
}

// NewLoader creates an OASLoader.
func NewLoader(opts ...LoaderOption) (*OASLoader, error) {
	l := &OASLoader{
		logger:    slog.Default(),
		client:    http.DefaultClient,
		timeout:   DefaultTimeout,
		userAgent: refitgen.UserAgent(),
		maxSize:   DefaultMaxSize,
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load implements Loader.
func (l *OASLoader) Load(ctx context.Context, path string) (*Document, error) {
	data, err := l.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(path, data); err != nil {
		return nil, err
	}
	pr, err := l.parse(path, data)
	if err != nil {
		return nil, rgerrors.DocumentLoad(path, "parse failed", err)
	}
	for _, e := range pr.Errors {
		l.logger.Warn("document has structural errors", "source", path, "error", e)
	}
	for _, w := range pr.Warnings {
		l.logger.Debug("parser warning", "source", path, "warning", w)
	}
	l.logger.Debug("document loaded",
		"source", path, "version", pr.Version, "paths", pr.Stats.PathCount,
		"operations", pr.Stats.OperationCount, "schemas", pr.Stats.SchemaCount)
	return NewDocument(path, pr), nil
}

// Validate implements Loader.
func (l *OASLoader) Validate(ctx context.Context, path string) (*ValidationResult, error) {
	_, vr, err := l.LoadValidated(ctx, path)
	return vr, err
}

// LoadValidated implements Loader.
func (l *OASLoader) LoadValidated(ctx context.Context, path string) (*Document, *ValidationResult, error) {
	data, err := l.read(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if err := checkVersion(path, data); err != nil {
		if isUnsupported(err) {
			return nil, nil, err
		}
		return nil, malformed(err), nil
	}
	pr, err := l.parse(path, data)
	if err != nil {
		return nil, malformed(err), nil
	}

	vr, err := validator.ValidateWithOptions(
		validator.WithParsed(*pr),
		validator.WithIncludeWarnings(true),
		validator.WithStrictMode(l.strict),
	)
	if err != nil {
		return nil, nil, rgerrors.DocumentLoad(path, "validation could not run", err)
	}

	doc := NewDocument(path, pr)
	result := &ValidationResult{
		Valid:      vr.Valid,
		Statistics: doc.Stats(),
	}
	for _, e := range vr.Errors {
		result.Diagnostics.Errors = append(result.Diagnostics.Errors, issueFrom(e))
	}
	for _, w := range vr.Warnings {
		result.Diagnostics.Warnings = append(result.Diagnostics.Warnings, issueFrom(w))
	}
	l.logger.Debug("document validated",
		"source", path, "valid", result.Valid,
		"errors", len(result.Diagnostics.Errors), "warnings", len(result.Diagnostics.Warnings))
	return doc, result, nil
}

func (l *OASLoader) parse(path string, data []byte) (*parser.ParseResult, error) {
	opts := []parser.Option{
		parser.WithBytes(data),
		parser.WithLogger(parser.NewSlogAdapter(l.logger)),
		parser.WithUserAgent(l.userAgent),
	}
	if path != "" {
		opts = append(opts, parser.WithSourceName(path))
	}
	return parser.ParseWithOptions(opts...)
}

func malformed(err error) *ValidationResult {
	return &ValidationResult{
		Valid: false,
		Diagnostics: Diagnostics{
			Errors: []Issue{{
				Path:     "document",
				Message:  err.Error(),
				Severity: "error",
			}},
		},
	}
}

func isUnsupported(err error) bool {
	var le *rgerrors.DocumentLoadError
	return errors.As(err, &le) && le.Unsupported
}

// versionHeader holds the version fields every supported document declares.
type versionHeader struct {
	Swagger string `yaml:"swagger"`
	OpenAPI string `yaml:"openapi"`
}

var supportedPrefixes = []string{"3.0.", "3.1.", "3.2."}

// checkVersion reads the declared version without building the full
// document and rejects versions the generator cannot handle.
func checkVersion(path string, data []byte) error {
	var h versionHeader
	if err := yaml.Unmarshal(data, &h); err != nil {
		return rgerrors.DocumentLoad(path, "malformed document", err)
	}
	switch {
	case h.Swagger != "":
		if h.Swagger != "2.0" {
			return rgerrors.UnsupportedVersion(path, h.Swagger)
		}
		return nil
	case h.OpenAPI != "":
		for _, p := range supportedPrefixes {
			if strings.HasPrefix(h.OpenAPI, p) {
				return nil
			}
		}
		return rgerrors.UnsupportedVersion(path, h.OpenAPI)
	default:
		return rgerrors.DocumentLoad(path, "missing 'swagger' or 'openapi' version field", nil)
	}
}
