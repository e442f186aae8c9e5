package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erraggy/refitgen"
	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
	"github.com/erraggy/refitgen/spec"
)

// Factory binds a loaded document to settings and produces a Generator.
type Factory interface {
	CreateGenerator(ctx context.Context, doc *spec.Document, s settings.Settings) (Generator, error)
}

// Generator renders one source file. Generate is deterministic and has no
// side effects; calling it twice yields identical text.
type Generator interface {
	Generate() (string, error)
}

// OperationDescriptor is the view of an operation handed to an
// OperationNamer.
type OperationDescriptor struct {
	OperationID string
	Method      string
	Path        string
	Tags        []string
	Summary     string
}

// OperationNamer overrides the configured naming strategy. Returning ""
// keeps the name the strategy produced.
type OperationNamer func(OperationDescriptor) string

// RefitFactory is the Factory producing Refit interfaces and System.Text.Json
// contracts.
type RefitFactory struct {
	logger        *slog.Logger
	namer         OperationNamer
	generatorName string
}

var _ Factory = (*RefitFactory)(nil)

// Option configures a RefitFactory.
type Option func(*RefitFactory) error

// WithLogger sets the logger used for setup diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *RefitFactory) error {
		if l == nil {
			return fmt.Errorf("engine: logger cannot be nil")
		}
		f.logger = l
		return nil
	}
}

// WithOperationNamer installs a custom operation namer.
func WithOperationNamer(n OperationNamer) Option {
	return func(f *RefitFactory) error {
		f.namer = n
		return nil
	}
}

// WithGeneratorName sets the tool name written into the auto-generated
// header.
func WithGeneratorName(name string) Option {
	return func(f *RefitFactory) error {
		if name == "" {
			return fmt.Errorf("engine: generator name cannot be empty")
		}
		f.generatorName = name
		return nil
	}
}

// NewRefitFactory creates a RefitFactory.
func NewRefitFactory(opts ...Option) (*RefitFactory, error) {
	f := &RefitFactory{
		logger:        slog.Default(),
		generatorName: refitgen.GeneratorName(),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// CreateGenerator implements Factory. The document is only read; one
// Document may back any number of generators.
func (f *RefitFactory) CreateGenerator(ctx context.Context, doc *spec.Document, s settings.Settings) (Generator, error) {
	if err := ctx.Err(); err != nil {
		return nil, rgerrors.Generation("setup", "cancelled", err)
	}
	if doc == nil {
		return nil, rgerrors.Generation("setup", "no document", nil)
	}

	b, err := newBuilder(doc, s, f.namer)
	if err != nil {
		return nil, err
	}
	model, err := b.build()
	if err != nil {
		return nil, err
	}
	model.Generator = f.generatorName
	if !s.Docs.AddAutoGeneratedHeader {
		model.Generator = ""
	}

	f.logger.Debug("generator created",
		"source", doc.Source(),
		"interfaces", len(model.Interfaces),
		"contracts", len(model.Contracts),
		"enums", len(model.Enums))
	return &refitGenerator{model: model}, nil
}

type refitGenerator struct {
	model *fileModel
}

func (g *refitGenerator) Generate() (string, error) {
	out, err := render(g.model)
	if err != nil {
		return "", rgerrors.Generation("render", "", err)
	}
	return out, nil
}
