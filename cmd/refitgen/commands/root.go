// Package commands implements the refitgen command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/erraggy/refitgen"
	"github.com/erraggy/refitgen/internal/cliutil"
	"github.com/erraggy/refitgen/report"
	"github.com/erraggy/refitgen/rgerrors"
)

// Env is the process environment a command runs in.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	// TelemetryPath is where usage events are appended. Empty uses
	// report.DefaultTelemetryPath.
	TelemetryPath string
}

// reportedError marks a failure the console sink has already shown.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, env Env) int {
	root := NewRootCommand(env)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		cliutil.Writef(env.Stderr, "Error: %v\n", err)
	}
	return rgerrors.ExitCode(err)
}

// NewRootCommand builds the refitgen command tree.
func NewRootCommand(env Env) *cobra.Command {
	flags := &GenerateFlags{}
	root := &cobra.Command{
		Use:   "refitgen [flags] [openapi-path-or-url]",
		Short: "Generate C# Refit clients from OpenAPI documents",
		Long: `refitgen generates a C# Refit interface and data contracts from an
OpenAPI 2.0 or 3.x document given as a file path or URL.

The document is validated before generation unless --skip-validation is set.
A settings document (--settings-file, JSON or YAML) replaces every
generation flag. A document path on the command line overrides the one saved
in the settings document, which is used when none is given.`,
		Example: `  refitgen ./openapi.json
  refitgen https://petstore3.swagger.io/api/v3/openapi.json -n Petstore -o Petstore.cs
  refitgen ./openapi.yaml --split-contracts --contracts-output Contracts.cs
  refitgen ./openapi.yaml --settings-file petstore.refitter`,
		Args:          pathArgs,
		Version:       refitgen.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), env, flags, firstArg(args))
		},
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)
	root.SetVersionTemplate("refitgen v{{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return rgerrors.Configuration("", err.Error(), err)
	})
	bindGenerateFlags(root, flags)

	root.AddCommand(
		newVersionCommand(env),
		newMCPCommand(env),
		newInitSettingsCommand(env),
	)
	return root
}

// pathArgs accepts at most one document path. A missing path is reported by
// the run itself so it is classified like any other configuration error.
func pathArgs(_ *cobra.Command, args []string) error {
	if len(args) > 1 {
		return rgerrors.Configuration("openApiPath", fmt.Sprintf("expected one document path or URL, got %d", len(args)), nil)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// openTelemetry returns the run's telemetry. Failing to open the event log
// disables telemetry; it never fails the run.
func openTelemetry(env Env, disabled bool, logger *slog.Logger) *report.Telemetry {
	if disabled {
		return report.Disabled()
	}
	path := env.TelemetryPath
	if path == "" {
		p, err := report.DefaultTelemetryPath()
		if err != nil {
			logger.Debug("telemetry disabled", "error", err)
			return report.Disabled()
		}
		path = p
	}
	tel, err := report.OpenTelemetry(path)
	if err != nil {
		logger.Debug("telemetry disabled", "path", path, "error", err)
	}
	return tel
}
