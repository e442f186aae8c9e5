package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/erraggy/refitgen"
	"github.com/erraggy/refitgen/internal/cliutil"
	"github.com/erraggy/refitgen/pipeline"
	"github.com/erraggy/refitgen/report"
	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
)

// GenerateFlags contains flags for a generation run.
type GenerateFlags struct {
	Args settings.CLIArgs

	SkipValidation bool
	NoLogging      bool
	NoBanner       bool
	SettingsFile   string
	Verbose        bool
}

// bindSettingsFlags registers the flags that map onto settings.
func bindSettingsFlags(cmd *cobra.Command, a *settings.CLIArgs) {
	fs := cmd.Flags()

	fs.StringVarP(&a.Namespace, "namespace", "n", settings.DefaultNamespace, "namespace of the generated code")
	fs.StringVarP(&a.OutputPath, "output", "o", settings.DefaultOutputFilename, "path of the generated file")
	fs.StringVar(&a.OutputFolder, "output-folder", settings.DefaultOutputFolder, "folder the output file is written to")
	fs.StringVar(&a.ContractsOutputPath, "contracts-output", "", "path of the contracts file when --split-contracts is set (default "+pipeline.DefaultContractsFilename+")")

	fs.BoolVar(&a.InterfaceOnly, "interface-only", false, "generate the Refit interface without data contracts")
	fs.BoolVar(&a.UseAPIResponse, "use-api-response", false, "return Task<IApiResponse<T>> instead of Task<T>")
	fs.BoolVar(&a.UseObservableResponse, "use-observable-response", false, "return IObservable<T> instead of Task<T>")
	fs.BoolVar(&a.CancellationTokens, "cancellation-tokens", false, "add a CancellationToken parameter to every method")

	fs.StringArrayVar(&a.MatchPaths, "match-path", nil, "only generate operations whose path matches this regular expression (repeatable)")
	fs.StringArrayVar(&a.Tags, "tag", nil, "only generate operations with this tag (repeatable)")
	fs.StringArrayVar(&a.ExcludeNamespaces, "exclude-namespace", nil, "drop using directives matching this regular expression (repeatable)")
	fs.BoolVar(&a.TrimUnusedSchema, "trim-unused-schema", false, "drop contracts no generated operation references")
	fs.StringArrayVar(&a.KeepSchemas, "keep-schema", nil, "keep schemas matching this regular expression when trimming (repeatable)")

	fs.StringVar(&a.OperationNameTemplate, "operation-name-template", "", "method name template; {operationName} is replaced by the generated name")
	fs.StringVar(&a.OperationNameGenerator, "operation-name-generator", "", "Default, OperationId, MethodAndPath, SingleClientFromOperationId or SingleClientFromPathSegments")
	fs.StringVar(&a.InterfaceName, "interface-name", "", "fixed interface name instead of the document title")

	fs.BoolVar(&a.NoAutoGeneratedHeader, "no-auto-generated-header", false, "omit the <auto-generated> header")
	fs.BoolVar(&a.NoAcceptHeaders, "no-accept-headers", false, "omit Accept header attributes")
	fs.BoolVar(&a.NoXMLDocComments, "no-xml-doc-comments", false, "omit XML documentation comments")
	fs.BoolVar(&a.NoOperationHeaders, "no-operation-headers", false, "omit header parameters of operations")
	fs.BoolVar(&a.NoDeprecatedOperations, "no-deprecated-operations", false, "skip deprecated operations")

	fs.BoolVar(&a.Internal, "internal", false, "generate internal instead of public types")
	fs.StringArrayVar(&a.AdditionalNamespaces, "additional-namespace", nil, "add a using directive (repeatable)")
	fs.StringVar(&a.MultipleInterfaces, "multiple-interfaces", "", "split the client into ByEndpoint or ByTag interfaces")
	fs.BoolVar(&a.OptionalNullableParameters, "optional-nullable-parameters", false, "make optional parameters default to null and move them last")
	fs.BoolVar(&a.UseISODateFormat, "use-iso-date-format", false, "format date query parameters as yyyy-MM-dd")
	fs.BoolVar(&a.SkipDefaultAdditionalProperties, "skip-default-additional-properties", false, "omit the AdditionalProperties dictionary of contracts")
	fs.BoolVar(&a.SplitContracts, "split-contracts", false, "write contracts to a separate file")
	fs.BoolVar(&a.DependencyInjection, "dependency-injection", false, "generate IServiceCollection registration")
}

// bindGenerateFlags registers every flag of a generation run.
func bindGenerateFlags(cmd *cobra.Command, f *GenerateFlags) {
	bindSettingsFlags(cmd, &f.Args)

	fs := cmd.Flags()
	fs.BoolVar(&f.SkipValidation, "skip-validation", false, "generate without validating the document first")
	fs.BoolVar(&f.NoLogging, "no-logging", false, "disable anonymous usage events and the support key")
	fs.BoolVar(&f.NoBanner, "no-banner", false, "do not print the closing banner")
	fs.StringVar(&f.SettingsFile, "settings-file", "", "settings document (.json, .refitter, .yaml or .yml) replacing the generation flags")
	fs.BoolVar(&f.Verbose, "verbose", false, "log debug details to stderr")
}

// request builds the pipeline request for the document at path.
func (f *GenerateFlags) request(path string) (pipeline.Request, error) {
	args := f.Args
	args.OpenAPIPath = path
	req := pipeline.Request{Args: args, SkipValidation: f.SkipValidation}
	if f.SettingsFile == "" {
		return req, nil
	}
	data, err := os.ReadFile(f.SettingsFile)
	if err != nil {
		return req, rgerrors.Configuration("settingsFile", "cannot read "+f.SettingsFile, err)
	}
	req.Persisted = data
	req.Format = settings.FormatFromPath(f.SettingsFile)
	return req, nil
}

func runGenerate(ctx context.Context, env Env, f *GenerateFlags, path string) error {
	logger := cliutil.NewLogger(env.Stderr, f.Verbose)
	tel := openTelemetry(env, f.NoLogging, logger)
	defer func() {
		if err := tel.Close(); err != nil {
			logger.Debug("closing telemetry", "error", err)
		}
	}()

	sink := report.Multi(report.NewConsole(env.Stdout, env.Stderr, report.WithBanner(!f.NoBanner)), tel)
	runner, err := pipeline.New(
		pipeline.WithSink(sink),
		pipeline.WithLogger(logger),
		pipeline.WithSupportKey(tel.SupportKey()),
	)
	if err != nil {
		return err
	}

	req, err := f.request(path)
	if err != nil {
		sink.Started(refitgen.Version(), tel.SupportKey())
		sink.Failed(err, f.SkipValidation)
		return &reportedError{err}
	}
	if _, err := runner.Run(ctx, req); err != nil {
		return &reportedError{err}
	}
	return nil
}
