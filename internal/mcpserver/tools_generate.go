package mcpserver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/refitgen/pipeline"
	"github.com/erraggy/refitgen/report"
	"github.com/erraggy/refitgen/settings"
	"github.com/erraggy/refitgen/spec"
)

type generateInput struct {
	Spec                   specInput `json:"spec"                               jsonschema:"The OpenAPI document to generate a client from"`
	OutputPath             string    `json:"output_path"                        jsonschema:"File to write the generated client to"`
	ContractsOutputPath    string    `json:"contracts_output_path,omitempty"    jsonschema:"File to write contracts to when split_contracts is set"`
	Namespace              string    `json:"namespace,omitempty"                jsonschema:"C# namespace (default: GeneratedCode)"`
	InterfaceOnly          bool      `json:"interface_only,omitempty"           jsonschema:"Skip data contracts"`
	UseAPIResponse         bool      `json:"use_api_response,omitempty"         jsonschema:"Return IApiResponse wrappers"`
	UseObservableResponse  bool      `json:"use_observable_response,omitempty"  jsonschema:"Return IObservable streams"`
	CancellationTokens     bool      `json:"cancellation_tokens,omitempty"      jsonschema:"Add a CancellationToken parameter to every method"`
	Tags                   []string  `json:"tags,omitempty"                     jsonschema:"Only generate operations with one of these tags"`
	MatchPaths             []string  `json:"match_paths,omitempty"              jsonschema:"Only generate operations whose path matches one of these regular expressions"`
	TrimUnusedSchema       bool      `json:"trim_unused_schema,omitempty"       jsonschema:"Drop contracts no generated operation references"`
	KeepSchemas            []string  `json:"keep_schemas,omitempty"             jsonschema:"Regular expressions of schema names kept when trimming"`
	OperationNameGenerator string    `json:"operation_name_generator,omitempty" jsonschema:"Default, OperationId, MethodAndPath, SingleClientFromOperationId or SingleClientFromPathSegments"`
	OperationNameTemplate  string    `json:"operation_name_template,omitempty"  jsonschema:"Method name template; {operationName} is replaced by the generated name"`
	InterfaceName          string    `json:"interface_name,omitempty"           jsonschema:"Fixed interface name instead of the document title"`
	MultipleInterfaces     string    `json:"multiple_interfaces,omitempty"      jsonschema:"ByEndpoint or ByTag"`
	Internal               bool      `json:"internal,omitempty"                 jsonschema:"Generate internal types"`
	NoXMLDocComments       bool      `json:"no_xml_doc_comments,omitempty"      jsonschema:"Skip XML documentation comments"`
	SplitContracts         bool      `json:"split_contracts,omitempty"          jsonschema:"Write contracts to a separate file"`
	DependencyInjection    bool      `json:"dependency_injection,omitempty"     jsonschema:"Generate IServiceCollection registration"`
	SkipValidation         bool      `json:"skip_validation,omitempty"          jsonschema:"Generate without validating the document first"`
}

func (in generateInput) args(source string) settings.CLIArgs {
	return settings.CLIArgs{
		OpenAPIPath:            source,
		Namespace:              in.Namespace,
		OutputPath:             in.OutputPath,
		ContractsOutputPath:    in.ContractsOutputPath,
		InterfaceOnly:          in.InterfaceOnly,
		UseAPIResponse:         in.UseAPIResponse,
		UseObservableResponse:  in.UseObservableResponse,
		CancellationTokens:     in.CancellationTokens,
		MatchPaths:             in.MatchPaths,
		Tags:                   in.Tags,
		TrimUnusedSchema:       in.TrimUnusedSchema,
		KeepSchemas:            in.KeepSchemas,
		OperationNameTemplate:  in.OperationNameTemplate,
		OperationNameGenerator: in.OperationNameGenerator,
		InterfaceName:          in.InterfaceName,
		NoXMLDocComments:       in.NoXMLDocComments,
		Internal:               in.Internal,
		MultipleInterfaces:     in.MultipleInterfaces,
		SplitContracts:         in.SplitContracts,
		DependencyInjection:    in.DependencyInjection,
	}
}

type generatedFile struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

type generateOutput struct {
	Success        bool            `json:"success"`
	Namespace      string          `json:"namespace"`
	Files          []generatedFile `json:"files"`
	DurationMS     int64           `json:"duration_ms"`
	InterfaceCount int             `json:"interface_count"`
	ContractCount  int             `json:"contract_count"`
	WarningCount   int             `json:"warning_count"`
}

var (
	interfacePattern = regexp.MustCompile(`(?m)^\s*(?:public|internal) partial interface `)
	contractPattern  = regexp.MustCompile(`(?m)^\s*(?:public|internal) (?:partial class|enum) `)
)

// countingWriter tallies generated declarations as files are written.
type countingWriter struct {
	next       pipeline.Writer
	interfaces int
	contracts  int
}

func (w *countingWriter) WriteFile(path string, data []byte) error {
	if err := w.next.WriteFile(path, data); err != nil {
		return err
	}
	w.interfaces += len(interfacePattern.FindAllIndex(data, -1))
	w.contracts += len(contractPattern.FindAllIndex(data, -1))
	return nil
}

// warningCounter is a report.Sink that keeps the validation warning count.
type warningCounter struct {
	report.Sink
	warnings int
}

func (c *warningCounter) Validated(vr *spec.ValidationResult) {
	if vr != nil {
		c.warnings = len(vr.Diagnostics.Warnings)
	}
}

func (t *tools) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if strings.TrimSpace(input.OutputPath) == "" {
		return errResult(fmt.Errorf("output_path is required")), generateOutput{}, nil
	}

	loader, err := newLoader(t.logger, cfg.ValidateStrict)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}
	writer := &countingWriter{next: pipeline.AtomicWriter}
	sink := &warningCounter{Sink: report.Discard}
	runner, err := pipeline.New(
		pipeline.WithLoader(loader),
		pipeline.WithLogger(t.logger),
		pipeline.WithWriter(writer),
		pipeline.WithSink(sink),
	)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	var outcome *pipeline.Outcome
	err = withSource(input.Spec, func(path string) error {
		var err error
		outcome, err = runner.Run(ctx, pipeline.Request{
			Args:           input.args(path),
			SkipValidation: input.SkipValidation,
		})
		return err
	})
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:        true,
		Namespace:      outcome.Settings.Namespace,
		Files:          []generatedFile{{Path: outcome.OutputPath, Size: outcome.Size}},
		DurationMS:     outcome.Duration.Round(time.Millisecond).Milliseconds(),
		InterfaceCount: writer.interfaces,
		ContractCount:  writer.contracts,
		WarningCount:   sink.warnings,
	}
	if outcome.ContractsPath != "" {
		output.Files = append(output.Files, generatedFile{Path: outcome.ContractsPath, Size: outcome.ContractsSize})
	}
	return nil, output, nil
}
