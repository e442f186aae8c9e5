package settings

import (
	"strings"

	"github.com/erraggy/refitgen/rgerrors"
)

// CLIArgs are the raw command-line arguments of a generation run.
type CLIArgs struct {
	OpenAPIPath string
	Namespace   string
	// OutputPath is the explicit output path. DefaultOutputFilename and
	// blank both mean "not given".
	OutputPath          string
	OutputFolder        string
	ContractsOutputPath string

	InterfaceOnly         bool
	UseAPIResponse        bool
	UseObservableResponse bool
	CancellationTokens    bool

	MatchPaths        []string
	Tags              []string
	ExcludeNamespaces []string
	TrimUnusedSchema  bool
	KeepSchemas       []string

	OperationNameTemplate  string
	OperationNameGenerator string
	InterfaceName          string

	NoAutoGeneratedHeader  bool
	NoAcceptHeaders        bool
	NoXMLDocComments       bool
	NoOperationHeaders     bool
	NoDeprecatedOperations bool

	Internal                        bool
	AdditionalNamespaces            []string
	MultipleInterfaces              string
	OptionalNullableParameters      bool
	UseISODateFormat                bool
	SkipDefaultAdditionalProperties bool
	SplitContracts                  bool
	DependencyInjection             bool
}

// HasExplicitOutput reports whether an output path was given on the command
// line.
func (a CLIArgs) HasExplicitOutput() bool {
	return IsExplicitPath(a.OutputPath)
}

// IsExplicitPath reports whether p is a user-chosen output path rather than
// blank or the default file name sentinel.
func IsExplicitPath(p string) bool {
	return strings.TrimSpace(p) != "" && p != DefaultOutputFilename
}

// FromArgs maps command-line arguments onto Default.
func FromArgs(a CLIArgs) (Settings, error) {
	s := Default()
	s.OpenAPIPath = a.OpenAPIPath
	if ns := strings.TrimSpace(a.Namespace); ns != "" {
		s.Namespace = ns
	}
	if a.HasExplicitOutput() {
		s.OutputFilename = a.OutputPath
	}
	if strings.TrimSpace(a.OutputFolder) != "" {
		s.OutputFolder = a.OutputFolder
	}
	s.ContractsOutputFilename = strings.TrimSpace(a.ContractsOutputPath)

	s.GenerateContracts = !a.InterfaceOnly
	s.GenerateDependencyInjection = a.DependencyInjection
	s.SplitContracts = a.SplitContracts

	switch {
	case a.UseAPIResponse && a.UseObservableResponse:
		return Settings{}, rgerrors.Configuration("returnStyle",
			"--use-api-response and --use-observable-response are mutually exclusive", nil)
	case a.UseAPIResponse:
		s.ReturnStyle = WrappedResponse
	case a.UseObservableResponse:
		s.ReturnStyle = ReactiveStream
	}
	s.UseCancellationTokens = a.CancellationTokens

	s.Filters = Filters{
		IncludePathMatches: cloneStrings(a.MatchPaths),
		IncludeTags:        cloneStrings(a.Tags),
		ExcludeNamespaces:  cloneStrings(a.ExcludeNamespaces),
		TrimUnusedSchema:   a.TrimUnusedSchema,
		KeepSchemaPatterns: cloneStrings(a.KeepSchemas),
	}

	gen, err := ParseNamingGenerator(a.OperationNameGenerator)
	if err != nil {
		return Settings{}, err
	}
	s.Naming.OperationNameGenerator = gen
	s.Naming.OperationNameTemplate = a.OperationNameTemplate
	if name := strings.TrimSpace(a.InterfaceName); name != "" {
		s.Naming.InterfaceName = name
		s.Naming.UseOpenAPITitle = false
	}

	s.Docs = DocumentationFlags{
		AddAutoGeneratedHeader:       !a.NoAutoGeneratedHeader,
		AddAcceptHeaders:             !a.NoAcceptHeaders,
		GenerateXMLDocCodeComments:   !a.NoXMLDocComments,
		GenerateOperationHeaders:     !a.NoOperationHeaders,
		GenerateDeprecatedOperations: !a.NoDeprecatedOperations,
	}

	if a.Internal {
		s.TypeAccessibility = Internal
	}
	s.AdditionalNamespaces = cloneStrings(a.AdditionalNamespaces)

	if mi := strings.TrimSpace(a.MultipleInterfaces); mi != "" {
		switch {
		case strings.EqualFold(mi, string(ByEndpoint)):
			s.MultipleInterfaces = ByEndpoint
		case strings.EqualFold(mi, string(ByTag)):
			s.MultipleInterfaces = ByTag
		case strings.EqualFold(mi, string(Unset)):
			s.MultipleInterfaces = Unset
		default:
			return Settings{}, rgerrors.Configuration("multipleInterfaces",
				"must be one of ByEndpoint, ByTag", nil)
		}
	}
	s.OptionalParameters = a.OptionalNullableParameters
	s.UseISODateFormat = a.UseISODateFormat
	s.GenerateDefaultAdditionalProperties = !a.SkipDefaultAdditionalProperties
	return s, nil
}

// Resolve builds the effective settings of a run. When persisted is nil the
// command-line arguments are mapped onto Default; otherwise the persisted
// document (in the given format) replaces every field. The document path is
// the exception: a path given in args always wins, and the persisted
// openApiPath is used only when args has none. The result is validated.
//
// Every error returned is a *rgerrors.ConfigurationError.
func Resolve(args CLIArgs, persisted []byte, format Format) (Settings, error) {
	var (
		s   Settings
		err error
	)
	if persisted != nil {
		s, err = Decode(persisted, format)
		if err != nil {
			return Settings{}, rgerrors.Configuration("", "malformed settings document", err)
		}
		if strings.TrimSpace(args.OpenAPIPath) != "" {
			s.OpenAPIPath = args.OpenAPIPath
		}
	} else {
		s, err = FromArgs(args)
		if err != nil {
			return Settings{}, err
		}
	}

	if strings.TrimSpace(s.OpenAPIPath) == "" {
		return Settings{}, rgerrors.Configuration("openApiPath", "an OpenAPI document path or URL is required", nil)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
