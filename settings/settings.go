// Package settings holds the generation configuration model for refitgen.
//
// A Settings value describes everything a single generation run needs:
// where the OpenAPI document lives, how the emitted C# is named, which
// operations and schemas are included, and which optional artifacts are
// produced. Settings are built either from command-line arguments mapped
// onto Default, or from a persisted settings document (JSON or YAML).
//
// # Resolution
//
//	s, err := settings.Resolve(args, persisted, settings.FormatJSON)
//	if err != nil {
//		// err is a *rgerrors.ConfigurationError
//	}
//
// A persisted document replaces every field except OpenAPIPath, which always
// comes from the invocation.
package settings

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erraggy/refitgen/rgerrors"
)

const (
	// DefaultNamespace is used when no namespace is configured.
	DefaultNamespace = "GeneratedCode"
	// DefaultOutputFolder is the sentinel output folder. Paths are only
	// prefixed with a folder that differs from it.
	DefaultOutputFolder = "./Generated"
	// DefaultOutputFilename is used when no output file name is configured.
	DefaultOutputFilename = "Output.cs"
	// DefaultInterfaceName is the fixed interface name used when the
	// document title is not used.
	DefaultInterfaceName = "ApiClient"
	// OperationNamePlaceholder must appear in an operation name template.
	OperationNamePlaceholder = "{operationName}"
)

// ReturnStyle selects the return type shape of generated operations.
type ReturnStyle string

const (
	// PlainResult returns Task<T>.
	PlainResult ReturnStyle = "PlainResult"
	// WrappedResponse returns Task<IApiResponse<T>>.
	WrappedResponse ReturnStyle = "WrappedResponse"
	// ReactiveStream returns IObservable<T>.
	ReactiveStream ReturnStyle = "ReactiveStream"
)

// TypeAccessibility is the C# access modifier of generated types.
type TypeAccessibility string

const (
	Public   TypeAccessibility = "Public"
	Internal TypeAccessibility = "Internal"
)

// MultipleInterfaces selects how operations are grouped into interfaces.
type MultipleInterfaces string

const (
	// Unset emits a single interface.
	Unset MultipleInterfaces = "Unset"
	// ByEndpoint emits one interface per operation.
	ByEndpoint MultipleInterfaces = "ByEndpoint"
	// ByTag emits one interface per first operation tag.
	ByTag MultipleInterfaces = "ByTag"
)

// NamingGenerator is the closed set of operation naming strategies.
type NamingGenerator string

const (
	// NamingDefault uses the operation ID and falls back to verb and path.
	NamingDefault NamingGenerator = "Default"
	// NamingOperationID always uses the operation ID as is.
	NamingOperationID NamingGenerator = "OperationId"
	// NamingMethodAndPath always uses the verb followed by the path.
	NamingMethodAndPath NamingGenerator = "MethodAndPath"
	// NamingSingleClientFromOperationID uses the last segment of a
	// dotted or underscored operation ID.
	NamingSingleClientFromOperationID NamingGenerator = "SingleClientFromOperationId"
	// NamingSingleClientFromPathSegments derives the name from the path
	// segments followed by the verb.
	NamingSingleClientFromPathSegments NamingGenerator = "SingleClientFromPathSegments"
)

// NamingGenerators lists every supported naming strategy.
var NamingGenerators = []NamingGenerator{
	NamingDefault,
	NamingOperationID,
	NamingMethodAndPath,
	NamingSingleClientFromOperationID,
	NamingSingleClientFromPathSegments,
}

// ParseNamingGenerator resolves a strategy name case-insensitively.
// An empty name resolves to NamingDefault.
func ParseNamingGenerator(name string) (NamingGenerator, error) {
	if strings.TrimSpace(name) == "" {
		return NamingDefault, nil
	}
	for _, g := range NamingGenerators {
		if strings.EqualFold(string(g), name) {
			return g, nil
		}
	}
	return "", rgerrors.Configuration("naming.operationNameGenerator",
		fmt.Sprintf("unknown operation name generator %q", name), nil)
}

// NamingPolicy controls interface and operation names.
type NamingPolicy struct {
	UseOpenAPITitle        bool            `json:"useOpenApiTitle" yaml:"useOpenApiTitle"`
	InterfaceName          string          `json:"interfaceName" yaml:"interfaceName" validate:"required_if=UseOpenAPITitle false"`
	OperationNameTemplate  string          `json:"operationNameTemplate,omitempty" yaml:"operationNameTemplate,omitempty"`
	OperationNameGenerator NamingGenerator `json:"operationNameGenerator" yaml:"operationNameGenerator" validate:"omitempty,oneof=Default OperationId MethodAndPath SingleClientFromOperationId SingleClientFromPathSegments"`
}

// Filters select which operations and schemas are emitted.
type Filters struct {
	IncludePathMatches []string `json:"includePathMatches,omitempty" yaml:"includePathMatches,omitempty"`
	IncludeTags        []string `json:"includeTags,omitempty" yaml:"includeTags,omitempty"`
	ExcludeNamespaces  []string `json:"excludeNamespaces,omitempty" yaml:"excludeNamespaces,omitempty"`
	TrimUnusedSchema   bool     `json:"trimUnusedSchema" yaml:"trimUnusedSchema"`
	KeepSchemaPatterns []string `json:"keepSchemaPatterns,omitempty" yaml:"keepSchemaPatterns,omitempty"`
}

// DocumentationFlags toggle generated comments and headers.
type DocumentationFlags struct {
	AddAutoGeneratedHeader       bool `json:"addAutoGeneratedHeader" yaml:"addAutoGeneratedHeader"`
	AddAcceptHeaders             bool `json:"addAcceptHeaders" yaml:"addAcceptHeaders"`
	GenerateXMLDocCodeComments   bool `json:"generateXmlDocCodeComments" yaml:"generateXmlDocCodeComments"`
	GenerateOperationHeaders     bool `json:"generateOperationHeaders" yaml:"generateOperationHeaders"`
	GenerateDeprecatedOperations bool `json:"generateDeprecatedOperations" yaml:"generateDeprecatedOperations"`
}

// Settings is the complete configuration of one generation run.
type Settings struct {
	OpenAPIPath                         string             `json:"openApiPath" yaml:"openApiPath" validate:"required"`
	Namespace                           string             `json:"namespace" yaml:"namespace" validate:"required"`
	OutputFolder                        string             `json:"outputFolder" yaml:"outputFolder"`
	OutputFilename                      string             `json:"outputFilename,omitempty" yaml:"outputFilename,omitempty"`
	ContractsOutputFilename             string             `json:"contractsOutputFile,omitempty" yaml:"contractsOutputFile,omitempty"`
	GenerateContracts                   bool               `json:"generateContracts" yaml:"generateContracts"`
	GenerateInterface                   bool               `json:"generateInterface" yaml:"generateInterface"`
	GenerateDependencyInjection         bool               `json:"generateDependencyInjection" yaml:"generateDependencyInjection"`
	SplitContracts                      bool               `json:"splitContracts" yaml:"splitContracts"`
	Naming                              NamingPolicy       `json:"naming" yaml:"naming"`
	Filters                             Filters            `json:"filters" yaml:"filters"`
	Docs                                DocumentationFlags `json:"documentation" yaml:"documentation"`
	ReturnStyle                         ReturnStyle        `json:"returnStyle" yaml:"returnStyle" validate:"oneof=PlainResult WrappedResponse ReactiveStream"`
	UseCancellationTokens               bool               `json:"useCancellationTokens" yaml:"useCancellationTokens"`
	TypeAccessibility                   TypeAccessibility  `json:"typeAccessibility" yaml:"typeAccessibility" validate:"oneof=Public Internal"`
	AdditionalNamespaces                []string           `json:"additionalNamespaces,omitempty" yaml:"additionalNamespaces,omitempty" validate:"dive,required"`
	GenerateDefaultAdditionalProperties bool               `json:"generateDefaultAdditionalProperties" yaml:"generateDefaultAdditionalProperties"`
	MultipleInterfaces                  MultipleInterfaces `json:"multipleInterfaces" yaml:"multipleInterfaces" validate:"oneof=Unset ByEndpoint ByTag"`
	OptionalParameters                  bool               `json:"optionalParameters" yaml:"optionalParameters"`
	UseISODateFormat                    bool               `json:"useIsoDateFormat" yaml:"useIsoDateFormat"`
}

// Default returns the settings used when nothing is configured.
// OpenAPIPath is left empty.
func Default() Settings {
	return Settings{
		Namespace:         DefaultNamespace,
		OutputFolder:      DefaultOutputFolder,
		GenerateContracts: true,
		GenerateInterface: true,
		Naming: NamingPolicy{
			UseOpenAPITitle:        true,
			InterfaceName:          DefaultInterfaceName,
			OperationNameGenerator: NamingDefault,
		},
		Docs: DocumentationFlags{
			AddAutoGeneratedHeader:       true,
			AddAcceptHeaders:             true,
			GenerateXMLDocCodeComments:   true,
			GenerateOperationHeaders:     true,
			GenerateDeprecatedOperations: true,
		},
		ReturnStyle:                         PlainResult,
		TypeAccessibility:                   Public,
		GenerateDefaultAdditionalProperties: true,
		MultipleInterfaces:                  Unset,
	}
}

// ContractsOnly derives the settings of the contracts pass in split mode.
func (s Settings) ContractsOnly() Settings {
	c := s.Clone()
	c.GenerateContracts = true
	c.GenerateInterface = false
	c.GenerateDependencyInjection = false
	return c
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	c := s
	c.AdditionalNamespaces = cloneStrings(s.AdditionalNamespaces)
	c.Filters.IncludePathMatches = cloneStrings(s.Filters.IncludePathMatches)
	c.Filters.IncludeTags = cloneStrings(s.Filters.IncludeTags)
	c.Filters.ExcludeNamespaces = cloneStrings(s.Filters.ExcludeNamespaces)
	c.Filters.KeepSchemaPatterns = cloneStrings(s.Filters.KeepSchemaPatterns)
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks s for structural problems: missing required values,
// unknown enum values, malformed regular expressions and operation name
// templates without the placeholder. The first problem found is returned
// as a *rgerrors.ConfigurationError.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Settings.")
			return rgerrors.Configuration(field, describeFieldError(fe), nil)
		}
		return rgerrors.Configuration("", "invalid settings", err)
	}

	if tmpl := s.Naming.OperationNameTemplate; tmpl != "" && !strings.Contains(tmpl, OperationNamePlaceholder) {
		return rgerrors.Configuration("naming.operationNameTemplate",
			fmt.Sprintf("template %q must contain %s", tmpl, OperationNamePlaceholder), nil)
	}

	patterns := []struct {
		field string
		exprs []string
	}{
		{"filters.includePathMatches", s.Filters.IncludePathMatches},
		{"filters.excludeNamespaces", s.Filters.ExcludeNamespaces},
		{"filters.keepSchemaPatterns", s.Filters.KeepSchemaPatterns},
	}
	for _, p := range patterns {
		for _, expr := range p.exprs {
			if _, err := regexp.Compile(expr); err != nil {
				return rgerrors.Configuration(p.field, fmt.Sprintf("invalid regular expression %q", expr), err)
			}
		}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "value is required"
	case "oneof":
		return fmt.Sprintf("%q is not one of [%s]", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
