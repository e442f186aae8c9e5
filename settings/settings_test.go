package settings

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/refitgen/rgerrors"
)

func fullSettings() Settings {
	s := Default()
	s.OpenAPIPath = "https://petstore3.swagger.io/api/v3/openapi.json"
	s.Namespace = "Petstore.Client"
	s.OutputFolder = "./src/Clients"
	s.OutputFilename = "Petstore.cs"
	s.ContractsOutputFilename = "Contracts.cs"
	s.GenerateDependencyInjection = true
	s.SplitContracts = true
	s.Naming = NamingPolicy{
		UseOpenAPITitle:        false,
		InterfaceName:          "PetstoreClient",
		OperationNameTemplate:  "{operationName}Call",
		OperationNameGenerator: NamingMethodAndPath,
	}
	s.Filters = Filters{
		IncludePathMatches: []string{"^/pet"},
		IncludeTags:        []string{"pet", "store"},
		ExcludeNamespaces:  []string{"^System\\.Threading$"},
		TrimUnusedSchema:   true,
		KeepSchemaPatterns: []string{"^Error$"},
	}
	s.Docs.AddAcceptHeaders = false
	s.Docs.GenerateDeprecatedOperations = false
	s.ReturnStyle = WrappedResponse
	s.UseCancellationTokens = true
	s.TypeAccessibility = Internal
	s.AdditionalNamespaces = []string{"Petstore.Models", "Polly"}
	s.GenerateDefaultAdditionalProperties = false
	s.MultipleInterfaces = ByTag
	s.OptionalParameters = true
	s.UseISODateFormat = true
	return s
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(format.String(), func(t *testing.T) {
			for name, want := range map[string]Settings{
				"default": func() Settings { s := Default(); s.OpenAPIPath = "api.yaml"; return s }(),
				"full":    fullSettings(),
			} {
				data, err := Encode(want, format)
				require.NoError(t, err, name)

				got, err := Decode(data, format)
				require.NoError(t, err, name)

				if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("%s: round trip mismatch (-want +got):\n%s", name, diff)
				}
			}
		})
	}
}

func TestDecodeKeepsDefaultsForMissingKeys(t *testing.T) {
	got, err := Decode([]byte(`{"namespace": "Only.Namespace"}`), FormatJSON)
	require.NoError(t, err)

	want := Default()
	want.Namespace = "Only.Namespace"
	assert.Equal(t, want, got)

	got, err = Decode([]byte("generateContracts: false\nnaming:\n  useOpenApiTitle: false\n  interfaceName: Foo\n"), FormatYAML)
	require.NoError(t, err)
	assert.False(t, got.GenerateContracts)
	assert.True(t, got.GenerateInterface)
	assert.Equal(t, "Foo", got.Naming.InterfaceName)
	assert.Equal(t, NamingDefault, got.Naming.OperationNameGenerator)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("petstore.refitter"))
	assert.Equal(t, FormatJSON, FormatFromPath("settings.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("settings.YAML"))
	assert.Equal(t, FormatYAML, FormatFromPath("settings.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("noext"))
}

func TestContractsOnly(t *testing.T) {
	s := fullSettings()
	s.GenerateContracts = false
	c := s.ContractsOnly()

	assert.True(t, c.GenerateContracts)
	assert.False(t, c.GenerateInterface)
	assert.False(t, c.GenerateDependencyInjection)
	assert.Equal(t, s.Namespace, c.Namespace)

	// derived settings must not alias the original slices
	c.Filters.IncludeTags[0] = "mutated"
	assert.Equal(t, "pet", s.Filters.IncludeTags[0])
	assert.False(t, s.GenerateContracts, "original settings must be unchanged")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		field  string
	}{
		{"missing path", func(s *Settings) { s.OpenAPIPath = "" }, "openApiPath"},
		{"missing namespace", func(s *Settings) { s.Namespace = "" }, "namespace"},
		{"bad return style", func(s *Settings) { s.ReturnStyle = "Sometimes" }, "returnStyle"},
		{"bad accessibility", func(s *Settings) { s.TypeAccessibility = "Protected" }, "typeAccessibility"},
		{"bad generator", func(s *Settings) { s.Naming.OperationNameGenerator = "Random" }, "naming.operationNameGenerator"},
		{"missing interface name", func(s *Settings) {
			s.Naming.UseOpenAPITitle = false
			s.Naming.InterfaceName = ""
		}, "naming.interfaceName"},
		{"template without placeholder", func(s *Settings) { s.Naming.OperationNameTemplate = "Call" }, "naming.operationNameTemplate"},
		{"bad path regex", func(s *Settings) { s.Filters.IncludePathMatches = []string{"(("} }, "filters.includePathMatches"},
		{"bad keep regex", func(s *Settings) { s.Filters.KeepSchemaPatterns = []string{"[a-"} }, "filters.keepSchemaPatterns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.OpenAPIPath = "api.yaml"
			tt.mutate(&s)

			err := s.Validate()
			require.Error(t, err)
			var cfgErr *rgerrors.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}

	t.Run("valid defaults", func(t *testing.T) {
		s := Default()
		s.OpenAPIPath = "api.yaml"
		assert.NoError(t, s.Validate())
	})

	t.Run("title naming with interface name is not a conflict", func(t *testing.T) {
		s := Default()
		s.OpenAPIPath = "api.yaml"
		s.Naming.UseOpenAPITitle = true
		s.Naming.InterfaceName = "Fixed"
		assert.NoError(t, s.Validate())
	})
}

func TestParseNamingGenerator(t *testing.T) {
	g, err := ParseNamingGenerator("")
	require.NoError(t, err)
	assert.Equal(t, NamingDefault, g)

	g, err = ParseNamingGenerator("methodandpath")
	require.NoError(t, err)
	assert.Equal(t, NamingMethodAndPath, g)

	_, err = ParseNamingGenerator("Alphabetical")
	assert.ErrorIs(t, err, rgerrors.ErrConfiguration)
}
