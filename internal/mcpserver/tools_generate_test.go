package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/refitgen/internal/testutil"
)

func TestGenerateTool_Content(t *testing.T) {
	out := filepath.Join(t.TempDir(), "client", "Petstore.cs")
	input := generateInput{
		Spec:       specInput{Content: string(testutil.Fixture(t, testutil.Petstore))},
		OutputPath: out,
		Namespace:  "Acme.Petstore",
	}

	res, output, err := newTestTools().handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)

	assert.True(t, output.Success)
	assert.Equal(t, "Acme.Petstore", output.Namespace)
	require.Len(t, output.Files, 1)
	assert.Equal(t, out, output.Files[0].Path)
	assert.Equal(t, 1, output.InterfaceCount)
	assert.Equal(t, 1, output.ContractCount)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, data, output.Files[0].Size)
	assert.Contains(t, string(data), "namespace Acme.Petstore")
}

func TestGenerateTool_SplitContracts(t *testing.T) {
	dir := t.TempDir()
	input := generateInput{
		Spec:                specInput{File: testutil.WriteFixture(t, dir, testutil.Store)},
		OutputPath:          filepath.Join(dir, "Api.cs"),
		ContractsOutputPath: filepath.Join(dir, "Models.cs"),
		SplitContracts:      true,
		MultipleInterfaces:  "ByTag",
		SkipValidation:      true,
	}

	res, output, err := newTestTools().handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, res)

	require.Len(t, output.Files, 2)
	assert.Equal(t, filepath.Join(dir, "Models.cs"), output.Files[1].Path)
	assert.Greater(t, output.InterfaceCount, 1)
	assert.Positive(t, output.ContractCount)

	api, err := os.ReadFile(filepath.Join(dir, "Api.cs"))
	require.NoError(t, err)
	assert.NotContains(t, string(api), "partial class")
}

func TestGenerateTool_InterfaceOnly(t *testing.T) {
	input := generateInput{
		Spec:          specInput{Content: string(testutil.Fixture(t, testutil.Petstore))},
		OutputPath:    filepath.Join(t.TempDir(), "Api.cs"),
		InterfaceOnly: true,
	}
	_, output, err := newTestTools().handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, 1, output.InterfaceCount)
	assert.Zero(t, output.ContractCount)
}

func TestGenerateTool_Errors(t *testing.T) {
	petstore := string(testutil.Fixture(t, testutil.Petstore))
	tests := []struct {
		name     string
		input    generateInput
		wantText string
	}{
		{
			name:     "missing output path",
			input:    generateInput{Spec: specInput{Content: petstore}},
			wantText: "output_path is required",
		},
		{
			name:     "no spec",
			input:    generateInput{OutputPath: "Api.cs"},
			wantText: "exactly one",
		},
		{
			name: "invalid document",
			input: generateInput{
				Spec:       specInput{Content: string(testutil.Fixture(t, testutil.Invalid))},
				OutputPath: filepath.Join(t.TempDir(), "Api.cs"),
			},
			wantText: "DocumentValidationError",
		},
		{
			name: "conflicting return styles",
			input: generateInput{
				Spec:                  specInput{Content: petstore},
				OutputPath:            filepath.Join(t.TempDir(), "Api.cs"),
				UseAPIResponse:        true,
				UseObservableResponse: true,
			},
			wantText: "ConfigurationError",
		},
		{
			name: "unknown name generator",
			input: generateInput{
				Spec:                   specInput{Content: petstore},
				OutputPath:             filepath.Join(t.TempDir(), "Api.cs"),
				OperationNameGenerator: "Nope",
			},
			wantText: "ConfigurationError",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _, err := newTestTools().handleGenerate(context.Background(), &mcp.CallToolRequest{}, tt.input)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.True(t, res.IsError)
			text := res.Content[0].(*mcp.TextContent).Text
			assert.Contains(t, text, tt.wantText)
			assert.NotContains(t, text, "/tmp/")
		})
	}
}
