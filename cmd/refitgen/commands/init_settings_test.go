package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
)

func TestInitSettings(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "petstore.refitter")

	res := execute(t, "init-settings", "openapi.json", "-n", "Acme", "--cancellation-tokens", "--tag", "pets", "-f", file)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Settings written to "+file)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	s, err := settings.Decode(data, settings.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "openapi.json", s.OpenAPIPath)
	assert.Equal(t, "Acme", s.Namespace)
	assert.True(t, s.UseCancellationTokens)
	assert.Equal(t, []string{"pets"}, s.Filters.IncludeTags)

	res = execute(t, "init-settings", "openapi.json", "-f", file)
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = execute(t, "init-settings", "openapi.json", "-n", "Other", "-f", file, "--force")
	require.Equal(t, 0, res.code, res.stderr)
	data, err = os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"namespace": "Other"`)
}

func TestWriteSettingsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	args := settings.CLIArgs{OpenAPIPath: "openapi.yaml", MultipleInterfaces: "ByTag"}

	require.NoError(t, writeSettings(args, path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "multipleInterfaces: ByTag")

	s, err := settings.Decode(data, settings.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, settings.ByTag, s.MultipleInterfaces)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteSettingsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		args    settings.CLIArgs
		path    string
		wantErr error
	}{
		{
			name:    "conflicting return styles",
			args:    settings.CLIArgs{OpenAPIPath: "a.json", UseAPIResponse: true, UseObservableResponse: true},
			path:    filepath.Join(dir, "a.json"),
			wantErr: rgerrors.ErrConfiguration,
		},
		{
			name:    "bad pattern",
			args:    settings.CLIArgs{OpenAPIPath: "a.json", MatchPaths: []string{"("}},
			path:    filepath.Join(dir, "b.json"),
			wantErr: rgerrors.ErrConfiguration,
		},
		{
			name:    "missing directory",
			args:    settings.CLIArgs{OpenAPIPath: "a.json"},
			path:    filepath.Join(dir, "file", "c.json"),
			wantErr: rgerrors.ErrWrite,
		},
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), nil, 0o600))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeSettings(tt.args, tt.path, false)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoFileExists(t, tt.path)
		})
	}
}
