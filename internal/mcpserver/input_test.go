package mcpserver

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestTools() *tools {
	return &tools{logger: discard}
}

func TestSpecInputCheck(t *testing.T) {
	tests := []struct {
		name    string
		input   specInput
		wantErr string
	}{
		{name: "none", input: specInput{}, wantErr: "exactly one"},
		{name: "two", input: specInput{File: "a.yaml", Content: "openapi: 3.0.0"}, wantErr: "got 2"},
		{name: "file", input: specInput{File: "a.yaml"}},
		{name: "url", input: specInput{URL: "https://example.com/openapi.json"}},
		{name: "non-http url", input: specInput{URL: "file:///etc/passwd"}, wantErr: "http or https"},
		{name: "content", input: specInput{Content: "openapi: 3.0.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.check()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSpecInputContentTooLarge(t *testing.T) {
	saved := cfg.MaxInlineSize
	cfg.MaxInlineSize = 8
	t.Cleanup(func() { cfg.MaxInlineSize = saved })

	err := specInput{Content: strings.Repeat("x", 9)}.check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestSpecInputSource(t *testing.T) {
	dir := t.TempDir()

	path, err := specInput{File: "api.yaml"}.source(dir)
	require.NoError(t, err)
	assert.Equal(t, "api.yaml", path)

	path, err = specInput{Content: `{"openapi": "3.0.3"}`}.source(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "openapi.json"), path)

	path, err = specInput{Content: "openapi: 3.0.3\n"}.source(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "openapi.yaml"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "openapi: 3.0.3\n", string(data))
}

func TestWithSourceRemovesStagedContent(t *testing.T) {
	var staged string
	err := withSource(specInput{Content: "openapi: 3.0.3\n"}, func(path string) error {
		staged = path
		_, err := os.Stat(path)
		return err
	})
	require.NoError(t, err)
	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err))
}
