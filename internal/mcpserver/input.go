package mcpserver

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/refitgen/internal/fileutil"
	"github.com/erraggy/refitgen/spec"
)

// specInput represents the three ways an OpenAPI document can be provided
// to a tool. Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OpenAPI document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

func (s specInput) check() error {
	count := 0
	for _, v := range []string{s.File, s.URL, s.Content} {
		if v != "" {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if s.URL != "" && !spec.IsURL(s.URL) {
		return fmt.Errorf("url must use http or https: %q", s.URL)
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set REFITGEN_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	return nil
}

// source returns a path the loader can read. Inline content is written to
// a file in dir.
func (s specInput) source(dir string) (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	switch {
	case s.File != "":
		return s.File, nil
	case s.URL != "":
		return s.URL, nil
	}

	name := "openapi.yaml"
	if strings.HasPrefix(strings.TrimSpace(s.Content), "{") {
		name = "openapi.json"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(s.Content), fileutil.OwnerReadWrite); err != nil {
		return "", fmt.Errorf("staging inline content: %w", err)
	}
	return path, nil
}

// newLoader creates the loader for one tool call. Remote documents are
// fetched through the SSRF-safe client unless private hosts are allowed.
func newLoader(logger *slog.Logger, strict bool) (*spec.OASLoader, error) {
	opts := []spec.LoaderOption{
		spec.WithLogger(logger),
		spec.WithTimeout(cfg.FetchTimeout),
		spec.WithStrict(strict),
	}
	if !cfg.AllowPrivateIPs {
		opts = append(opts, spec.WithHTTPClient(newSafeHTTPClient(cfg.FetchTimeout)))
	}
	return spec.NewLoader(opts...)
}

// withSource stages s and calls fn with the loader path, removing any
// staged content afterwards.
func withSource(s specInput, fn func(path string) error) error {
	dir, err := os.MkdirTemp("", "refitgen-mcp-")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path, err := s.source(dir)
	if err != nil {
		return err
	}
	return fn(path)
}
