// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes refitgen generation and validation as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/refitgen"
	"github.com/erraggy/refitgen/rgerrors"
)

const serverInstructions = `refitgen MCP server: generates C# Refit clients from OpenAPI 2.0/3.x documents and validates documents.

Every tool call is an independent run. Provide the document as exactly one of spec.file, spec.url, or spec.content.

Configuration via environment variables:
- REFITGEN_MAX_INLINE_SIZE (default: 10485760) - maximum spec.content size in bytes
- REFITGEN_FETCH_TIMEOUT (default: 30s) - timeout for spec.url fetches
- REFITGEN_ALLOW_PRIVATE_IPS (default: false) - allow spec.url to reach private hosts
- REFITGEN_VALIDATE_STRICT (default: false) - strict validation by default
- REFITGEN_ISSUE_LIMIT (default: 100) - default page size of validation issues`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context, logger *slog.Logger) error {
	return newServer(logger).Run(ctx, &mcp.StdioTransport{})
}

func newServer(logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "refitgen", Version: refitgen.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server, &tools{logger: logger})
	return server
}

// tools holds what the tool handlers share.
type tools struct {
	logger *slog.Logger
}

func registerAllTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate a C# Refit client from an OpenAPI document and write it to output_path. Settings mirror the refitgen command-line flags. With split_contracts the data contracts go to contracts_output_path (default Contracts.cs next to the working directory). Returns a manifest of written files, their sizes, the duration and the number of generated interfaces and contracts.",
	}, t.handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate an OpenAPI document. Returns validity, errors and warnings with JSON path locations, and document statistics. Use offset/limit to paginate through issues.",
	}, t.handleValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.IssueLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.IssueLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths in error messages.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

// sanitizeError strips absolute filesystem paths from error messages.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error. Classified errors
// are prefixed with their kind.
func errResult(err error) *mcp.CallToolResult {
	msg := sanitizeError(err)
	if kind := rgerrors.KindOf(err); kind != rgerrors.KindUnknown {
		msg = fmt.Sprintf("%s: %s", kind, msg)
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
