package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/refitgen/spec"
)

type validateInput struct {
	Spec   specInput `json:"spec"             jsonschema:"The OpenAPI document to validate"`
	Strict *bool     `json:"strict,omitempty" jsonschema:"Promote best-practice warnings to errors"`
	Offset int       `json:"offset,omitempty" jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit  int       `json:"limit,omitempty"  jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

type validateStats struct {
	Paths         int `json:"paths"`
	Operations    int `json:"operations"`
	Schemas       int `json:"schemas"`
	Parameters    int `json:"parameters"`
	RequestBodies int `json:"request_bodies"`
	Responses     int `json:"responses"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Version      string          `json:"version,omitempty"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
	Statistics   validateStats   `json:"statistics"`
}

func issuesFrom(in []spec.Issue) []validateIssue {
	out := makeSlice[validateIssue](len(in))
	for _, i := range in {
		out = append(out, validateIssue{Path: i.Path, Message: i.Message, Line: i.Line})
	}
	return out
}

func (t *tools) handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}

	loader, err := newLoader(t.logger, strict)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	var result *spec.ValidationResult
	err = withSource(input.Spec, func(path string) error {
		var err error
		result, err = loader.Validate(ctx, path)
		return err
	})
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	stats := result.Statistics
	output := validateOutput{
		Valid:        result.Valid,
		Version:      stats.Version,
		ErrorCount:   len(result.Diagnostics.Errors),
		WarningCount: len(result.Diagnostics.Warnings),
		Errors:       paginate(issuesFrom(result.Diagnostics.Errors), input.Offset, input.Limit),
		Warnings:     paginate(issuesFrom(result.Diagnostics.Warnings), input.Offset, input.Limit),
		Statistics: validateStats{
			Paths:         stats.Paths,
			Operations:    stats.Operations,
			Schemas:       stats.Schemas,
			Parameters:    stats.Parameters,
			RequestBodies: stats.RequestBodies,
			Responses:     stats.Responses,
		},
	}
	output.Returned = len(output.Errors) + len(output.Warnings)
	return nil, output, nil
}
