package spec

import (
	"fmt"
	"strings"
	"time"

	"github.com/erraggy/oastools/validator"
)

// Issue is a single validation diagnostic.
type Issue struct {
	Path     string
	Message  string
	Severity string
	Line     int
	Column   int
	SpecRef  string
}

// String renders the issue the way it is shown to users.
func (i Issue) String() string {
	var b strings.Builder
	if i.Path != "" {
		b.WriteString(i.Path)
		if i.Line > 0 {
			fmt.Fprintf(&b, " (line %d, column %d)", i.Line, i.Column)
		}
		b.WriteString(": ")
	}
	b.WriteString(i.Message)
	if i.SpecRef != "" {
		b.WriteString("\n  Spec: ")
		b.WriteString(i.SpecRef)
	}
	return b.String()
}

func issueFrom(e validator.ValidationError) Issue {
	return Issue{
		Path:     e.Path,
		Message:  e.Message,
		Severity: e.Severity.String(),
		Line:     e.Line,
		Column:   e.Column,
		SpecRef:  e.SpecRef,
	}
}

// Diagnostics groups validation issues by severity.
type Diagnostics struct {
	Errors   []Issue
	Warnings []Issue
}

// Statistics summarises a document's contents.
type Statistics struct {
	Version       string
	Paths         int
	Operations    int
	Parameters    int
	RequestBodies int
	Responses     int
	Schemas       int
	SourceSize    int64
	LoadTime      time.Duration
}

// String renders a multi-line human summary.
func (s Statistics) String() string {
	var b strings.Builder
	if s.Version != "" {
		fmt.Fprintf(&b, "OpenAPI Version: %s\n", s.Version)
	}
	fmt.Fprintf(&b, "Path Items: %d\n", s.Paths)
	fmt.Fprintf(&b, "Operations: %d\n", s.Operations)
	fmt.Fprintf(&b, "Parameters: %d\n", s.Parameters)
	fmt.Fprintf(&b, "Request Bodies: %d\n", s.RequestBodies)
	fmt.Fprintf(&b, "Responses: %d\n", s.Responses)
	fmt.Fprintf(&b, "Schemas: %d", s.Schemas)
	return b.String()
}

// ValidationResult is the outcome of validating one document. It is created
// per call and never persisted.
type ValidationResult struct {
	Valid       bool
	Diagnostics Diagnostics
	Statistics  Statistics
}
