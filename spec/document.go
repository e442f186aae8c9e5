package spec

import (
	"sort"

	"github.com/erraggy/oastools/parser"
)

// Document is a loaded OpenAPI document. A single Document may back several
// generation passes; it is never mutated after Load returns.
type Document struct {
	result *parser.ParseResult
	source string
}

// NewDocument wraps an oastools parse result.
func NewDocument(source string, result *parser.ParseResult) *Document {
	return &Document{result: result, source: source}
}

// Source is the path or URL the document was loaded from.
func (d *Document) Source() string { return d.source }

// Result exposes the underlying parse result.
func (d *Document) Result() *parser.ParseResult { return d.result }

// Version is the declared specification version, such as "2.0" or "3.0.3".
func (d *Document) Version() string { return d.result.Version }

// OAS2 returns the Swagger 2.0 document, or nil for OpenAPI 3.x.
func (d *Document) OAS2() *parser.OAS2Document {
	doc, _ := d.result.OAS2Document()
	return doc
}

// OAS3 returns the OpenAPI 3.x document, or nil for Swagger 2.0.
func (d *Document) OAS3() *parser.OAS3Document {
	doc, _ := d.result.OAS3Document()
	return doc
}

// Title returns info.title, or "" when absent.
func (d *Document) Title() string {
	if doc := d.OAS3(); doc != nil && doc.Info != nil {
		return doc.Info.Title
	}
	if doc := d.OAS2(); doc != nil && doc.Info != nil {
		return doc.Info.Title
	}
	return ""
}

// Paths returns the document's path items.
func (d *Document) Paths() parser.Paths {
	if doc := d.OAS3(); doc != nil {
		return doc.Paths
	}
	if doc := d.OAS2(); doc != nil {
		return doc.Paths
	}
	return nil
}

// Schemas returns the named schemas: components.schemas for OpenAPI 3.x,
// definitions for Swagger 2.0.
func (d *Document) Schemas() map[string]*parser.Schema {
	if doc := d.OAS3(); doc != nil {
		if doc.Components == nil {
			return nil
		}
		return doc.Components.Schemas
	}
	if doc := d.OAS2(); doc != nil {
		return doc.Definitions
	}
	return nil
}

// Methods lists HTTP methods in the order operations are visited.
var Methods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// OperationFunc is called for every operation by EachOperation.
type OperationFunc func(path, method string, item *parser.PathItem, op *parser.Operation)

// EachOperation visits every operation in a stable order: paths sorted
// lexically, then methods in Methods order.
func (d *Document) EachOperation(fn OperationFunc) {
	paths := d.Paths()
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)

	for _, p := range keys {
		item := paths[p]
		if item == nil {
			continue
		}
		for _, m := range Methods {
			if op := operationFor(item, m); op != nil {
				fn(p, m, item, op)
			}
		}
	}
}

func operationFor(item *parser.PathItem, method string) *parser.Operation {
	switch method {
	case "get":
		return item.Get
	case "put":
		return item.Put
	case "post":
		return item.Post
	case "delete":
		return item.Delete
	case "options":
		return item.Options
	case "head":
		return item.Head
	case "patch":
		return item.Patch
	case "trace":
		return item.Trace
	}
	return nil
}

// Stats counts the document's contents.
func (d *Document) Stats() Statistics {
	s := Statistics{
		Version:    d.result.Version,
		SourceSize: d.result.SourceSize,
		LoadTime:   d.result.LoadTime,
		Paths:      len(d.Paths()),
		Schemas:    len(d.Schemas()),
	}
	d.EachOperation(func(_, _ string, item *parser.PathItem, op *parser.Operation) {
		s.Operations++
		s.Parameters += len(op.Parameters)
		if op.RequestBody != nil {
			s.RequestBodies++
		}
		for _, p := range op.Parameters {
			if p != nil && p.In == "body" {
				s.RequestBodies++
			}
		}
		if op.Responses != nil {
			s.Responses += len(op.Responses.Codes)
			if op.Responses.Default != nil {
				s.Responses++
			}
		}
	})
	for _, item := range d.Paths() {
		if item != nil {
			s.Parameters += len(item.Parameters)
		}
	}
	return s
}
