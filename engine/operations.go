package engine

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/erraggy/oastools/parser"

	"github.com/erraggy/refitgen/internal/naming"
	"github.com/erraggy/refitgen/settings"
)

// Parameter locations in emission order.
var parameterOrder = map[string]int{"path": 0, "query": 1, "header": 2, "formData": 3, "body": 4}

// mediaPreference ranks request and response media types.
var mediaPreference = []string{
	"application/json",
	"text/json",
	"application/*+json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/octet-stream",
}

func (b *builder) resolveParameter(p *parser.Parameter) (*parser.Parameter, error) {
	for seen := 0; p != nil && p.Ref != ""; seen++ {
		if seen > 16 {
			return nil, fmt.Errorf("reference cycle at %q", p.Ref)
		}
		name, err := refName(p.Ref, parameterRefOAS3, parameterRefOAS2)
		if err != nil {
			return nil, err
		}
		var target *parser.Parameter
		if doc := b.doc.OAS3(); doc != nil && doc.Components != nil {
			target = doc.Components.Parameters[name]
		}
		if doc := b.doc.OAS2(); doc != nil {
			target = doc.Parameters[name]
		}
		if target == nil {
			return nil, fmt.Errorf("unresolved reference %q", p.Ref)
		}
		p = target
	}
	return p, nil
}

func (b *builder) resolveResponse(r *parser.Response) (*parser.Response, error) {
	for seen := 0; r != nil && r.Ref != ""; seen++ {
		if seen > 16 {
			return nil, fmt.Errorf("reference cycle at %q", r.Ref)
		}
		name, err := refName(r.Ref, responseRefOAS3, responseRefOAS2)
		if err != nil {
			return nil, err
		}
		var target *parser.Response
		if doc := b.doc.OAS3(); doc != nil && doc.Components != nil {
			target = doc.Components.Responses[name]
		}
		if doc := b.doc.OAS2(); doc != nil {
			target = doc.Responses[name]
		}
		if target == nil {
			return nil, fmt.Errorf("unresolved reference %q", r.Ref)
		}
		r = target
	}
	return r, nil
}

func (b *builder) resolveRequestBody(rb *parser.RequestBody) (*parser.RequestBody, error) {
	for seen := 0; rb != nil && rb.Ref != ""; seen++ {
		if seen > 16 {
			return nil, fmt.Errorf("reference cycle at %q", rb.Ref)
		}
		name, err := refName(rb.Ref, bodyRefOAS3)
		if err != nil {
			return nil, err
		}
		var target *parser.RequestBody
		if doc := b.doc.OAS3(); doc != nil && doc.Components != nil {
			target = doc.Components.RequestBodies[name]
		}
		if target == nil {
			return nil, fmt.Errorf("unresolved reference %q", rb.Ref)
		}
		rb = target
	}
	return rb, nil
}

// mergedParameters combines path-level and operation-level parameters; an
// operation parameter replaces a path parameter with the same name and
// location.
func (b *builder) mergedParameters(o *operation) ([]*parser.Parameter, error) {
	var out []*parser.Parameter
	index := make(map[string]int)
	add := func(list []*parser.Parameter) error {
		for _, raw := range list {
			p, err := b.resolveParameter(raw)
			if err != nil {
				return err
			}
			if p == nil {
				continue
			}
			key := p.In + "\x00" + p.Name
			if i, ok := index[key]; ok {
				out[i] = p
				continue
			}
			index[key] = len(out)
			out = append(out, p)
		}
		return nil
	}
	if err := add(o.item.Parameters); err != nil {
		return nil, err
	}
	if err := add(o.op.Parameters); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return parameterOrder[out[i].In] < parameterOrder[out[j].In] })
	return out, nil
}

// buildParameters returns the method parameters of o and whether the
// request is multipart.
func (b *builder) buildParameters(o *operation, base string) ([]*paramModel, bool, error) {
	params, err := b.mergedParameters(o)
	if err != nil {
		return nil, false, err
	}

	taken := map[string]bool{"cancellationToken": true}
	var out []*paramModel
	var form []*parser.Parameter
	for _, p := range params {
		switch p.In {
		case "path", "query", "header":
			if p.In == "header" && !b.s.Docs.GenerateOperationHeaders {
				continue
			}
			pm, err := b.simpleParameter(p, taken)
			if err != nil {
				return nil, false, err
			}
			out = append(out, pm)
		case "formData":
			form = append(form, p)
		case "body":
			t, err := b.typeOf(p.Schema, base+"Body")
			if err != nil {
				return nil, false, err
			}
			out = append(out, b.bodyParameter("[Body]", t, p.Required, p.Description, taken))
		}
	}

	multipart := false
	if len(form) > 0 {
		pms, mp, err := b.formParameters(o, form, taken)
		if err != nil {
			return nil, false, err
		}
		out = append(out, pms...)
		multipart = mp
	}

	if o.op.RequestBody != nil {
		pms, mp, err := b.requestBodyParameters(o, base, taken)
		if err != nil {
			return nil, false, err
		}
		out = append(out, pms...)
		multipart = multipart || mp
	}
	return out, multipart, nil
}

func (b *builder) parameterSchema(p *parser.Parameter) *parser.Schema {
	if p.Schema != nil {
		return p.Schema
	}
	for _, mt := range preferredMedia(p.Content) {
		if c := p.Content[mt]; c != nil && c.Schema != nil {
			return c.Schema
		}
	}
	if p.Type != "" {
		return oas2Schema(p.Type, p.Format, p.Items, p.Enum)
	}
	return nil
}

// oas2Schema lifts Swagger 2.0 inline parameter typing into a schema.
func oas2Schema(typ, format string, items *parser.Items, enum []any) *parser.Schema {
	s := &parser.Schema{Type: typ, Format: format, Enum: enum}
	if items != nil {
		s.Items = oas2Schema(items.Type, items.Format, items.Items, items.Enum)
	}
	return s
}

func (b *builder) simpleParameter(p *parser.Parameter, taken map[string]bool) (*paramModel, error) {
	schema := b.parameterSchema(p)
	t, err := b.typeOf(schema, "")
	if err != nil {
		return nil, err
	}
	required := p.Required || p.In == "path"
	if !required {
		t = nullable(t)
	}

	ident := dedupe(naming.SafeIdentifier(naming.ToCamelCase(p.Name), "value"), taken)
	var attrs []string
	switch p.In {
	case "query":
		switch {
		case b.s.UseISODateFormat && schema != nil && schema.Format == "date":
			attrs = append(attrs, `[Query(Format = "yyyy-MM-dd")]`)
		case schema != nil && schemaType(schema) == "array":
			attrs = append(attrs, "[Query(CollectionFormat.Multi)]")
		default:
			attrs = append(attrs, "[Query]")
		}
	case "header":
		attrs = append(attrs, `[Header("`+csString(p.Name)+`")]`)
	}
	if p.In != "header" && strings.TrimPrefix(ident, "@") != p.Name {
		attrs = append(attrs, `[AliasAs("`+csString(p.Name)+`")]`)
	}
	attrs = append(attrs, t, ident)
	return &paramModel{
		Decl:     strings.Join(attrs, " "),
		Name:     ident,
		Doc:      p.Description,
		Optional: !required,
	}, nil
}

func (b *builder) bodyParameter(attr, typ string, required bool, doc string, taken map[string]bool) *paramModel {
	if !required {
		typ = nullable(typ)
	}
	ident := dedupe("body", taken)
	return &paramModel{
		Decl:     attr + " " + typ + " " + ident,
		Name:     ident,
		Doc:      doc,
		Optional: !required,
	}
}

// formParameters handles Swagger 2.0 formData parameters: multipart when a
// file is uploaded or the operation consumes multipart, otherwise a single
// url-encoded body.
func (b *builder) formParameters(o *operation, form []*parser.Parameter, taken map[string]bool) ([]*paramModel, bool, error) {
	multipart := hasMedia(o.op.Consumes, "multipart/form-data")
	if doc := b.doc.OAS2(); doc != nil && len(o.op.Consumes) == 0 {
		multipart = hasMedia(doc.Consumes, "multipart/form-data")
	}
	for _, p := range form {
		if p.Type == "file" {
			multipart = true
		}
	}
	if !multipart {
		required := false
		for _, p := range form {
			required = required || p.Required
		}
		return []*paramModel{b.bodyParameter("[Body(BodySerializationMethod.UrlEncoded)]", "IDictionary<string, object>", required, "", taken)}, false, nil
	}

	out := make([]*paramModel, 0, len(form))
	for _, p := range form {
		pm, err := b.multipartField(p.Name, b.parameterSchema(p), p.Required, p.Description, taken)
		if err != nil {
			return nil, false, err
		}
		out = append(out, pm)
	}
	return out, true, nil
}

func (b *builder) multipartField(name string, schema *parser.Schema, required bool, doc string, taken map[string]bool) (*paramModel, error) {
	var t string
	switch {
	case schema != nil && (schemaType(schema) == "file" || schema.Format == "binary"):
		t = "StreamPart"
	case schema != nil && schemaType(schema) == "array":
		if item, ok := schema.Items.(*parser.Schema); ok && item.Format == "binary" {
			t = "IEnumerable<StreamPart>"
		}
	}
	if t == "" {
		var err error
		if t, err = b.typeOf(schema, ""); err != nil {
			return nil, err
		}
	}
	if !required {
		t = nullable(t)
	}
	ident := dedupe(naming.SafeIdentifier(naming.ToCamelCase(name), "value"), taken)
	decl := t + " " + ident
	if strings.TrimPrefix(ident, "@") != name {
		decl = `[AliasAs("` + csString(name) + `")] ` + decl
	}
	return &paramModel{Decl: decl, Name: ident, Doc: doc, Optional: !required}, nil
}

func (b *builder) requestBodyParameters(o *operation, base string, taken map[string]bool) ([]*paramModel, bool, error) {
	rb, err := b.resolveRequestBody(o.op.RequestBody)
	if err != nil || rb == nil {
		return nil, false, err
	}
	media := preferredMedia(rb.Content)
	if len(media) == 0 {
		return nil, false, nil
	}
	mt := media[0]
	var schema *parser.Schema
	if c := rb.Content[mt]; c != nil {
		schema = c.Schema
	}

	switch {
	case mt == "multipart/form-data":
		obj := schema
		if obj != nil && obj.Ref != "" {
			name, err := b.schemaRef(obj.Ref)
			if err != nil {
				return nil, false, err
			}
			b.used[name] = true
			obj = b.schemas[name]
		}
		if obj == nil || len(obj.Properties) == 0 {
			return []*paramModel{b.bodyParameter("[Body]", "MultipartFormDataContent", rb.Required, rb.Description, taken)}, false, nil
		}
		required := make(map[string]bool)
		for _, r := range obj.Required {
			required[r] = true
		}
		var out []*paramModel
		for _, key := range sortedKeys(obj.Properties) {
			prop := obj.Properties[key]
			desc := ""
			if prop != nil {
				desc = prop.Description
			}
			pm, err := b.multipartField(key, prop, required[key], desc, taken)
			if err != nil {
				return nil, false, err
			}
			out = append(out, pm)
		}
		return out, true, nil

	case mt == "application/x-www-form-urlencoded":
		t, err := b.typeOf(schema, base+"Body")
		if err != nil {
			return nil, false, err
		}
		if t == "object" {
			t = "IDictionary<string, object>"
		}
		return []*paramModel{b.bodyParameter("[Body(BodySerializationMethod.UrlEncoded)]", t, rb.Required, rb.Description, taken)}, false, nil

	case isJSON(mt):
		t, err := b.typeOf(schema, base+"Body")
		if err != nil {
			return nil, false, err
		}
		return []*paramModel{b.bodyParameter("[Body]", t, rb.Required, rb.Description, taken)}, false, nil
	}

	t := "System.IO.Stream"
	if schemaType(orEmpty(schema)) == "string" && schema.Format == "" {
		t = "string"
	}
	return []*paramModel{b.bodyParameter("[Body]", t, rb.Required, rb.Description, taken)}, false, nil
}

func orEmpty(s *parser.Schema) *parser.Schema {
	if s == nil {
		return &parser.Schema{}
	}
	return s
}

func isJSON(mt string) bool {
	return mt == "application/json" || mt == "text/json" || strings.HasSuffix(mt, "+json")
}

func hasMedia(list []string, want string) bool {
	for _, mt := range list {
		if strings.EqualFold(mt, want) {
			return true
		}
	}
	return false
}

// preferredMedia returns the media types of content, most preferred first.
func preferredMedia[V any](content map[string]V) []string {
	rank := func(mt string) int {
		base, _, _ := strings.Cut(strings.ToLower(mt), ";")
		for i, p := range mediaPreference {
			if base == p || (p == "application/*+json" && strings.HasSuffix(base, "+json")) {
				return i
			}
		}
		return len(mediaPreference)
	}
	keys := sortedKeys(content)
	sort.SliceStable(keys, func(i, j int) bool { return rank(keys[i]) < rank(keys[j]) })
	return keys
}

type responseInfo struct {
	typeName    string
	description string
	mediaTypes  []string
}

// successResponse describes the first 2xx response carrying a body. Media
// types are collected from every 2xx response.
func (b *builder) successResponse(o *operation, base string) (responseInfo, error) {
	var info responseInfo
	if o.op.Responses == nil {
		return info, nil
	}
	media := make(map[string]bool)
	found := false
	for _, code := range sortedKeys(o.op.Responses.Codes) {
		if !strings.HasPrefix(code, "2") {
			continue
		}
		r, err := b.resolveResponse(o.op.Responses.Codes[code])
		if err != nil {
			return info, err
		}
		if r == nil {
			continue
		}
		schema := r.Schema
		if doc := b.doc.OAS3(); doc != nil {
			schema = nil
			for _, mt := range preferredMedia(r.Content) {
				media[mt] = true
				if c := r.Content[mt]; schema == nil && c != nil && c.Schema != nil {
					schema = c.Schema
				}
			}
		} else if schema != nil {
			for _, mt := range b.produces(o) {
				media[mt] = true
			}
		}
		if info.description == "" {
			info.description = r.Description
		}
		if schema == nil || found {
			continue
		}
		t, err := b.typeOf(schema, base+"Response")
		if err != nil {
			return info, err
		}
		info.typeName = t
		info.description = r.Description
		found = true
	}
	info.mediaTypes = sortedKeys(media)
	return info, nil
}

func (b *builder) produces(o *operation) []string {
	if len(o.op.Produces) > 0 {
		return o.op.Produces
	}
	if doc := b.doc.OAS2(); doc != nil {
		return doc.Produces
	}
	return nil
}

// defaultInterfaceName derives the interface name from the document title
// or the configured fixed name.
func (b *builder) defaultInterfaceName() string {
	if b.s.Naming.UseOpenAPITitle {
		id := naming.TitleToIdentifier(b.doc.Title())
		if id == "" {
			return "I" + settings.DefaultInterfaceName
		}
		if !strings.HasSuffix(strings.ToLower(id), "api") {
			id += "Api"
		}
		return "I" + id
	}
	id := toIdentifier(b.s.Naming.InterfaceName)
	if id == "" {
		id = settings.DefaultInterfaceName
	}
	return "I" + id
}

// operationName applies the naming strategy, the custom namer and the
// name template, in that order.
func (b *builder) operationName(o *operation) string {
	name := b.strategyName(o)
	if b.namer != nil {
		if custom := b.namer(o.desc); strings.TrimSpace(custom) != "" {
			name = custom
		}
	}
	if tmpl := b.s.Naming.OperationNameTemplate; tmpl != "" {
		name = strings.ReplaceAll(tmpl, settings.OperationNamePlaceholder, name)
	}
	return naming.SafeIdentifier(toIdentifier(name), "Operation")
}

func (b *builder) strategyName(o *operation) string {
	id := strings.TrimSpace(o.op.OperationID)
	switch b.s.Naming.OperationNameGenerator {
	case settings.NamingOperationID:
		if id != "" {
			return id
		}
	case settings.NamingMethodAndPath:
		return methodAndPath(o.method, o.path)
	case settings.NamingSingleClientFromOperationID:
		if id != "" {
			segments := strings.FieldsFunc(id, func(r rune) bool { return r == '.' || r == '_' })
			if len(segments) > 0 {
				return naming.ToPascalCase(segments[len(segments)-1])
			}
		}
	case settings.NamingSingleClientFromPathSegments:
		return strings.Join(pathWords(o.path), "") + naming.ToPascalCase(o.method)
	default:
		if id != "" {
			return naming.ToPascalCase(id)
		}
	}
	return methodAndPath(o.method, o.path)
}

func methodAndPath(method, path string) string {
	return naming.ToPascalCase(method) + strings.Join(pathWords(path), "")
}

// pathWords turns path segments into PascalCase words; a parameter segment
// {id} becomes "ById".
func pathWords(path string) []string {
	var words []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			words = append(words, "By"+naming.ToPascalCase(strings.Trim(seg, "{}")))
			continue
		}
		if w := naming.ToPascalCase(seg); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// toIdentifier drops characters that cannot appear in an identifier,
// capitalizing the letter after each dropped run, and keeps the case of the
// first letter.
func toIdentifier(s string) string {
	pascal := []rune(naming.ToPascalCase(s))
	if len(pascal) == 0 {
		return ""
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if unicode.IsLower(r) {
				pascal[0] = unicode.ToLower(pascal[0])
			}
			break
		}
	}
	return string(pascal)
}
