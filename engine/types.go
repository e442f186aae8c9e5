package engine

import (
	"fmt"
	"strings"

	"github.com/erraggy/oastools/parser"

	"github.com/erraggy/refitgen/internal/naming"
)

// Reference prefixes resolved within the document. External references are
// rejected.
const (
	schemaRefOAS3    = "#/components/schemas/"
	schemaRefOAS2    = "#/definitions/"
	parameterRefOAS3 = "#/components/parameters/"
	parameterRefOAS2 = "#/parameters/"
	bodyRefOAS3      = "#/components/requestBodies/"
	responseRefOAS3  = "#/components/responses/"
	responseRefOAS2  = "#/responses/"
)

// schemaType returns the primary type of a schema. For OAS 3.1 type arrays
// the first non-null entry wins; an absent type is inferred from structure.
func schemaType(s *parser.Schema) string {
	switch t := s.Type.(type) {
	case string:
		return t
	case []string:
		for _, v := range t {
			if v != "null" {
				return v
			}
		}
	case []any:
		for _, v := range t {
			if str, ok := v.(string); ok && str != "null" {
				return str
			}
		}
	}
	switch {
	case len(s.Properties) > 0, s.AdditionalProperties != nil:
		return "object"
	case s.Items != nil:
		return "array"
	case len(s.Enum) > 0:
		return "string"
	}
	return ""
}

func isNullable(s *parser.Schema) bool {
	if s == nil {
		return false
	}
	if s.Nullable {
		return true
	}
	switch t := s.Type.(type) {
	case []string:
		for _, v := range t {
			if v == "null" {
				return true
			}
		}
	case []any:
		for _, v := range t {
			if v == "null" {
				return true
			}
		}
	}
	return false
}

func isStringEnum(s *parser.Schema) bool {
	return s != nil && s.Ref == "" && len(s.Enum) > 0 && schemaType(s) == "string"
}

// dictionaryValue returns the value schema of a pure map schema: an object
// with no properties and a schema for additionalProperties.
func dictionaryValue(s *parser.Schema) (*parser.Schema, bool) {
	if len(s.Properties) > 0 || len(s.AllOf) > 0 {
		return nil, false
	}
	v, ok := s.AdditionalProperties.(*parser.Schema)
	return v, ok
}

// isObjectContract reports whether a named schema becomes a class.
func isObjectContract(s *parser.Schema) bool {
	if s == nil || s.Ref != "" {
		return false
	}
	if len(s.AllOf) > 0 {
		return true
	}
	if schemaType(s) != "object" || len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		return false
	}
	_, isMap := dictionaryValue(s)
	return !isMap
}

func isNamedType(s *parser.Schema) bool {
	return isStringEnum(s) || isObjectContract(s)
}

func nullable(t string) string {
	if strings.HasSuffix(t, "?") {
		return t
	}
	return t + "?"
}

func unescapePointer(s string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(s)
}

// refName extracts the component name from ref for the first matching
// prefix.
func refName(ref string, prefixes ...string) (string, error) {
	if !strings.HasPrefix(ref, "#") {
		return "", fmt.Errorf("external reference %q is not supported", ref)
	}
	for _, p := range prefixes {
		if name, ok := strings.CutPrefix(ref, p); ok {
			return unescapePointer(name), nil
		}
	}
	return "", fmt.Errorf("unresolved reference %q", ref)
}

// schemaRef resolves a schema reference to a component name.
func (b *builder) schemaRef(ref string) (string, error) {
	name, err := refName(ref, schemaRefOAS3, schemaRefOAS2)
	if err != nil {
		return "", err
	}
	if _, ok := b.schemas[name]; !ok {
		return "", fmt.Errorf("unresolved reference %q", ref)
	}
	return name, nil
}

// typeOf maps a schema to a C# type. hint names the type synthesized for an
// inline object or enum; without a hint those map to object and string.
func (b *builder) typeOf(s *parser.Schema, hint string) (string, error) {
	if s == nil {
		return "object", nil
	}
	if s.Ref != "" {
		return b.refType(s.Ref)
	}

	if len(s.AllOf) == 1 && len(s.Properties) == 0 {
		return b.typeOf(s.AllOf[0], hint)
	}
	if len(s.AllOf) > 0 {
		if hint == "" {
			return "object", nil
		}
		return b.inlineContract(hint, s)
	}
	if alts := append(append([]*parser.Schema{}, s.OneOf...), s.AnyOf...); len(alts) > 0 {
		var only *parser.Schema
		count := 0
		for _, a := range alts {
			if a != nil && schemaType(a) != "null" {
				only = a
				count++
			}
		}
		if count == 1 {
			return b.typeOf(only, hint)
		}
		return "object", nil
	}

	switch schemaType(s) {
	case "string":
		if isStringEnum(s) && hint != "" {
			return b.inlineEnum(hint, s)
		}
		return stringType(s.Format), nil
	case "integer":
		if s.Format == "int64" {
			return "long", nil
		}
		return "int", nil
	case "number":
		switch s.Format {
		case "float":
			return "float", nil
		case "decimal":
			return "decimal", nil
		}
		return "double", nil
	case "boolean":
		return "bool", nil
	case "file":
		return "StreamPart", nil
	case "array":
		item, _ := s.Items.(*parser.Schema)
		itemHint := ""
		if hint != "" {
			itemHint = hint + "Item"
		}
		t, err := b.typeOf(item, itemHint)
		if err != nil {
			return "", err
		}
		return "ICollection<" + t + ">", nil
	case "object":
		if v, ok := dictionaryValue(s); ok {
			t, err := b.typeOf(v, "")
			if err != nil {
				return "", err
			}
			return "IDictionary<string, " + t + ">", nil
		}
		if len(s.Properties) == 0 || hint == "" {
			return "object", nil
		}
		return b.inlineContract(hint, s)
	}
	return "object", nil
}

func stringType(format string) string {
	switch format {
	case "date-time", "date":
		return "System.DateTimeOffset"
	case "time":
		return "System.TimeSpan"
	case "uuid":
		return "System.Guid"
	case "uri":
		return "System.Uri"
	case "byte", "binary":
		return "byte[]"
	}
	return "string"
}

// refType resolves a schema reference. Classes and enums are referenced by
// name; aliases of primitives, arrays and maps are inlined.
func (b *builder) refType(ref string) (string, error) {
	name, err := b.schemaRef(ref)
	if err != nil {
		return "", err
	}
	b.used[name] = true
	target := b.schemas[name]
	if isNamedType(target) {
		return b.typeNames[name], nil
	}
	if b.resolving[name] {
		return "object", nil
	}
	b.resolving[name] = true
	defer delete(b.resolving, name)
	return b.typeOf(target, "")
}

// collectRefs calls fn with every schema reference reachable from s
// without following the references themselves.
func collectRefs(s *parser.Schema, fn func(ref string)) {
	seen := make(map[*parser.Schema]bool)
	var walk func(*parser.Schema)
	walk = func(s *parser.Schema) {
		if s == nil || seen[s] {
			return
		}
		seen[s] = true
		if s.Ref != "" {
			fn(s.Ref)
			return
		}
		for _, p := range s.Properties {
			walk(p)
		}
		switch items := s.Items.(type) {
		case *parser.Schema:
			walk(items)
		case []*parser.Schema:
			for _, i := range items {
				walk(i)
			}
		}
		if ap, ok := s.AdditionalProperties.(*parser.Schema); ok {
			walk(ap)
		}
		for _, group := range [][]*parser.Schema{s.AllOf, s.AnyOf, s.OneOf} {
			for _, m := range group {
				walk(m)
			}
		}
	}
	walk(s)
}

// inlineContract synthesizes a class for an inline object schema.
func (b *builder) inlineContract(hint string, s *parser.Schema) (string, error) {
	name := b.reserve(naming.SafeIdentifier(naming.ToPascalCase(hint), "Model"))
	c, err := b.buildContract(name, s)
	if err != nil {
		return "", err
	}
	b.inlineContracts = append(b.inlineContracts, c)
	return name, nil
}

// inlineEnum synthesizes an enum for an inline string enum.
func (b *builder) inlineEnum(hint string, s *parser.Schema) (string, error) {
	name := b.reserve(naming.SafeIdentifier(naming.ToPascalCase(hint), "Values"))
	b.inlineEnums = append(b.inlineEnums, b.buildEnum(name, s))
	return name, nil
}

// buildContract renders an object schema as a class. The first allOf
// reference to another class becomes the base type; every other allOf
// member contributes its properties.
func (b *builder) buildContract(name string, s *parser.Schema) (*contractModel, error) {
	c := &contractModel{
		Accessibility: b.access,
		Name:          name,
		Deprecated:    s.Deprecated,
		Doc:           b.summaryDoc(firstNonEmpty(s.Description, s.Title)),
	}

	props := make(map[string]*parser.Schema)
	required := make(map[string]bool)
	merge := func(src *parser.Schema) {
		for k, v := range src.Properties {
			props[k] = v
		}
		for _, r := range src.Required {
			required[r] = true
		}
	}
	for _, member := range s.AllOf {
		if member == nil {
			continue
		}
		if member.Ref == "" {
			merge(member)
			continue
		}
		refName, err := b.schemaRef(member.Ref)
		if err != nil {
			return nil, err
		}
		b.used[refName] = true
		target := b.schemas[refName]
		if c.Base == "" && isObjectContract(target) {
			c.Base = b.typeNames[refName]
			continue
		}
		merge(target)
	}
	merge(s)

	taken := map[string]bool{name: true}
	for _, key := range sortedKeys(props) {
		prop := props[key]
		pascal := naming.ToPascalCase(key)
		member := naming.SafeIdentifier(pascal, "Property")
		if member == name {
			member += "Property"
		}
		member = dedupe(member, taken)

		t, err := b.typeOf(prop, name+pascal)
		if err != nil {
			return nil, err
		}
		if !required[key] || isNullable(prop) {
			t = nullable(t)
		}
		p := &propertyModel{
			JSONName: csString(key),
			Name:     member,
			Type:     t,
		}
		if prop != nil {
			p.Deprecated = prop.Deprecated
			p.Doc = b.summaryDoc(prop.Description)
		}
		c.Properties = append(c.Properties, p)
	}

	if allowed, isBool := s.AdditionalProperties.(bool); c.Base == "" && b.s.GenerateDefaultAdditionalProperties && (!isBool || allowed) {
		c.ExtensionData = true
	}
	return c, nil
}

func (b *builder) buildEnum(name string, s *parser.Schema) *enumModel {
	e := &enumModel{
		Accessibility: b.access,
		Name:          name,
		Doc:           b.summaryDoc(firstNonEmpty(s.Description, s.Title)),
	}
	taken := make(map[string]bool)
	for _, v := range s.Enum {
		if v == nil {
			continue
		}
		value := fmt.Sprint(v)
		member := dedupe(naming.SafeIdentifier(naming.ToPascalCase(value), "Value"), taken)
		e.Members = append(e.Members, enumMember{Name: member, Value: csString(value)})
	}
	return e
}

// dedupe returns name, or name with the smallest numeric suffix not yet
// taken, and marks the result taken.
func dedupe(name string, taken map[string]bool) string {
	candidate := name
	for i := 2; taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	taken[candidate] = true
	return candidate
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var csEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// csString escapes s for use inside a C# string literal.
func csString(s string) string {
	return csEscaper.Replace(s)
}
