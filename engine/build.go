package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/erraggy/oastools/parser"

	"github.com/erraggy/refitgen/internal/naming"
	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
	"github.com/erraggy/refitgen/spec"
)

// baseUsings are emitted in every file.
var baseUsings = []string{
	"Refit",
	"System",
	"System.Collections.Generic",
	"System.Text.Json.Serialization",
	"System.Threading",
	"System.Threading.Tasks",
}

type builder struct {
	doc    *spec.Document
	s      settings.Settings
	namer  OperationNamer
	access string

	schemas   map[string]*parser.Schema
	typeNames map[string]string
	taken     map[string]bool
	used      map[string]bool
	resolving map[string]bool

	inlineContracts []*contractModel
	inlineEnums     []*enumModel

	includePaths      []*regexp.Regexp
	keepSchemas       []*regexp.Regexp
	excludeNamespaces []*regexp.Regexp
}

// operation is one selected operation of the document.
type operation struct {
	path   string
	method string
	item   *parser.PathItem
	op     *parser.Operation
	desc   OperationDescriptor
}

func newBuilder(doc *spec.Document, s settings.Settings, namer OperationNamer) (*builder, error) {
	b := &builder{
		doc:       doc,
		s:         s,
		namer:     namer,
		access:    "public",
		schemas:   doc.Schemas(),
		typeNames: make(map[string]string),
		taken:     make(map[string]bool),
		used:      make(map[string]bool),
		resolving: make(map[string]bool),
	}
	if s.TypeAccessibility == settings.Internal {
		b.access = "internal"
	}
	if b.schemas == nil {
		b.schemas = map[string]*parser.Schema{}
	}

	var err error
	if b.includePaths, err = compilePatterns("filters.includePathMatches", s.Filters.IncludePathMatches); err != nil {
		return nil, err
	}
	if b.keepSchemas, err = compilePatterns("filters.keepSchemaPatterns", s.Filters.KeepSchemaPatterns); err != nil {
		return nil, err
	}
	if b.excludeNamespaces, err = compilePatterns("filters.excludeNamespaces", s.Filters.ExcludeNamespaces); err != nil {
		return nil, err
	}

	for _, name := range sortedKeys(b.schemas) {
		b.typeNames[name] = b.reserve(naming.SafeIdentifier(naming.ToPascalCase(name), "Model"))
	}
	return b, nil
}

func compilePatterns(field string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, rgerrors.Generation("setup", fmt.Sprintf("invalid pattern %q in %s", p, field), err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// reserve claims a type name, suffixing it when already taken.
func (b *builder) reserve(name string) string {
	return dedupe(name, b.taken)
}

func (b *builder) build() (*fileModel, error) {
	ops, total := b.collectOperations()
	if total == 0 && len(b.schemas) == 0 {
		return nil, rgerrors.Generation("setup", "document has no operations and no schemas", nil)
	}

	interfaces, err := b.buildInterfaces(ops)
	if err != nil {
		return nil, err
	}

	m := &fileModel{
		Usings:    b.usings(),
		Namespace: b.s.Namespace,
	}
	if b.s.GenerateInterface {
		m.Interfaces = interfaces
		if b.s.GenerateDependencyInjection && len(interfaces) > 0 {
			di := &diModel{Accessibility: b.access}
			for _, iface := range interfaces {
				di.Interfaces = append(di.Interfaces, iface.Name)
			}
			m.DI = di
		}
	}
	if b.emitContracts() {
		if err := b.buildContracts(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// emitContracts reports whether this pass writes contract types. The
// interface pass of a split run leaves them to the contracts pass.
func (b *builder) emitContracts() bool {
	if !b.s.GenerateContracts {
		return false
	}
	return !(b.s.SplitContracts && b.s.GenerateInterface)
}

// collectOperations returns the operations passing the filters and the
// number of operations in the document.
func (b *builder) collectOperations() ([]*operation, int) {
	var ops []*operation
	total := 0
	b.doc.EachOperation(func(path, method string, item *parser.PathItem, op *parser.Operation) {
		total++
		if op.Deprecated && !b.s.Docs.GenerateDeprecatedOperations {
			return
		}
		if len(b.includePaths) > 0 && !matchesAny(b.includePaths, path) {
			return
		}
		if len(b.s.Filters.IncludeTags) > 0 && !hasAnyTag(op.Tags, b.s.Filters.IncludeTags) {
			return
		}
		ops = append(ops, &operation{
			path:   path,
			method: method,
			item:   item,
			op:     op,
			desc: OperationDescriptor{
				OperationID: op.OperationID,
				Method:      method,
				Path:        path,
				Tags:        append([]string(nil), op.Tags...),
				Summary:     op.Summary,
			},
		})
	})
	return ops, total
}

func hasAnyTag(tags, wanted []string) bool {
	for _, t := range tags {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

// usings returns the sorted using directives, minus excluded namespaces.
func (b *builder) usings() []string {
	set := make(map[string]bool)
	for _, u := range baseUsings {
		set[u] = true
	}
	if b.s.GenerateDependencyInjection && b.s.GenerateInterface {
		set["Microsoft.Extensions.DependencyInjection"] = true
	}
	if b.s.ReturnStyle == settings.ReactiveStream && b.s.GenerateInterface {
		set["System.Reactive"] = true
	}
	for _, ns := range b.s.AdditionalNamespaces {
		set[strings.TrimSpace(ns)] = true
	}

	var out []string
	for _, u := range sortedKeys(set) {
		if u == "" || matchesAny(b.excludeNamespaces, u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (b *builder) buildInterfaces(ops []*operation) ([]*interfaceModel, error) {
	defaultName := b.defaultInterfaceName()

	switch b.s.MultipleInterfaces {
	case settings.ByEndpoint:
		taken := make(map[string]bool)
		out := make([]*interfaceModel, 0, len(ops))
		for _, o := range ops {
			base := b.operationName(o)
			m, err := b.buildMethod(o, base, "Execute")
			if err != nil {
				return nil, err
			}
			out = append(out, &interfaceModel{
				Accessibility: b.access,
				Name:          dedupe("I"+base+"Endpoint", taken),
				Methods:       []*methodModel{m},
			})
		}
		return out, nil

	case settings.ByTag:
		groups := make(map[string][]*operation)
		for _, o := range ops {
			name := defaultName
			if len(o.op.Tags) > 0 {
				if tag := naming.ToPascalCase(o.op.Tags[0]); tag != "" {
					name = "I" + tag + "Api"
				}
			}
			groups[name] = append(groups[name], o)
		}
		out := make([]*interfaceModel, 0, len(groups))
		for _, name := range sortedKeys(groups) {
			iface, err := b.buildInterface(name, groups[name])
			if err != nil {
				return nil, err
			}
			out = append(out, iface)
		}
		return out, nil
	}

	iface, err := b.buildInterface(defaultName, ops)
	if err != nil {
		return nil, err
	}
	return []*interfaceModel{iface}, nil
}

func (b *builder) buildInterface(name string, ops []*operation) (*interfaceModel, error) {
	iface := &interfaceModel{Accessibility: b.access, Name: name}
	taken := make(map[string]bool)
	for _, o := range ops {
		base := dedupe(b.operationName(o), taken)
		m, err := b.buildMethod(o, base, base+"Async")
		if err != nil {
			return nil, err
		}
		iface.Methods = append(iface.Methods, m)
	}
	return iface, nil
}

// buildMethod renders one operation. base seeds names of synthesized
// request and response types; name is the C# method name.
func (b *builder) buildMethod(o *operation, base, name string) (*methodModel, error) {
	params, multipart, err := b.buildParameters(o, base)
	if err != nil {
		return nil, rgerrors.Generation("setup", fmt.Sprintf("%s %s", strings.ToUpper(o.method), o.path), err)
	}
	resp, err := b.successResponse(o, base)
	if err != nil {
		return nil, rgerrors.Generation("setup", fmt.Sprintf("%s %s", strings.ToUpper(o.method), o.path), err)
	}

	if b.s.OptionalParameters {
		sort.SliceStable(params, func(i, j int) bool { return !params[i].Optional && params[j].Optional })
	}
	decls := make([]string, 0, len(params)+1)
	for _, p := range params {
		decl := p.Decl
		if p.Optional && b.s.OptionalParameters {
			decl += " = default"
		}
		decls = append(decls, decl)
	}
	if b.s.UseCancellationTokens {
		decls = append(decls, "CancellationToken cancellationToken = default")
	}

	m := &methodModel{
		Deprecated: o.op.Deprecated,
		Multipart:  multipart,
		Verb:       naming.ToPascalCase(o.method),
		Path:       csString(o.path),
		Signature:  fmt.Sprintf("%s %s(%s)", b.returnType(resp.typeName), name, strings.Join(decls, ", ")),
	}
	if b.s.Docs.AddAcceptHeaders {
		m.Accept = acceptHeader(resp.mediaTypes)
	}
	m.Doc = b.methodDoc(o.op, params, resp.description)
	return m, nil
}

func (b *builder) returnType(result string) string {
	switch b.s.ReturnStyle {
	case settings.WrappedResponse:
		if result == "" {
			return "Task<IApiResponse>"
		}
		return "Task<IApiResponse<" + result + ">>"
	case settings.ReactiveStream:
		if result == "" {
			return "IObservable<Unit>"
		}
		return "IObservable<" + result + ">"
	}
	if result == "" {
		return "Task"
	}
	return "Task<" + result + ">"
}

func acceptHeader(mediaTypes []string) string {
	if len(mediaTypes) == 0 {
		return ""
	}
	for _, mt := range mediaTypes {
		if mt == "application/json" {
			return mt
		}
	}
	return strings.Join(mediaTypes, ", ")
}

// methodDoc returns XML documentation lines for an operation.
func (b *builder) methodDoc(op *parser.Operation, params []*paramModel, returns string) []string {
	if !b.s.Docs.GenerateXMLDocCodeComments {
		return nil
	}
	summary := firstNonEmpty(op.Summary, op.Description)
	doc := b.summaryDoc(summary)
	if op.Summary != "" && strings.TrimSpace(op.Description) != "" && op.Description != op.Summary {
		doc = append(doc, "/// <remarks>")
		for _, l := range docLines(op.Description) {
			doc = append(doc, "/// "+l)
		}
		doc = append(doc, "/// </remarks>")
	}
	for _, p := range params {
		if p.Doc == "" {
			continue
		}
		doc = append(doc, fmt.Sprintf("/// <param name=%q>%s</param>", strings.TrimPrefix(p.Name, "@"), strings.Join(docLines(p.Doc), " ")))
	}
	if b.s.UseCancellationTokens && len(doc) > 0 {
		doc = append(doc, `/// <param name="cancellationToken">Cancellation token.</param>`)
	}
	if strings.TrimSpace(returns) != "" {
		doc = append(doc, "/// <returns>"+strings.Join(docLines(returns), " ")+"</returns>")
	}
	return doc
}

// summaryDoc wraps text in a summary element, or returns nil when XML
// documentation is disabled or text is blank.
func (b *builder) summaryDoc(text string) []string {
	if !b.s.Docs.GenerateXMLDocCodeComments || strings.TrimSpace(text) == "" {
		return nil
	}
	lines := []string{"/// <summary>"}
	for _, l := range docLines(text) {
		lines = append(lines, "/// "+l)
	}
	return append(lines, "/// </summary>")
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// docLines splits text into escaped, right-trimmed lines without leading
// or trailing blank lines.
func docLines(text string) []string {
	text = normalizeNewlines(text)
	raw := strings.Split(strings.TrimSpace(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, xmlEscaper.Replace(strings.TrimRight(l, " \t")))
	}
	return lines
}

func (b *builder) buildContracts(m *fileModel) error {
	keep := b.reachable()
	for _, name := range sortedKeys(b.schemas) {
		if b.s.Filters.TrimUnusedSchema && !keep[name] {
			continue
		}
		s := b.schemas[name]
		switch {
		case isStringEnum(s):
			m.Enums = append(m.Enums, b.buildEnum(b.typeNames[name], s))
		case isObjectContract(s):
			c, err := b.buildContract(b.typeNames[name], s)
			if err != nil {
				return rgerrors.Generation("setup", "schema "+name, err)
			}
			m.Contracts = append(m.Contracts, c)
		}
	}
	m.Contracts = append(m.Contracts, b.inlineContracts...)
	m.Enums = append(m.Enums, b.inlineEnums...)
	return nil
}

// reachable returns the schemas used by the selected operations and those
// matching a keep pattern, closed over their references.
func (b *builder) reachable() map[string]bool {
	var queue []string
	for _, name := range sortedKeys(b.schemas) {
		if b.used[name] || matchesAny(b.keepSchemas, name) {
			queue = append(queue, name)
		}
	}
	seen := make(map[string]bool)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		collectRefs(b.schemas[name], func(ref string) {
			if dep, err := b.schemaRef(ref); err == nil && !seen[dep] {
				queue = append(queue, dep)
			}
		})
	}
	return seen
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
