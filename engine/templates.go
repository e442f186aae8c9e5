package engine

import (
	"bytes"
	"embed"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))

// executeTemplate executes a template by name and returns the rendered text.
func executeTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type fileData struct {
	Generator string
	Usings    []string
	Namespace string
	Blocks    []string
}

// render lays out the file: interfaces first, then contracts and enums
// ordered by name, then the registration class.
func render(m *fileModel) (string, error) {
	var blocks []string
	for _, iface := range m.Interfaces {
		out, err := executeTemplate("interface", iface)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, out)
	}

	type named struct {
		name string
		tmpl string
		data any
	}
	types := make([]named, 0, len(m.Contracts)+len(m.Enums))
	for _, c := range m.Contracts {
		types = append(types, named{c.Name, "contract", c})
	}
	for _, e := range m.Enums {
		types = append(types, named{e.Name, "enum", e})
	}
	sort.SliceStable(types, func(i, j int) bool { return types[i].name < types[j].name })
	for _, t := range types {
		out, err := executeTemplate(t.tmpl, t.data)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, out)
	}

	if m.DI != nil {
		out, err := executeTemplate("di", m.DI)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, out)
	}

	out, err := executeTemplate("file", fileData{
		Generator: m.Generator,
		Usings:    m.Usings,
		Namespace: m.Namespace,
		Blocks:    blocks,
	})
	if err != nil {
		return "", err
	}
	return normalizeNewlines(out), nil
}

// normalizeNewlines converts CRLF and lone CR to LF so output is identical
// on every platform, including text copied from descriptions.
func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
