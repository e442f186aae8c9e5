// Package testutil provides OpenAPI document fixtures for unit tests.
//
// Fixtures live in a single txtar archive so related documents can be read
// side by side. Tests either read a fixture's bytes or write it into a
// temporary directory to exercise file-based loading.
package testutil

import (
	_ "embed"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/tools/txtar"
)

//go:embed testdata/documents.txtar
var documents []byte

var archive = txtar.Parse(documents)

// Fixture names.
const (
	// Petstore is the OpenAPI 3.0 petstore: two operations, one schema.
	Petstore = "petstore.yaml"
	// Store is a richer OpenAPI 3.0 document with tags, a request body, a
	// header parameter, a deprecated operation, an enum and an unused schema.
	Store = "store.yaml"
	// Petstore2 is the Swagger 2.0 petstore in JSON.
	Petstore2 = "petstore2.json"
	// Malformed is not parseable YAML.
	Malformed = "malformed.yaml"
	// Invalid parses but fails validation.
	Invalid = "invalid.yaml"
	// Unsupported declares openapi 4.0.0.
	Unsupported = "unsupported.yaml"
	// Swagger12 declares swagger 1.2.
	Swagger12 = "swagger12.json"
	// Unresolved references a schema that does not exist.
	Unresolved = "unresolved.yaml"
	// Empty has no operations and no schemas.
	Empty = "empty.yaml"
)

// Fixture returns the contents of the named fixture, failing the test when
// it does not exist.
func Fixture(t testing.TB, name string) []byte {
	t.Helper()
	for _, f := range archive.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("testutil: unknown fixture %q", name)
	return nil
}

// WriteFixture writes the named fixture into dir and returns its path.
func WriteFixture(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Fixture(t, name), 0o600); err != nil {
		t.Fatalf("testutil: writing fixture %s: %v", name, err)
	}
	return path
}

// FixtureNames lists every fixture in the archive, sorted.
func FixtureNames() []string {
	names := make([]string, 0, len(archive.Files))
	for _, f := range archive.Files {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}
