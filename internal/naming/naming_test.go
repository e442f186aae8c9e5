package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Empty and single characters
		{name: "empty string", input: "", want: ""},
		{name: "single lowercase letter", input: "a", want: "A"},
		{name: "single digit", input: "1", want: "1"},

		// Separators
		{name: "snake_case simple", input: "user_profile", want: "UserProfile"},
		{name: "kebab-case simple", input: "api-client", want: "ApiClient"},
		{name: "dot separator", input: "com.example.api", want: "ComExampleApi"},
		{name: "spaces", input: "list all pets", want: "ListAllPets"},
		{name: "path template", input: "/pets/{petId}", want: "PetsPetId"},
		{name: "path with version", input: "/api/v1/users", want: "ApiV1Users"},
		{name: "trailing separator", input: "value_", want: "Value"},

		// Already cased
		{name: "already PascalCase", input: "UserProfile", want: "UserProfile"},
		{name: "all caps", input: "API", want: "API"},
		{name: "camelCase", input: "listPets", want: "ListPets"},

		// Unicode
		{name: "unicode lowercase", input: "über_user", want: "ÜberUser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPascalCase(tt.input)
			assert.Equal(t, tt.want, got, "ToPascalCase(%q)", tt.input)
		})
	}
}

func TestToCamelCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "single uppercase letter", input: "A", want: "a"},
		{name: "snake_case", input: "pet_id", want: "petId"},
		{name: "PascalCase", input: "PetId", want: "petId"},
		{name: "header name", input: "X-Request-Id", want: "xRequestId"},
		{name: "only separators", input: "___", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCamelCase(tt.input)
			assert.Equal(t, tt.want, got, "ToCamelCase(%q)", tt.input)
		})
	}
}

func TestToTitleCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "single word", input: "hello", want: "Hello"},
		{name: "multiple words", input: "hello world", want: "Hello World"},
		{name: "keeps inner capitals", input: "my HTTP api", want: "My HTTP Api"},
		{name: "already titled", input: "Swagger Petstore", want: "Swagger Petstore"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToTitleCase(tt.input)
			assert.Equal(t, tt.want, got, "ToTitleCase(%q)", tt.input)
		})
	}
}

func TestTitleToIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Swagger Petstore", "SwaggerPetstore"},
		{"Swagger Petstore - OpenAPI 3.0", "SwaggerPetstoreOpenAPI30"},
		{"my cool api", "MyCoolApi"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleToIdentifier(tt.input), "TitleToIdentifier(%q)", tt.input)
	}
}

func TestSafeIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fallback string
		want     string
	}{
		{name: "plain", input: "Pet", want: "Pet"},
		{name: "leading digit", input: "200Response", want: "_200Response"},
		{name: "keyword", input: "class", want: "@class"},
		{name: "not a keyword when cased", input: "Class", want: "Class"},
		{name: "empty uses fallback", input: "", fallback: "Value", want: "Value"},
		{name: "empty without fallback", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeIdentifier(tt.input, tt.fallback))
		})
	}
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("namespace"))
	assert.True(t, IsKeyword("string"))
	assert.False(t, IsKeyword("pet"))
}
