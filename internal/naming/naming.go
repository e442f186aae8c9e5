package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// isSeparator reports whether r splits words. Anything that cannot appear in
// a C# identifier is treated as a word boundary.
func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// ToPascalCase converts a string to PascalCase.
// Any rune that is not a letter or digit triggers capitalization of the next letter
// and is dropped.
// Example: "user_profile" -> "UserProfile"
// Example: "/pets/{petId}" -> "PetsPetId"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	capitalizeNext := true

	for _, r := range s {
		if isSeparator(r) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// ToCamelCase converts a string to camelCase.
// Like PascalCase but with the first letter lowercase.
// Example: "user_profile" -> "userProfile"
// Example: "PetId" -> "petId"
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ToTitleCase converts the first letter of every word to uppercase while
// keeping the rest of each word intact.
// Example: "swagger petstore" -> "Swagger Petstore"
// Example: "my HTTP api" -> "My HTTP Api"
func ToTitleCase(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// TitleToIdentifier turns a free-form document title into a PascalCase
// identifier, dropping every character that is not valid in one.
// Example: "Swagger Petstore - OpenAPI 3.0" -> "SwaggerPetstoreOpenAPI30"
func TitleToIdentifier(title string) string {
	return ToPascalCase(ToTitleCase(title))
}

// SafeIdentifier makes s usable as a C# identifier: an empty result becomes
// fallback, a leading digit gets an underscore prefix and reserved words are
// escaped with '@'.
func SafeIdentifier(s, fallback string) string {
	if s == "" {
		s = fallback
	}
	if s == "" {
		return s
	}
	if unicode.IsDigit([]rune(s)[0]) {
		return "_" + s
	}
	if IsKeyword(s) {
		return "@" + s
	}
	return s
}

var keywords = map[string]struct{}{
	"abstract": {}, "as": {}, "base": {}, "bool": {}, "break": {}, "byte": {},
	"case": {}, "catch": {}, "char": {}, "checked": {}, "class": {}, "const": {},
	"continue": {}, "decimal": {}, "default": {}, "delegate": {}, "do": {}, "double": {},
	"else": {}, "enum": {}, "event": {}, "explicit": {}, "extern": {}, "false": {},
	"finally": {}, "fixed": {}, "float": {}, "for": {}, "foreach": {}, "goto": {},
	"if": {}, "implicit": {}, "in": {}, "int": {}, "interface": {}, "internal": {},
	"is": {}, "lock": {}, "long": {}, "namespace": {}, "new": {}, "null": {},
	"object": {}, "operator": {}, "out": {}, "override": {}, "params": {}, "private": {},
	"protected": {}, "public": {}, "readonly": {}, "ref": {}, "return": {}, "sbyte": {},
	"sealed": {}, "short": {}, "sizeof": {}, "stackalloc": {}, "static": {}, "string": {},
	"struct": {}, "switch": {}, "this": {}, "throw": {}, "true": {}, "try": {},
	"typeof": {}, "uint": {}, "ulong": {}, "unchecked": {}, "unsafe": {}, "ushort": {},
	"using": {}, "virtual": {}, "void": {}, "volatile": {}, "while": {},
}

// IsKeyword reports whether s is a reserved C# keyword.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}
