// Package naming provides case conversion utilities for emitted C# identifiers.
//
// The engine uses these functions to derive interface, method, parameter,
// property, and type names from OpenAPI titles, operation IDs, paths, and
// schema names. Functions include ToPascalCase, ToCamelCase, ToTitleCase,
// TitleToIdentifier, and SafeIdentifier.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
