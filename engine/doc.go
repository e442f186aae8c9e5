// Package engine generates C# Refit client code from a loaded OpenAPI
// document.
//
// A Factory binds a *spec.Document to settings.Settings and returns a
// Generator. Binding does all the work that can fail on the document itself:
// resolving references, applying filters and naming, and building the
// contract model. Generate only renders, so it is deterministic and cheap
// to call again.
//
// # Quick Start
//
//	f, err := engine.NewRefitFactory(engine.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	g, err := f.CreateGenerator(ctx, doc, s)
//	if err != nil {
//		return err // *rgerrors.GenerationError, stage "setup"
//	}
//	code, err := g.Generate()
//
// # Type Mapping
//
// OpenAPI types are mapped to C# types as follows:
//   - string → string (date-time and date → System.DateTimeOffset, uuid → System.Guid, byte and binary → byte[])
//   - integer → int (long for format: int64)
//   - number → double (float for format: float, decimal for format: decimal)
//   - boolean → bool
//   - array → ICollection<T>
//   - object → class, or IDictionary<string, T> when only additionalProperties is set
//
// Optional and nullable values use nullable types. Named object schemas
// become partial classes; string enums become enums serialized by name.
//
// # Output
//
// A file holds an optional auto-generated header, the using directives, and
// a single namespace containing interfaces, contracts and the dependency
// injection registration class, in that order. Lines end in "\n" on every
// platform.
package engine
