// Package refitgen generates C# Refit client code from OpenAPI documents.
//
// Given an OpenAPI 2.0 or 3.x document, as a local file or an http(s) URL,
// refitgen produces a C# source file holding a Refit interface (one method
// per operation, annotated with the HTTP verb and route) and optionally the
// data contract classes the operations reference.
//
// # Overview
//
// The module is organized as a pipeline of small packages:
//
//   - settings: the effective configuration of a run, mapped from command
//     line arguments or decoded from a persisted JSON/YAML settings document
//   - spec: loading and validating OpenAPI documents from files or URLs
//   - engine: turning a loaded document into C# source text
//   - pipeline: the end-to-end run (resolve, validate, generate, write)
//   - report: console output and anonymous usage events
//   - rgerrors: the classified errors of a run and their exit codes
//
// The refitgen command (cmd/refitgen) wraps the pipeline in a cobra command
// line, and also serves the same operations as Model Context Protocol tools
// over stdio ("refitgen mcp").
//
// # Quick Start
//
// Generate a client from the command line:
//
//	refitgen ./openapi.json -n Petstore -o Petstore.cs
//
// Or run the pipeline from Go:
//
//	runner, err := pipeline.New(pipeline.WithLogger(slog.Default()))
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, err := runner.Run(ctx, pipeline.Request{
//		Args: settings.CLIArgs{
//			OpenAPIPath: "openapi.yaml",
//			Namespace:   "Petstore",
//			OutputPath:  "Petstore.cs",
//		},
//	})
//	if err != nil {
//		os.Exit(rgerrors.ExitCode(err))
//	}
//	fmt.Printf("wrote %d bytes to %s\n", out.Size, out.OutputPath)
//
// # Settings Documents
//
// Every generation flag has a counterpart in a settings document. Write one
// with "refitgen init-settings" and pass it back with --settings-file; when
// a settings document is given it replaces all generation flags. The
// OpenAPI document path saved in it is used unless one is given on the
// command line.
//
// # Exit Codes
//
// The command exits 0 on success. Failures exit with a code derived from the
// error kind: 2 for configuration errors, 3 when the document cannot be
// loaded, 4 when it fails validation, 5 for generation failures and 6 when
// the output cannot be written.
package refitgen
