// Package pipeline sequences a generation run: resolve settings, validate
// the document, generate, and write the output.
//
// A run moves through the states
//
//	Idle → ConfigResolved → Validated → Generated → Written →
//	SplitGenerated → SplitWritten → Done
//
// where Validated is skipped with Request.SkipValidation and the split
// states are only entered when settings.Settings.SplitContracts is set. Any
// state may move to Failed. Every error returned by Runner.Run is classified
// with an rgerrors kind.
//
// # Quick Start
//
//	r, err := pipeline.New(
//	    pipeline.WithSink(report.NewConsole(os.Stdout, os.Stderr)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	outcome, err := r.Run(ctx, pipeline.Request{
//	    Args: settings.CLIArgs{OpenAPIPath: "openapi.yaml"},
//	})
//	if err != nil {
//	    os.Exit(rgerrors.ExitCode(err))
//	}
//	fmt.Println(outcome.OutputPath)
//
// # Split Contracts
//
// In split mode the loaded document is reused for a second, contracts-only
// pass written to ContractsOutputPath. When that path resolves to the main
// output path the run fails with a write error before anything is written.
package pipeline
