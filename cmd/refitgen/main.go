// Command refitgen generates C# Refit clients from OpenAPI documents.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/refitgen/cmd/refitgen/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:], commands.Env{Stdout: os.Stdout, Stderr: os.Stderr})
	stop()
	os.Exit(code)
}
