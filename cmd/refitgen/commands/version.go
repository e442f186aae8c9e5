package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/erraggy/refitgen"
	"github.com/erraggy/refitgen/internal/cliutil"
)

func newVersionCommand(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show refitgen version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			cliutil.Writef(env.Stdout, "refitgen v%s\n", refitgen.Version())
			cliutil.Writef(env.Stdout, "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
