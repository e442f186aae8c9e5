package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/refitgen/internal/cliutil"
	"github.com/erraggy/refitgen/internal/mcpserver"
)

func newMCPCommand(env Env) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve refitgen as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
generate and validate tools. Diagnostics are logged to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context(), cliutil.NewLogger(env.Stderr, verbose))
		},
	}
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log debug details to stderr")
	return cmd
}
