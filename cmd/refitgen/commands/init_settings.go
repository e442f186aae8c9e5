package commands

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/erraggy/refitgen/internal/cliutil"
	"github.com/erraggy/refitgen/internal/fileutil"
	"github.com/erraggy/refitgen/rgerrors"
	"github.com/erraggy/refitgen/settings"
)

// DefaultSettingsFile is where init-settings writes by default.
const DefaultSettingsFile = ".refitter"

func newInitSettingsCommand(env Env) *cobra.Command {
	var (
		args  settings.CLIArgs
		file  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init-settings [flags] <openapi-path-or-url>",
		Short: "Write a settings document from generation flags",
		Long: `Write the settings a generation run with the same flags would use to a
settings document. The format follows the file extension: .yaml and .yml
write YAML, anything else JSON. Pass the document to later runs with
--settings-file.`,
		Example: `  refitgen init-settings ./openapi.json -n Petstore --cancellation-tokens
  refitgen init-settings ./openapi.json --file petstore.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, pos []string) error {
			args.OpenAPIPath = pos[0]
			if err := writeSettings(args, file, force); err != nil {
				return err
			}
			cliutil.Writef(env.Stdout, "Settings written to %s\n", file)
			return nil
		},
	}
	bindSettingsFlags(cmd, &args)
	cmd.Flags().StringVarP(&file, "file", "f", DefaultSettingsFile, "settings document to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings document")
	return cmd
}

func writeSettings(args settings.CLIArgs, path string, force bool) error {
	s, err := settings.FromArgs(args)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return rgerrors.Configuration("file", path+" already exists; use --force to overwrite", nil)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return rgerrors.Write(path, "", err)
		}
	}
	data, err := settings.Encode(s, settings.FormatFromPath(path))
	if err != nil {
		return rgerrors.Configuration("", "encoding settings", err)
	}
	if err := fileutil.WriteAtomic(path, data, fileutil.OwnerReadWrite); err != nil {
		return rgerrors.Write(path, "", err)
	}
	return nil
}
