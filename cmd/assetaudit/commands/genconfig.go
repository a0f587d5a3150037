package commands

import (
	"fmt"
	"os"

	"github.com/arthur-debert/assetaudit/pkg/config"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/filesystem"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/paths"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !write {
				_, err := fmt.Fprint(out, config.DefaultsContent())
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, errors.ErrFileAccess, MsgErrWorkingDir)
			}
			found, err := paths.FindProject(opts.project, cwd)
			if err != nil {
				return err
			}
			path, written, err := config.WriteDefaults(filesystem.NewOS(), found.Root)
			if err != nil {
				return err
			}
			if !written {
				logger := logging.GetLogger("cmd.genconfig")
				logger.Warn().Str("path", path).Msg("Config file already exists, skipping")
				fmt.Fprintf(out, MsgConfigExists, path)
				return nil
			}
			fmt.Fprintf(out, MsgConfigWritten, path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}
