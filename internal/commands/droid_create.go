package commands

import (
	"io"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/process"
	"github.com/dsi-platform/dsi/internal/style"
	"github.com/dsi-platform/dsi/logging"
)

type DroidCreateFlags struct {
	DroidPath string
}

// DroidCreate synthesizes a droid's builder config and runs the builder creation tool,
// streaming its output until it exits.
func DroidCreate(logger logging.Logger, client DSIClient) *cobra.Command {
	var flags DroidCreateFlags
	cmd := &cobra.Command{
		Use:     "create --droid <droid-file>",
		Args:    cobra.NoArgs,
		Short:   "Create the builder for a droid",
		Example: "dsi droid create --droid droid.yml",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			droid, err := ReadDroidFile(flags.DroidPath)
			if err != nil {
				return err
			}

			build, err := client.CreateDroid(cmd.Context(), dsi.CreateDroidOptions{Droid: droid})
			if err != nil {
				return err
			}
			defer build.Output.Close()

			target := process.TargetImage(droid.AppID, droid.Stack.ID)
			logger.Debugf("Builder config written to %s", style.Symbol(build.ConfigPath))

			if _, err := io.Copy(logging.GetWriterForLevel(logger, log.InfoLevel), build.Output); err != nil {
				return errors.Wrapf(err, "creating builder %s", style.Symbol(target))
			}

			logger.Infof("Successfully created builder %s", style.Symbol(target))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&flags.DroidPath, "droid", "d", "", "Path to the droid file (yaml or json)")
	AddHelpFlag(cmd, "create")
	if err := cmd.MarkFlagRequired("droid"); err != nil {
		panic(err)
	}
	return cmd
}
