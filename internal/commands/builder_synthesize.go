package commands

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/builder"
	"github.com/dsi-platform/dsi/internal/style"
	"github.com/dsi-platform/dsi/logging"
)

type BuilderSynthesizeFlags struct {
	DroidPath  string
	OutputFile string
}

// BuilderSynthesize renders the builder config for a droid without starting a build.
func BuilderSynthesize(logger logging.Logger, client DSIClient) *cobra.Command {
	var flags BuilderSynthesizeFlags
	cmd := &cobra.Command{
		Use:     "synthesize --droid <droid-file>",
		Args:    cobra.NoArgs,
		Short:   "Generate the builder config for a droid",
		Example: "dsi builder synthesize --droid droid.yml --output-file builder.toml",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			droid, err := ReadDroidFile(flags.DroidPath)
			if err != nil {
				return err
			}

			synthesis, err := client.SynthesizeBuilder(cmd.Context(), dsi.SynthesizeBuilderOptions{Droid: droid})
			if err != nil {
				return err
			}

			if flags.OutputFile == "" {
				return errors.Wrap(builder.Encode(logger.Writer(), synthesis.Config), "writing builder config")
			}

			if err := builder.WriteConfig(flags.OutputFile, synthesis.Config); err != nil {
				return err
			}
			logger.Infof("Builder config for stack %s written to %s", style.Symbol(droid.Stack.ID), style.Symbol(flags.OutputFile))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&flags.DroidPath, "droid", "d", "", "Path to the droid file (yaml or json)")
	cmd.Flags().StringVar(&flags.OutputFile, "output-file", "", "Write the builder config to this file instead of stdout")
	AddHelpFlag(cmd, "synthesize")
	if err := cmd.MarkFlagRequired("droid"); err != nil {
		panic(err)
	}
	return cmd
}
