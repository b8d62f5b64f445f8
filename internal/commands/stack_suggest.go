package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/logging"
)

type StackSuggestFlags struct {
	OutputFormat string
}

// StackSuggest shows the stacks every given buildpack is compatible with.
func StackSuggest(logger logging.Logger, client DSIClient, writerFactory StacksWriterFactory) *cobra.Command {
	var flags StackSuggestFlags
	cmd := &cobra.Command{
		Use:     "suggest <buildpack>...",
		Args:    cobra.MinimumNArgs(1),
		Short:   "Show the stacks a set of buildpacks have in common",
		Example: "dsi stack suggest heroku/nodejs urn:cnb:registry:heroku/procfile@1.0.0",
		Long: "Look up each buildpack in the buildpack registry and show the stacks they are all compatible with. " +
			"A buildpack may be pinned to a version with '@<version>'.",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			w, err := writerFactory.Writer(flags.OutputFormat)
			if err != nil {
				return err
			}

			buildpacks := make([]*buildpack.Buildpack, 0, len(args))
			for _, arg := range args {
				buildpacks = append(buildpacks, &buildpack.Buildpack{URI: arg})
			}

			common, err := client.SuggestStacks(cmd.Context(), dsi.SuggestStacksOptions{Buildpacks: buildpacks})
			if err != nil {
				return err
			}

			return w.Print(logger, buildpacks, common)
		}),
	}

	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", "human-readable", "Output format to display the suggestion (human-readable, json, yaml, toml)")
	AddHelpFlag(cmd, "suggest")
	return cmd
}
