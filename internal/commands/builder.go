package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi/logging"
)

func NewBuilderCommand(logger logging.Logger, client DSIClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "builder",
		Aliases: []string{"builders"},
		Short:   "Interact with builder configs",
		RunE:    nil,
	}

	cmd.AddCommand(BuilderSynthesize(logger, client))
	cmd.AddCommand(BuilderInspect(logger))
	AddHelpFlag(cmd, "builder")
	return cmd
}
