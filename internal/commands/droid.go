package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi/logging"
)

func NewDroidCommand(logger logging.Logger, client DSIClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "droid",
		Aliases: []string{"droids"},
		Short:   "Create builders for applications",
		RunE:    nil,
	}

	cmd.AddCommand(DroidCreate(logger, client))
	AddHelpFlag(cmd, "droid")
	return cmd
}
