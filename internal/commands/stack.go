package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi/logging"
)

func NewStackCommand(logger logging.Logger, client DSIClient, writerFactory StacksWriterFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stack",
		Aliases: []string{"stacks"},
		Short:   "Interact with stacks",
		RunE:    nil,
	}

	cmd.AddCommand(StackSuggest(logger, client, writerFactory))
	AddHelpFlag(cmd, "stack")
	return cmd
}
