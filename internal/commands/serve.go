package commands

import (
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi/internal/config"
	"github.com/dsi-platform/dsi/internal/server"
	"github.com/dsi-platform/dsi/logging"
)

type ServeFlags struct {
	ListenAddr string
}

// Serve runs the HTTP API until interrupted.
func Serve(logger logging.Logger, cfg config.Config, client DSIClient) *cobra.Command {
	var flags ServeFlags
	cmd := &cobra.Command{
		Use:     "serve",
		Args:    cobra.NoArgs,
		Short:   "Serve the droid API over HTTP",
		Example: "dsi serve --listen :8000",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			logger.Debugf("Builder configs are kept in %s", cfg.ConfigDir)
			api := server.New(client, logger)
			return server.Serve(cmd.Context(), flags.ListenAddr, api.Handler(), logger)
		}),
	}

	cmd.Flags().StringVarP(&flags.ListenAddr, "listen", "l", cfg.ListenAddr, "Address to listen on")
	AddHelpFlag(cmd, "serve")
	return cmd
}
