package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/commands"
	"github.com/dsi-platform/dsi/internal/commands/writer"
	"github.com/dsi-platform/dsi/internal/config"
	"github.com/dsi-platform/dsi/logging"
)

// Version is set at build time.
var Version = "0.0.0"

// ConfigurableLogger defines behavior required by the DSICommand
type ConfigurableLogger interface {
	logging.Logger
	WantTime(f bool)
	WantQuiet(f bool)
	WantVerbose(f bool)
}

// NewDSICommand generates a dsi command
func NewDSICommand(logger ConfigurableLogger) (*cobra.Command, error) {
	cobra.EnableCommandSorting = false
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	client, err := initClient(logger, cfg)
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:   "dsi",
		Short: "CLI for creating buildpack builders for applications",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if fs := cmd.Flags(); fs != nil {
				if flag, err := fs.GetBool("no-color"); err == nil && flag {
					color.NoColor = true
				}
				if flag, err := fs.GetBool("quiet"); err == nil {
					logger.WantQuiet(flag)
				}
				if flag, err := fs.GetBool("verbose"); err == nil {
					logger.WantVerbose(flag)
				}
				if flag, err := fs.GetBool("timestamps"); err == nil {
					logger.WantTime(flag)
				}
			}
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return client.Close()
		},
	}

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	rootCmd.PersistentFlags().Bool("timestamps", false, "Enable timestamps in output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Show less output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show more output")
	rootCmd.Flags().Bool("version", false, "Show current 'dsi' version")

	commands.AddHelpFlag(rootCmd, "dsi")

	rootCmd.AddCommand(commands.NewStackCommand(logger, client, writer.NewFactory()))
	rootCmd.AddCommand(commands.NewBuilderCommand(logger, client))
	rootCmd.AddCommand(commands.NewDroidCommand(logger, client))
	rootCmd.AddCommand(commands.Serve(logger, cfg, client))
	rootCmd.AddCommand(commands.Version(logger, Version))

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{.Version}}{{"\n"}}`)
	rootCmd.SetOut(logging.GetWriterForLevel(logger, log.InfoLevel))
	rootCmd.SetErr(logging.GetWriterForLevel(logger, log.ErrorLevel))

	return rootCmd, nil
}

func initConfig() (config.Config, error) {
	path, err := config.DefaultConfigPath()
	if err != nil {
		return config.Config{}, errors.Wrap(err, "getting config path")
	}

	cfg, err := config.Load(path, os.Environ())
	if err != nil {
		return config.Config{}, errors.Wrap(err, "reading dsi config")
	}
	return cfg, nil
}

func initClient(logger logging.Logger, cfg config.Config) (*dsi.Client, error) {
	return dsi.NewClient(
		dsi.WithLogger(logger),
		dsi.WithRegistryURL(cfg.RegistryURL),
		dsi.WithRegistryCacheTTL(cfg.RegistryCacheTTL),
		dsi.WithConfigDir(cfg.ConfigDir),
		dsi.WithBuilderTool(cfg.BuilderTool),
		dsi.WithKillOnDisconnect(cfg.KillOnDisconnect),
		dsi.WithLifecycleVersion(cfg.LifecycleVersion),
	)
}
