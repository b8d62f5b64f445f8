package commands

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi/builder"
	"github.com/dsi-platform/dsi/internal/style"
	"github.com/dsi-platform/dsi/logging"
)

const (
	writerMinWidth  = 0
	writerTabWidth  = 0
	defaultTabWidth = 4
	writerPadChar   = ' '
	writerFlags     = 0
	none            = "(none)"
)

const builderConfigTemplate = `Description: {{ .Config.Description }}

Stack:
  ID: {{ .Config.Stack.ID }}
  Build Image: {{ .Config.Stack.BuildImage }}
  Run Image: {{ .Config.Stack.RunImage }}

Lifecycle:
  Version: {{ .Lifecycle }}

Buildpacks:
{{ .Buildpacks }}
Detection Order:
{{ .Order }}`

// BuilderInspect summarizes a builder config file.
func BuilderInspect(logger logging.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspect <builder-config>",
		Args:    cobra.ExactArgs(1),
		Short:   "Show information about a builder config",
		Example: "dsi builder inspect ~/.dsi/builders/42/builder.toml",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			cfg, warnings, err := builder.ReadConfig(args[0])
			if err != nil {
				return err
			}

			for _, w := range warnings {
				logger.Warn(w)
			}

			out, err := inspectBuilderConfig(cfg)
			if err != nil {
				return err
			}

			logger.Infof("Inspecting builder config: %s\n", style.Symbol(args[0]))
			logger.Info(out)
			return nil
		}),
	}

	AddHelpFlag(cmd, "inspect")
	return cmd
}

func inspectBuilderConfig(cfg builder.Config) (string, error) {
	tpl := template.Must(template.New("").Parse(builderConfigTemplate))

	lifecycle := cfg.Lifecycle.Version
	if lifecycle == "" {
		lifecycle = none
	}

	buildpacks, err := buildpacksOutput(cfg.Buildpacks)
	if err != nil {
		return "", err
	}

	order, err := orderOutput(cfg.Order)
	if err != nil {
		return "", err
	}

	buf := &bytes.Buffer{}
	err = tpl.Execute(buf, &struct {
		Config     builder.Config
		Lifecycle  string
		Buildpacks string
		Order      string
	}{
		Config:     cfg,
		Lifecycle:  lifecycle,
		Buildpacks: buildpacks,
		Order:      order,
	})
	if err != nil {
		return "", errors.Wrap(err, "rendering builder config")
	}
	return buf.String(), nil
}

func buildpacksOutput(buildpacks []builder.BuildpackConfig) (string, error) {
	if len(buildpacks) == 0 {
		return fmt.Sprintf("  %s\n", none), nil
	}

	buf := &bytes.Buffer{}
	tw := tabwriter.NewWriter(buf, writerMinWidth, writerTabWidth, defaultTabWidth, writerPadChar, writerFlags)
	fmt.Fprint(tw, "  ID\tVERSION\tURI\n")
	for _, bp := range buildpacks {
		version := bp.Version
		if version == "" {
			version = none
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", bp.ID, version, bp.URI)
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func orderOutput(order builder.Order) (string, error) {
	if len(order) == 0 {
		return fmt.Sprintf("  %s\n", none), nil
	}

	buf := &bytes.Buffer{}
	tw := tabwriter.NewWriter(buf, writerMinWidth, writerTabWidth, defaultTabWidth, writerPadChar, writerFlags)
	for i, entry := range order {
		fmt.Fprintf(tw, "  Group #%d:\n", i+1)
		for _, ref := range entry.Group {
			id := ref.ID
			if ref.Version != "" {
				id += "@" + ref.Version
			}
			optional := ""
			if ref.Optional != nil && *ref.Optional {
				optional = "(optional)"
			}
			fmt.Fprintf(tw, "    %s\t%s\n", id, optional)
		}
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
