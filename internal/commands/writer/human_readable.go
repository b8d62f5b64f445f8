package writer

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/stack"
	"github.com/dsi-platform/dsi/internal/style"
	"github.com/dsi-platform/dsi/logging"
)

const (
	writerMinWidth = 0
	writerTabWidth = 0
	writerPadding  = 4
	writerPadChar  = ' '
	writerFlags    = 0
	none           = "(none)"
	anyStack       = "(any)"
)

type HumanReadable struct{}

func NewHumanReadable() *HumanReadable {
	return &HumanReadable{}
}

func (h *HumanReadable) Print(logger logging.Logger, buildpacks []*buildpack.Buildpack, commonStacks []string) error {
	buf := &bytes.Buffer{}
	tw := tabwriter.NewWriter(buf, writerMinWidth, writerTabWidth, writerPadding, writerPadChar, writerFlags)

	fmt.Fprintln(tw, "  ID\tVERSION\tSTACKS")
	for _, bp := range buildpacks {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", valueOr(bp.ID, bp.URI), valueOr(bp.Version, none), stacksText(bp.CompatibleStacks))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	logger.Info("Buildpacks:")
	logger.Info(strings.TrimSuffix(buf.String(), "\n"))
	logger.Info("")
	logger.Infof("Common stacks: %s", commonStacksText(commonStacks))
	return nil
}

func stacksText(stacks []string) string {
	if len(stacks) == 1 && stacks[0] == stack.Wildcard {
		return anyStack
	}
	if len(stacks) == 0 {
		return none
	}
	return strings.Join(stacks, ", ")
}

func commonStacksText(stacks []string) string {
	if len(stacks) == 1 && stacks[0] == stack.Wildcard {
		return anyStack
	}
	return style.List(stacks)
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
