package fakes

import (
	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/logging"
)

type FakeStacksWriter struct {
	PrintText     string
	ErrorForPrint error

	ReceivedBuildpacks   []*buildpack.Buildpack
	ReceivedCommonStacks []string
}

func (w *FakeStacksWriter) Print(logger logging.Logger, buildpacks []*buildpack.Buildpack, commonStacks []string) error {
	w.ReceivedBuildpacks = buildpacks
	w.ReceivedCommonStacks = commonStacks

	logger.Info(w.PrintText)

	return w.ErrorForPrint
}
