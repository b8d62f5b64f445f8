package fakes

import (
	"context"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/process"
)

type FakeDSIClient struct {
	CommonStacks       []string
	ErrorForSuggest    error
	Synthesis          *dsi.Synthesis
	ErrorForSynthesize error
	Build              *dsi.Build
	ErrorForCreate     error
	Snapshots          []process.Snapshot

	ReceivedSuggestOptions    dsi.SuggestStacksOptions
	ReceivedSynthesizeOptions dsi.SynthesizeBuilderOptions
	ReceivedCreateOptions     dsi.CreateDroidOptions
}

func (c *FakeDSIClient) SuggestStacks(_ context.Context, opts dsi.SuggestStacksOptions) ([]string, error) {
	c.ReceivedSuggestOptions = opts
	return c.CommonStacks, c.ErrorForSuggest
}

func (c *FakeDSIClient) SynthesizeBuilder(_ context.Context, opts dsi.SynthesizeBuilderOptions) (*dsi.Synthesis, error) {
	c.ReceivedSynthesizeOptions = opts
	return c.Synthesis, c.ErrorForSynthesize
}

func (c *FakeDSIClient) CreateDroid(_ context.Context, opts dsi.CreateDroidOptions) (*dsi.Build, error) {
	c.ReceivedCreateOptions = opts
	return c.Build, c.ErrorForCreate
}

func (c *FakeDSIClient) Processes() []process.Snapshot {
	return c.Snapshots
}
