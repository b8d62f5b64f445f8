package dsi

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/builder"
	"github.com/dsi-platform/dsi/internal/process"
	"github.com/dsi-platform/dsi/internal/stack"
	"github.com/dsi-platform/dsi/internal/stringset"
	"github.com/dsi-platform/dsi/internal/style"
)

// CreateDroidOptions holds the droid to create a builder for.
type CreateDroidOptions struct {
	Droid *Droid
}

// Build is a running builder creation.
type Build struct {
	PID          int
	ConfigPath   string
	CommonStacks []string
	// Output carries the combined output of the builder tool. It must be read to the end or closed.
	Output  io.ReadCloser
	Process *process.Process
}

// SynthesizeBuilderOptions holds the droid to synthesize a builder config for.
type SynthesizeBuilderOptions struct {
	Droid *Droid
}

// Synthesis is a builder config along with the stacks its buildpacks share.
type Synthesis struct {
	Config       builder.Config
	CommonStacks []string
}

// SynthesizeBuilder resolves the droid's buildpacks, checks its stack against the stacks they
// share and returns the builder config for it. Nothing is written.
func (c *Client) SynthesizeBuilder(ctx context.Context, opts SynthesizeBuilderOptions) (*Synthesis, error) {
	droid := opts.Droid
	if droid == nil {
		return nil, errors.New("a droid must be provided")
	}
	if err := droid.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid droid")
	}

	common, err := c.SuggestStacks(ctx, SuggestStacksOptions{Buildpacks: droid.Buildpacks})
	if err != nil {
		return nil, err
	}

	if !stringset.Contains(common, stack.Wildcard) && !stringset.Contains(common, droid.Stack.ID) {
		return nil, &IncompatibleStackError{StackID: droid.Stack.ID, Compatible: common}
	}

	return &Synthesis{
		Config:       builder.Synthesize(droid.Stack, droid.Buildpacks, builder.WithLifecycleVersion(c.lifecycleVersion)),
		CommonStacks: common,
	}, nil
}

// CreateDroid synthesizes the droid's builder config, persists it and starts the builder
// creation tool. Nothing is written or started unless every check passes.
func (c *Client) CreateDroid(ctx context.Context, opts CreateDroidOptions) (*Build, error) {
	synthesis, err := c.SynthesizeBuilder(ctx, SynthesizeBuilderOptions{Droid: opts.Droid})
	if err != nil {
		return nil, err
	}
	droid := opts.Droid

	configPath, err := c.orchestrator.Persist(synthesis.Config, droid.AppID)
	if err != nil {
		return nil, err
	}

	proc, err := c.orchestrator.Launch(ctx, droid.AppID, droid.Stack.ID, configPath)
	if err != nil {
		return nil, err
	}
	c.logger.Infof("Creating builder %s with %d buildpack(s)", style.Symbol(process.TargetImage(droid.AppID, droid.Stack.ID)), len(droid.Buildpacks))

	output, err := c.orchestrator.RegisterAndStream(proc)
	if err != nil {
		return nil, err
	}

	return &Build{
		PID:          proc.PID,
		ConfigPath:   configPath,
		CommonStacks: synthesis.CommonStacks,
		Output:       output,
		Process:      proc,
	}, nil
}
