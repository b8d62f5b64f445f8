package builder

import (
	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/stack"
)

// DefaultDescription describes every synthesized builder.
const DefaultDescription = "Created by Droid"

// Config is the builder.toml document handed to the builder creation tool.
type Config struct {
	Description string            `toml:"description"`
	Stack       stack.Stack       `toml:"stack"`
	Buildpacks  []BuildpackConfig `toml:"buildpacks"`
	Order       Order             `toml:"order"`
	Lifecycle   LifecycleConfig   `toml:"lifecycle,omitempty"`
}

type BuildpackConfig struct {
	ID      string `toml:"id"`
	Version string `toml:"version,omitempty"`
	URI     string `toml:"uri"`
}

// Order lists the detection groups of a builder, evaluated in sequence.
type Order []OrderEntry

type OrderEntry struct {
	Group []GroupEntry `toml:"group"`
}

type GroupEntry struct {
	ID       string `toml:"id"`
	Version  string `toml:"version,omitempty"`
	Optional *bool  `toml:"optional,omitempty"`
}

type LifecycleConfig struct {
	Version string `toml:"version,omitempty"`
}

type synthesizeOptions struct {
	lifecycleVersion string
	description      string
}

// SynthesizeOption customizes Synthesize.
type SynthesizeOption func(*synthesizeOptions)

// WithLifecycleVersion pins the lifecycle version of the builder.
func WithLifecycleVersion(version string) SynthesizeOption {
	return func(o *synthesizeOptions) {
		o.lifecycleVersion = version
	}
}

// WithDescription replaces the default description.
func WithDescription(description string) SynthesizeOption {
	return func(o *synthesizeOptions) {
		o.description = description
	}
}

// Synthesize builds the builder config for s and the resolved buildpacks bps. Each buildpack
// becomes its own order entry holding a single group, in the order given.
func Synthesize(s stack.Stack, bps []*buildpack.Buildpack, opts ...SynthesizeOption) Config {
	o := synthesizeOptions{description: DefaultDescription}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := Config{
		Description: o.description,
		Stack:       s,
		Buildpacks:  make([]BuildpackConfig, 0, len(bps)),
		Order:       make(Order, 0, len(bps)),
		Lifecycle:   LifecycleConfig{Version: o.lifecycleVersion},
	}

	for _, bp := range bps {
		id := bp.ID
		if id == "" {
			id, _ = buildpack.ParseReference(bp.URI)
		}

		cfg.Buildpacks = append(cfg.Buildpacks, BuildpackConfig{
			ID:      id,
			Version: bp.Version,
			URI:     bp.URI,
		})

		var optional *bool
		if bp.Optional != nil {
			value := *bp.Optional
			optional = &value
		}
		cfg.Order = append(cfg.Order, OrderEntry{
			Group: []GroupEntry{{ID: id, Version: bp.Version, Optional: optional}},
		})
	}

	return cfg
}
