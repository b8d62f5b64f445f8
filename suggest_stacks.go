package dsi

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/stack"
	"github.com/dsi-platform/dsi/internal/style"
)

// SuggestStacksOptions lists the buildpacks to find common stacks for.
type SuggestStacksOptions struct {
	// Buildpacks are resolved in place when they have not been resolved yet.
	Buildpacks []*buildpack.Buildpack
}

// SuggestStacks returns the stacks every buildpack is compatible with, in the order the first
// constraining buildpack declares them. Buildpacks are resolved one at a time and folded in as
// they are, so the first failure stops the remaining lookups. ["*"] means any stack.
func (c *Client) SuggestStacks(ctx context.Context, opts SuggestStacksOptions) ([]string, error) {
	if len(opts.Buildpacks) == 0 {
		return nil, stack.ErrNoBuildpacks
	}

	var (
		compat stack.Compatibility
		err    error
	)
	for i, bp := range opts.Buildpacks {
		if bp == nil || bp.URI == "" {
			return nil, errors.Errorf("buildpack %d must provide a %s", i, style.Symbol("uri"))
		}
		if !bp.Resolved() {
			if err := c.resolver.Resolve(ctx, bp); err != nil {
				return nil, err
			}
		}

		if i == 0 {
			compat = stack.Seed(bp.CompatibleStacks)
			continue
		}
		if compat, err = compat.Narrow(bp); err != nil {
			return nil, err
		}
	}

	return compat.Common()
}
