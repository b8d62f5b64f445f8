package stack

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/stringset"
	"github.com/dsi-platform/dsi/internal/style"
)

var (
	// ErrNoBuildpacks is returned when there is nothing to intersect.
	ErrNoBuildpacks = errors.New("at least one buildpack is required")
	// ErrUnresolved is returned when a buildpack has not been resolved before intersection.
	ErrUnresolved = errors.New("buildpack has not been resolved")
)

// NoCommonStackError is returned when no stack satisfies every buildpack. Buildpack names the
// buildpack that emptied the set, and is empty when the failure is global.
type NoCommonStackError struct {
	Buildpack string
}

func (e *NoCommonStackError) Error() string {
	if e.Buildpack == "" {
		return "no common stack found for the given buildpacks"
	}
	return fmt.Sprintf("no common stack found for buildpack %s", style.Symbol(e.Buildpack))
}

// Compatibility is the running result of folding buildpack stacks together. It is either
// unconstrained (every stack is acceptable) or constrained to an ordered list of stack ids.
type Compatibility struct {
	constrained bool
	stacks      []string
}

// Unconstrained accepts every stack.
func Unconstrained() Compatibility {
	return Compatibility{}
}

// Constrained accepts exactly ids, duplicates removed.
func Constrained(ids []string) Compatibility {
	return Compatibility{constrained: true, stacks: stringset.Dedupe(ids)}
}

// Seed starts a fold from the stacks of the first buildpack.
func Seed(stacks []string) Compatibility {
	if stringset.Contains(stacks, Wildcard) {
		return Unconstrained()
	}
	return Constrained(stacks)
}

// IsConstrained reports whether the compatibility excludes some stacks.
func (c Compatibility) IsConstrained() bool {
	return c.constrained
}

// Stacks returns the accepted stack ids. An unconstrained compatibility is published as the wildcard.
func (c Compatibility) Stacks() []string {
	if !c.constrained {
		return []string{Wildcard}
	}
	return append([]string{}, c.stacks...)
}

// Narrow folds the stacks of bp into c. A buildpack declaring the wildcard leaves c unchanged.
func (c Compatibility) Narrow(bp *buildpack.Buildpack) (Compatibility, error) {
	if !bp.Resolved() {
		return c, errors.Wrapf(ErrUnresolved, "buildpack %s", style.Symbol(bp.URI))
	}

	if stringset.Contains(bp.CompatibleStacks, Wildcard) {
		return c, nil
	}

	if !c.constrained {
		return Constrained(bp.CompatibleStacks), nil
	}

	matching := stringset.Retain(c.stacks, stringset.FromSlice(bp.CompatibleStacks))
	if len(matching) == 0 {
		return c, &NoCommonStackError{Buildpack: bp.URI}
	}
	return Compatibility{constrained: true, stacks: matching}, nil
}

// Fold folds buildpacks in order, the first one seeding the result.
func Fold(bps []*buildpack.Buildpack) (Compatibility, error) {
	if len(bps) == 0 {
		return Compatibility{}, ErrNoBuildpacks
	}

	var (
		result Compatibility
		err    error
	)
	for i, bp := range bps {
		if !bp.Resolved() {
			return Compatibility{}, errors.Wrapf(ErrUnresolved, "buildpack %s", style.Symbol(bp.URI))
		}
		if i == 0 {
			result = Seed(bp.CompatibleStacks)
			continue
		}
		if result, err = result.Narrow(bp); err != nil {
			return Compatibility{}, err
		}
	}
	return result, nil
}

// Intersect returns the stack ids every buildpack is compatible with, in the order the first
// constraining buildpack lists them. Every buildpack must be resolved. When every buildpack
// declares the wildcard the result is ["*"].
func Intersect(bps []*buildpack.Buildpack) ([]string, error) {
	result, err := Fold(bps)
	if err != nil {
		return nil, err
	}
	return result.Common()
}

// Common returns the accepted stack ids, failing with a global NoCommonStackError when none remain.
func (c Compatibility) Common() ([]string, error) {
	stacks := c.Stacks()
	if len(stacks) == 0 {
		return nil, &NoCommonStackError{}
	}
	return stacks, nil
}
