package stack

import (
	"github.com/distribution/reference"
	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/internal/style"
)

// Wildcard is the stack id a buildpack declares to support every stack.
const Wildcard = "*"

// Stack is the pair of build and run images a builder is created for. Identity is ID.
type Stack struct {
	ID         string `json:"id" yaml:"id" toml:"id"`
	BuildImage string `json:"build-image" yaml:"build-image" toml:"build-image"`
	RunImage   string `json:"run-image" yaml:"run-image" toml:"run-image"`
}

// Validate checks that s names a stack id and well formed image references.
func (s Stack) Validate() error {
	if s.ID == "" {
		return errors.New("stack id must be provided")
	}
	if s.ID == Wildcard {
		return errors.Errorf("stack id %s cannot be used for a builder", style.Symbol(s.ID))
	}

	for key, image := range map[string]string{"build-image": s.BuildImage, "run-image": s.RunImage} {
		if image == "" {
			return errors.Errorf("stack %s must provide a %s", style.Symbol(s.ID), style.Symbol(key))
		}
		if _, err := reference.ParseNormalizedNamed(image); err != nil {
			return errors.Wrapf(err, "invalid %s %s for stack %s", key, style.Symbol(image), style.Symbol(s.ID))
		}
	}
	return nil
}
