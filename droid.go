package dsi

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/stack"
	"github.com/dsi-platform/dsi/internal/style"
)

// Droid is a request to create a builder for an application.
type Droid struct {
	AppID      int64                  `json:"app_id" yaml:"app_id"`
	Repo       string                 `json:"repo" yaml:"repo"`
	Branch     string                 `json:"branch" yaml:"branch"`
	Buildpacks []*buildpack.Buildpack `json:"buildpacks" yaml:"buildpacks"`
	Env        []string               `json:"env" yaml:"env"`
	Stack      stack.Stack            `json:"stack" yaml:"stack"`
}

// Validate checks the parts of d needed to create a builder.
func (d *Droid) Validate() error {
	if d.AppID <= 0 {
		return errors.Errorf("app id must be positive, got %d", d.AppID)
	}
	if len(d.Buildpacks) == 0 {
		return errors.New("at least one buildpack must be provided")
	}
	for i, bp := range d.Buildpacks {
		if bp == nil || bp.URI == "" {
			return errors.Errorf("buildpack %d must provide a %s", i, style.Symbol("uri"))
		}
	}
	return errors.Wrap(d.Stack.Validate(), "invalid stack")
}

// IncompatibleStackError is returned when the requested stack is not supported by every buildpack.
type IncompatibleStackError struct {
	StackID    string
	Compatible []string
}

func (e *IncompatibleStackError) Error() string {
	return fmt.Sprintf("stack %s is not compatible with the given buildpacks, compatible stacks are: %s",
		style.Symbol(e.StackID), style.List(e.Compatible))
}
