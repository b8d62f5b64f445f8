package stack_test

import (
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/dsi-platform/dsi/internal/stack"
	h "github.com/dsi-platform/dsi/testhelpers"
)

func TestStack(t *testing.T) {
	spec.Run(t, "Stack", testStack, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testStack(t *testing.T, when spec.G, it spec.S) {
	var valid stack.Stack

	it.Before(func() {
		valid = stack.Stack{ID: "heroku-20", BuildImage: "heroku/buildpacks:20", RunImage: "heroku/pack:20"}
	})

	when("#Validate", func() {
		it("accepts a complete stack", func() {
			h.AssertNil(t, valid.Validate())
		})

		it("requires an id", func() {
			valid.ID = ""
			h.AssertError(t, valid.Validate(), "stack id must be provided")
		})

		it("rejects the wildcard id", func() {
			valid.ID = "*"
			h.AssertError(t, valid.Validate(), "cannot be used for a builder")
		})

		it("requires a run image", func() {
			valid.RunImage = ""
			h.AssertError(t, valid.Validate(), "run-image")
		})

		it("rejects malformed image references", func() {
			valid.BuildImage = "Heroku/Buildpacks:20"
			h.AssertError(t, valid.Validate(), "invalid build-image")
		})
	})
}
