package dsi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/registry"
	"github.com/dsi-platform/dsi/internal/stack"
	h "github.com/dsi-platform/dsi/testhelpers"
	"github.com/dsi-platform/dsi/testmocks"
)

func TestSuggestStacks(t *testing.T) {
	spec.Run(t, "SuggestStacks", testSuggestStacks, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testSuggestStacks(t *testing.T, when spec.G, it spec.S) {
	var (
		mockController   *gomock.Controller
		mockRegistry     *testmocks.MockBuildpackRegistry
		mockOrchestrator *testmocks.MockProcessOrchestrator
		subject          *dsi.Client
	)

	it.Before(func() {
		mockController = gomock.NewController(t)
		mockRegistry = testmocks.NewMockBuildpackRegistry(mockController)
		mockOrchestrator = testmocks.NewMockProcessOrchestrator(mockController)

		var err error
		subject, err = dsi.NewClient(dsi.WithRegistry(mockRegistry), dsi.WithOrchestrator(mockOrchestrator))
		h.AssertNil(t, err)
	})

	it.After(func() {
		mockController.Finish()
	})

	it("returns the stacks shared by nodejs and ruby", func() {
		expectBuildpack(t, mockRegistry, "heroku/nodejs", `["heroku-18","heroku-20"]`, "0.3.0")
		expectBuildpack(t, mockRegistry, "heroku/ruby", `["heroku-18","heroku-20"]`, "0.1.3")

		bps := []*buildpack.Buildpack{
			{URI: "urn:cnb:registry:heroku/nodejs"},
			{URI: "heroku/ruby"},
		}
		common, err := subject.SuggestStacks(context.TODO(), dsi.SuggestStacksOptions{Buildpacks: bps})
		h.AssertNil(t, err)

		h.AssertEq(t, common, []string{"heroku-18", "heroku-20"})
		h.AssertEq(t, bps[0].ID, "heroku/nodejs")
		h.AssertEq(t, bps[1].Version, "0.1.3")
	})

	it("ignores a wildcard buildpack", func() {
		expectBuildpack(t, mockRegistry, "heroku/nodejs", `["heroku-18","heroku-20"]`, "0.3.0")
		expectBuildpack(t, mockRegistry, "heroku/ruby", `["heroku-18","heroku-20"]`, "0.1.3")
		expectBuildpack(t, mockRegistry, "heroku/procfile", `["*"]`, "1.0.0")

		common, err := subject.SuggestStacks(context.TODO(), dsi.SuggestStacksOptions{Buildpacks: []*buildpack.Buildpack{
			{URI: "heroku/nodejs"},
			{URI: "heroku/ruby"},
			{URI: "heroku/procfile"},
		}})
		h.AssertNil(t, err)
		h.AssertEq(t, common, []string{"heroku-18", "heroku-20"})
	})

	it("does not fetch buildpacks that are already resolved", func() {
		expectBuildpack(t, mockRegistry, "heroku/ruby", `["heroku-20","heroku-22"]`, "0.1.3")

		common, err := subject.SuggestStacks(context.TODO(), dsi.SuggestStacksOptions{Buildpacks: []*buildpack.Buildpack{
			{URI: "heroku/nodejs", ID: "heroku/nodejs", Version: "0.3.0", CompatibleStacks: []string{"heroku-18", "heroku-20"}},
			{URI: "heroku/ruby"},
		}})
		h.AssertNil(t, err)
		h.AssertEq(t, common, []string{"heroku-20"})
	})

	it("stops at the first buildpack that empties the set", func() {
		expectBuildpack(t, mockRegistry, "heroku/nodejs", `["heroku-18"]`, "0.3.0")
		expectBuildpack(t, mockRegistry, "heroku/ruby", `["heroku-20"]`, "0.1.3")

		_, err := subject.SuggestStacks(context.TODO(), dsi.SuggestStacksOptions{Buildpacks: []*buildpack.Buildpack{
			{URI: "heroku/nodejs"},
			{URI: "heroku/ruby"},
			{URI: "heroku/never-fetched"},
		}})

		var noCommon *stack.NoCommonStackError
		h.AssertTrue(t, errors.As(err, &noCommon))
		h.AssertEq(t, noCommon.Buildpack, "heroku/ruby")
	})

	it("propagates registry failures", func() {
		mockRegistry.EXPECT().
			FetchInfo(gomock.Any(), "heroku/nodejs").
			Return(registry.Record{}, &registry.FetchError{ID: "heroku/nodejs", Kind: registry.ErrRegistryMalformed, Err: errors.New("bad json")})

		_, err := subject.SuggestStacks(context.TODO(), dsi.SuggestStacksOptions{Buildpacks: []*buildpack.Buildpack{{URI: "heroku/nodejs"}}})
		h.AssertTrue(t, errors.Is(err, registry.ErrRegistryMalformed))
	})

	it("fails without buildpacks", func() {
		_, err := subject.SuggestStacks(context.TODO(), dsi.SuggestStacksOptions{})
		h.AssertTrue(t, errors.Is(err, stack.ErrNoBuildpacks))
	})

	it("fails for a buildpack without a uri", func() {
		_, err := subject.SuggestStacks(context.TODO(), dsi.SuggestStacksOptions{Buildpacks: []*buildpack.Buildpack{{}}})
		h.AssertError(t, err, "buildpack 0 must provide a")
	})
}
