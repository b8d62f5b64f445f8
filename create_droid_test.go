package dsi_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/builder"
	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/process"
	"github.com/dsi-platform/dsi/internal/stack"
	h "github.com/dsi-platform/dsi/testhelpers"
	"github.com/dsi-platform/dsi/testmocks"
)

func TestCreateDroid(t *testing.T) {
	spec.Run(t, "CreateDroid", testCreateDroid, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testCreateDroid(t *testing.T, when spec.G, it spec.S) {
	var (
		mockController   *gomock.Controller
		mockRegistry     *testmocks.MockBuildpackRegistry
		mockOrchestrator *testmocks.MockProcessOrchestrator
		subject          *dsi.Client
		droid            *dsi.Droid
	)

	it.Before(func() {
		mockController = gomock.NewController(t)
		mockRegistry = testmocks.NewMockBuildpackRegistry(mockController)
		mockOrchestrator = testmocks.NewMockProcessOrchestrator(mockController)

		var err error
		subject, err = dsi.NewClient(
			dsi.WithRegistry(mockRegistry),
			dsi.WithOrchestrator(mockOrchestrator),
			dsi.WithLifecycleVersion("0.13.3"),
		)
		h.AssertNil(t, err)

		droid = &dsi.Droid{
			AppID:  1,
			Repo:   "github.com/rocket",
			Branch: "main",
			Buildpacks: []*buildpack.Buildpack{
				{URI: "heroku/nodejs"},
				{URI: "heroku/ruby@0.1.3"},
			},
			Env:   []string{"FOO=bar"},
			Stack: stack.Stack{ID: "heroku-18", BuildImage: "heroku/buildpacks:18", RunImage: "heroku/pack:18"},
		}
	})

	it.After(func() {
		mockController.Finish()
	})

	when("the droid is compatible", func() {
		it("persists the builder config and streams the tool output", func() {
			expectBuildpack(t, mockRegistry, "heroku/nodejs", `["heroku-18","heroku-20"]`, "0.3.0")
			expectBuildpack(t, mockRegistry, "heroku/ruby", `["heroku-18","heroku-20"]`, "0.1.3", "0.1.2")

			expectedConfig := builder.Config{
				Description: "Created by Droid",
				Stack:       droid.Stack,
				Buildpacks: []builder.BuildpackConfig{
					{ID: "heroku/nodejs", Version: "0.3.0", URI: "heroku/nodejs"},
					{ID: "heroku/ruby", Version: "0.1.3", URI: "heroku/ruby@0.1.3"},
				},
				Order: builder.Order{
					{Group: []builder.GroupEntry{{ID: "heroku/nodejs", Version: "0.3.0"}}},
					{Group: []builder.GroupEntry{{ID: "heroku/ruby", Version: "0.1.3"}}},
				},
				Lifecycle: builder.LifecycleConfig{Version: "0.13.3"},
			}

			proc := &process.Process{PID: 4242, AppID: 1, StackID: "heroku-18"}
			gomock.InOrder(
				mockOrchestrator.EXPECT().Persist(expectedConfig, int64(1)).Return("/builders/1/builder.toml", nil),
				mockOrchestrator.EXPECT().Launch(gomock.Any(), int64(1), "heroku-18", "/builders/1/builder.toml").Return(proc, nil),
				mockOrchestrator.EXPECT().RegisterAndStream(proc).Return(io.NopCloser(strings.NewReader("===> CREATING\n")), nil),
			)

			build, err := subject.CreateDroid(context.TODO(), dsi.CreateDroidOptions{Droid: droid})
			h.AssertNil(t, err)

			h.AssertEq(t, build.PID, 4242)
			h.AssertEq(t, build.ConfigPath, "/builders/1/builder.toml")
			h.AssertEq(t, build.CommonStacks, []string{"heroku-18", "heroku-20"})

			output, err := io.ReadAll(build.Output)
			h.AssertNil(t, err)
			h.AssertEq(t, string(output), "===> CREATING\n")
		})

		it("accepts any stack when every buildpack supports all stacks", func() {
			expectBuildpack(t, mockRegistry, "heroku/nodejs", `["*"]`, "0.3.0")
			expectBuildpack(t, mockRegistry, "heroku/ruby", `["*"]`, "0.1.3")

			proc := &process.Process{PID: 1}
			mockOrchestrator.EXPECT().Persist(gomock.Any(), int64(1)).Return("builder.toml", nil)
			mockOrchestrator.EXPECT().Launch(gomock.Any(), int64(1), "heroku-18", "builder.toml").Return(proc, nil)
			mockOrchestrator.EXPECT().RegisterAndStream(proc).Return(io.NopCloser(strings.NewReader("")), nil)

			build, err := subject.CreateDroid(context.TODO(), dsi.CreateDroidOptions{Droid: droid})
			h.AssertNil(t, err)
			h.AssertEq(t, build.CommonStacks, []string{"*"})
		})
	})

	when("the stack is not shared by the buildpacks", func() {
		it("fails listing the compatible stacks without persisting", func() {
			expectBuildpack(t, mockRegistry, "heroku/nodejs", `["heroku-20","heroku-22"]`, "0.3.0")
			expectBuildpack(t, mockRegistry, "heroku/ruby", `["heroku-20","heroku-22"]`, "0.1.3")

			_, err := subject.CreateDroid(context.TODO(), dsi.CreateDroidOptions{Droid: droid})

			var incompatible *dsi.IncompatibleStackError
			h.AssertTrue(t, errors.As(err, &incompatible))
			h.AssertEq(t, incompatible.StackID, "heroku-18")
			h.AssertEq(t, incompatible.Compatible, []string{"heroku-20", "heroku-22"})
		})
	})

	when("resolution fails", func() {
		it("does not persist or launch", func() {
			expectBuildpack(t, mockRegistry, "heroku/nodejs", `[]`, "0.3.0")

			_, err := subject.CreateDroid(context.TODO(), dsi.CreateDroidOptions{Droid: droid})

			var noStacks *buildpack.NoCompatibleStacksError
			h.AssertTrue(t, errors.As(err, &noStacks))
		})
	})

	when("the droid is invalid", func() {
		for _, tc := range []struct {
			name   string
			mutate func(d *dsi.Droid)
		}{
			{"app id is zero", func(d *dsi.Droid) { d.AppID = 0 }},
			{"buildpacks are empty", func(d *dsi.Droid) { d.Buildpacks = nil }},
			{"a buildpack has no uri", func(d *dsi.Droid) { d.Buildpacks[1] = &buildpack.Buildpack{} }},
			{"stack id is missing", func(d *dsi.Droid) { d.Stack.ID = "" }},
			{"run image is invalid", func(d *dsi.Droid) { d.Stack.RunImage = "Not A Ref" }},
		} {
			tc := tc
			it("fails before any lookup when the "+tc.name, func() {
				tc.mutate(droid)

				_, err := subject.CreateDroid(context.TODO(), dsi.CreateDroidOptions{Droid: droid})
				h.AssertError(t, err, "invalid droid")
			})
		}
	})

	when("#SynthesizeBuilder", func() {
		it("returns the config without persisting it", func() {
			expectBuildpack(t, mockRegistry, "heroku/nodejs", `["heroku-18"]`, "0.3.0")
			expectBuildpack(t, mockRegistry, "heroku/ruby", `["*"]`, "0.1.3")

			synthesis, err := subject.SynthesizeBuilder(context.TODO(), dsi.SynthesizeBuilderOptions{Droid: droid})
			h.AssertNil(t, err)

			h.AssertEq(t, synthesis.CommonStacks, []string{"heroku-18"})
			h.AssertEq(t, synthesis.Config.Lifecycle.Version, "0.13.3")
			h.AssertEq(t, len(synthesis.Config.Order), 2)
		})
	})

	when("launching fails", func() {
		it("returns the spawn error", func() {
			expectBuildpack(t, mockRegistry, "heroku/nodejs", `["heroku-18"]`, "0.3.0")
			expectBuildpack(t, mockRegistry, "heroku/ruby", `["heroku-18"]`, "0.1.3")

			mockOrchestrator.EXPECT().Persist(gomock.Any(), int64(1)).Return("builder.toml", nil)
			mockOrchestrator.EXPECT().Launch(gomock.Any(), int64(1), "heroku-18", "builder.toml").
				Return(nil, &process.SpawnError{Tool: "pack", Err: errors.New("executable file not found")})

			_, err := subject.CreateDroid(context.TODO(), dsi.CreateDroidOptions{Droid: droid})

			var spawnErr *process.SpawnError
			h.AssertTrue(t, errors.As(err, &spawnErr))
		})
	})
}
