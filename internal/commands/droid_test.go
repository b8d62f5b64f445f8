package commands_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/commands"
	"github.com/dsi-platform/dsi/internal/commands/fakes"
	"github.com/dsi-platform/dsi/internal/process"
	"github.com/dsi-platform/dsi/logging"
	h "github.com/dsi-platform/dsi/testhelpers"
)

func TestDroidCommand(t *testing.T) {
	color.NoColor = true
	spec.Run(t, "DroidCommand", testDroidCommand, spec.Report(report.Terminal{}))
}

func testDroidCommand(t *testing.T, when spec.G, it spec.S) {
	var (
		command   *cobra.Command
		outBuf    bytes.Buffer
		client    *fakes.FakeDSIClient
		droidPath string
	)

	it.Before(func() {
		outBuf = bytes.Buffer{}
		droidPath = writeFile(t, t.TempDir(), "droid.yml", droidYAML)
		client = &fakes.FakeDSIClient{}

		command = commands.NewDroidCommand(logging.NewLogWithWriters(&outBuf, &outBuf), client)
	})

	when("create", func() {
		it("streams the builder output", func() {
			client.Build = &dsi.Build{
				PID:    1234,
				Output: io.NopCloser(strings.NewReader("===> CREATING\nSuccessfully created builder image\n")),
			}

			command.SetArgs([]string{"create", "--droid", droidPath})
			h.AssertNil(t, command.Execute())

			h.AssertEq(t, client.ReceivedCreateOptions.Droid.AppID, int64(42))
			h.AssertEq(t, client.ReceivedCreateOptions.Droid.Stack.ID, "heroku-20")
			h.AssertContains(t, outBuf.String(), "===> CREATING")
			h.AssertContains(t, outBuf.String(), "Successfully created builder '42:heroku-20'")
		})

		it("reports a failed builder process", func() {
			pr, pw := io.Pipe()
			go func() {
				_, _ = pw.Write([]byte("partial\n"))
				pw.CloseWithError(&process.ExitError{PID: 1234, Code: 3})
			}()
			client.Build = &dsi.Build{PID: 1234, Output: pr}

			command.SetArgs([]string{"create", "--droid", droidPath})
			err := command.Execute()
			h.AssertError(t, err, "creating builder '42:heroku-20': process 1234 exited with code 3")

			var exitErr *process.ExitError
			h.AssertTrue(t, errors.As(err, &exitErr))
			h.AssertContains(t, outBuf.String(), "partial")
			h.AssertNotContains(t, outBuf.String(), "Successfully created")
		})

		it("reports failures before launch", func() {
			client.ErrorForCreate = errors.New("invalid droid")

			command.SetArgs([]string{"create", "--droid", droidPath})
			h.AssertError(t, command.Execute(), "invalid droid")
			h.AssertContains(t, outBuf.String(), "ERROR: invalid droid")
		})
	})
}
