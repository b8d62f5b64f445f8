package logging_test

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/dsi-platform/dsi/logging"
	h "github.com/dsi-platform/dsi/testhelpers"
)

const (
	testTime = "2019/05/15 01:01:01.000000"
	timeFmt  = "2006/01/02 15:04:05.000000"
)

func TestLogWithWriters(t *testing.T) {
	color.NoColor = true
	spec.Run(t, "LogWithWriters", testLogWithWriters, spec.Parallel(), spec.Report(report.Terminal{}))
}

func testLogWithWriters(t *testing.T, when spec.G, it spec.S) {
	var (
		logger    *logging.LogWithWriters
		outBuf    bytes.Buffer
		errBuf    bytes.Buffer
		clockFunc func() time.Time
	)

	it.Before(func() {
		outBuf.Reset()
		errBuf.Reset()
		clockFunc = func() time.Time {
			clock, _ := time.Parse(timeFmt, testTime)
			return clock
		}
		logger = logging.NewLogWithWriters(&outBuf, &errBuf, logging.WithClock(clockFunc))
	})

	when("default", func() {
		it("has no time and no debug output", func() {
			logger.Info("some info")
			logger.Debug("some debug")
			h.AssertEq(t, outBuf.String(), "some info\n")
			h.AssertEq(t, logger.IsVerbose(), false)
		})

		it("prefixes warnings", func() {
			logger.Warnf("version %s not found", "1.0.0")
			h.AssertEq(t, outBuf.String(), "Warning: version 1.0.0 not found\n")
		})

		it("writes errors to the error writer", func() {
			logger.Error("something went wrong")
			h.AssertEq(t, outBuf.String(), "")
			h.AssertEq(t, errBuf.String(), "ERROR: something went wrong\n")
		})

		it("renders fields sorted by name", func() {
			logger.WithField("pid", 42).WithField("app", 1).Info("spawned")
			h.AssertEq(t, outBuf.String(), "spawned app=1 pid=42\n")
		})
	})

	when("time is wanted", func() {
		it("prefixes output with the time", func() {
			logger.WantTime(true)
			logger.Info("some info")
			h.AssertEq(t, outBuf.String(), testTime+" some info\n")
		})
	})

	when("verbose", func() {
		it("shows debug output", func() {
			logger = logging.NewLogWithWriters(&outBuf, &errBuf, logging.WithVerbose())
			logger.Debugf("resolving %s", "heroku/ruby")
			h.AssertEq(t, outBuf.String(), "resolving heroku/ruby\n")
			h.AssertEq(t, logger.IsVerbose(), true)
		})
	})

	when("quiet", func() {
		it("hides info output", func() {
			logger.WantQuiet(true)
			logger.Info("some info")
			logger.Warn("some warning")
			h.AssertEq(t, outBuf.String(), "Warning: some warning\n")
			h.AssertEq(t, logging.IsQuiet(logger), true)
		})
	})

	when("#GetWriterForLevel", func() {
		it("returns the error writer for the error level", func() {
			_, _ = io.WriteString(logging.GetWriterForLevel(logger, log.ErrorLevel), "boom")
			h.AssertEq(t, errBuf.String(), "boom\n")
		})

		it("discards levels below the logger level", func() {
			h.AssertEq(t, logging.GetWriterForLevel(logger, log.DebugLevel) == io.Discard, true)
		})
	})
}
