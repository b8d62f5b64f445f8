package process

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/internal/style"
)

// ErrClosed is returned once the orchestrator has been closed.
var ErrClosed = errors.New("orchestrator is closed")

// ConfigWriteError is returned when a builder config could not be persisted.
type ConfigWriteError struct {
	Path string
	Err  error
}

func (e *ConfigWriteError) Error() string {
	return fmt.Sprintf("writing builder config %s: %s", style.Symbol(e.Path), e.Err)
}

func (e *ConfigWriteError) Unwrap() error {
	return e.Err
}

// SpawnError is returned when the builder tool could not be started.
type SpawnError struct {
	Tool string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("starting %s: %s", style.Symbol(e.Tool), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IOError ends a stream whose output could not be copied.
type IOError struct {
	PID int
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("streaming output of process %d: %s", e.PID, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ExitError ends a stream whose process exited unsuccessfully.
type ExitError struct {
	PID  int
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process %d exited with code %d", e.PID, e.Code)
}
