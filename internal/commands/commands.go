package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/process"
	"github.com/dsi-platform/dsi/logging"
)

// DSIClient is what the commands drive.
type DSIClient interface {
	SuggestStacks(ctx context.Context, opts dsi.SuggestStacksOptions) ([]string, error)
	SynthesizeBuilder(ctx context.Context, opts dsi.SynthesizeBuilderOptions) (*dsi.Synthesis, error)
	CreateDroid(ctx context.Context, opts dsi.CreateDroidOptions) (*dsi.Build, error)
	Processes() []process.Snapshot
}

// StacksWriter renders the outcome of a stack suggestion.
type StacksWriter interface {
	Print(logger logging.Logger, buildpacks []*buildpack.Buildpack, commonStacks []string) error
}

// StacksWriterFactory returns the StacksWriter for an output format.
type StacksWriterFactory interface {
	Writer(kind string) (StacksWriter, error)
}

// SoftError is an error that has already been reported to the user.
type SoftError struct{}

func NewSoftError() SoftError {
	return SoftError{}
}

func (se SoftError) Error() string {
	return ""
}

func AddHelpFlag(cmd *cobra.Command, commandName string) {
	cmd.Flags().BoolP("help", "h", false, fmt.Sprintf("Help for '%s'", commandName))
}

func CreateCancellableContext() context.Context {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		<-signals
		cancel()
	}()

	return ctx
}

func logError(logger logging.Logger, f func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		err := f(cmd, args)
		if err != nil {
			if _, isSoftError := err.(SoftError); !isSoftError {
				logger.Error(err.Error())
			}
			return err
		}
		return nil
	}
}
