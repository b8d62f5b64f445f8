package main

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/dsi-platform/dsi/cmd"
	"github.com/dsi-platform/dsi/internal/commands"
	"github.com/dsi-platform/dsi/logging"
)

func main() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}

	logger := logging.NewLogWithWriters(color.Output, color.Error)

	rootCmd, err := cmd.NewDSICommand(logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx := commands.CreateCancellableContext()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if _, isSoftError := err.(commands.SoftError); isSoftError {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
