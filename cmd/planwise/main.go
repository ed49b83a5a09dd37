// Package main provides the entry point for the planwise CLI.
package main

import (
	"context"
	"os"

	"github.com/planwise/planwise/internal/cli"
	"github.com/planwise/planwise/internal/signal"
)

// interruptedExitCode follows the shell convention of 128 + SIGINT.
const interruptedExitCode = 130

// Build information set via ldflags.
var (
	version = "" //nolint:gochecknoglobals // Set at build time
	commit  = "" //nolint:gochecknoglobals // Set at build time
	date    = "" //nolint:gochecknoglobals // Set at build time
)

func main() {
	handler := signal.NewHandler(context.Background())
	defer handler.Stop()

	err := cli.Execute(handler.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()

	switch {
	case handler.Interrupted():
		os.Exit(interruptedExitCode)
	case err != nil:
		os.Exit(cli.ExitCodeForError(err))
	}
}
