package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"playmate/internal/recommend"
)

// isTerminal reports whether stream (a cobra in/out/err stream) is a TTY.
func isTerminal(stream any) bool {
	file, ok := stream.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressPrinter reports pipeline stages on stderr when it is a terminal.
// Piped and captured output stays free of progress lines.
func progressPrinter(cmd *cobra.Command) recommend.ProgressFunc {
	errOut := cmd.ErrOrStderr()
	if !isTerminal(errOut) {
		return nil
	}
	return func(_ recommend.Stage, message string) {
		fmt.Fprintf(errOut, "… %s\n", message)
	}
}
