package repl

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"mysh/internal/parser"
	"mysh/internal/shell"
)

type Options struct {
	// Prompt is shown before each read in interactive mode.
	Prompt string
	// MaxLineLength is the longest accepted line in bytes, newline excluded.
	MaxLineLength int
}

// Run reads commands from in until end of input or until a command ends the
// shell, and returns the exit code. The shell is closed on every path.
func Run(sh *shell.Shell, in io.Reader, opts Options) int {
	defer sh.Close()

	out := sh.Printer()
	reader := bufio.NewReader(in)

	for {
		if !sh.Batch() {
			out.Prompt(opts.Prompt)
		}

		line, readErr := reader.ReadString('\n')
		if line == "" && readErr != nil {
			return 0
		}

		if sh.Batch() {
			out.Echo(line)
		}

		if opts.MaxLineLength > 0 && len(strings.TrimSuffix(line, "\n")) > opts.MaxLineLength {
			out.LineTooLong(opts.MaxLineLength)
		} else if err := sh.Dispatch(parser.Parse(line)); err != nil {
			var exitErr *shell.ExitError
			if errors.As(err, &exitErr) {
				return exitErr.Code
			}
		}

		// last line had no newline
		if readErr != nil {
			return 0
		}
	}
}
