// Package shell classifies tokenized command lines and drives the job
// registry and process launcher for them.
package shell

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"mysh/internal/builtins"
	"mysh/internal/executor"
	"mysh/internal/jobs"
	"mysh/internal/output"
	"mysh/internal/parser"
)

// Launcher starts external commands and tracks their processes.
type Launcher interface {
	builtins.Procs
	Launch(tokens []string, job *jobs.Job) error
}

// ExitError asks the caller to end the shell with Code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exit %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("exit %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Shell holds all state of one shell instance. Several may live in one process.
type Shell struct {
	jobs     *jobs.Registry
	launcher Launcher
	out      *output.Printer
	logger   *log.Logger

	// batch is the open batch file; nil in interactive mode.
	batch io.Closer
}

func New(launcher Launcher, out *output.Printer, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Shell{
		jobs:     jobs.NewRegistry(),
		launcher: launcher,
		out:      out,
		logger:   logger,
	}
}

// SetBatch switches the shell to batch mode; src is closed when the shell ends.
func (s *Shell) SetBatch(src io.Closer) {
	s.batch = src
}

func (s *Shell) Batch() bool {
	return s.batch != nil
}

func (s *Shell) Jobs() *jobs.Registry {
	return s.jobs
}

func (s *Shell) Printer() *output.Printer {
	return s.out
}

// Close releases every job record and closes the batch source. Background
// processes keep running. Close is safe to call more than once.
func (s *Shell) Close() error {
	s.jobs.ReleaseAll()
	if s.batch == nil {
		return nil
	}
	err := s.batch.Close()
	s.batch = nil
	return err
}

// Dispatch runs one tokenized line. A non-nil *ExitError means the shell must
// end; every other outcome is reported to the user and the shell goes on.
func (s *Shell) Dispatch(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	if parser.IsKillSwitch(tokens) {
		s.out.KillSwitch()
		return &ExitError{Code: 0}
	}

	args, background := parser.ParseWithBackground(tokens)
	if len(args) == 1 && args[0] == "exit" {
		return &ExitError{Code: 0}
	}

	if builtins.Handle(s.builtinEnv(), args) {
		return nil
	}

	// Every external command consumes an id, background or not.
	jid := s.jobs.Next()
	var job *jobs.Job
	if background {
		job = &jobs.Job{ID: jid, Cmd: parser.CommandText(args)}
		s.jobs.Append(job)
	}

	return s.report(args, s.launcher.Launch(args, job))
}

func (s *Shell) report(args []string, err error) error {
	var redirErr *executor.RedirectError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, executor.ErrForkFailed):
		s.logger.Debug("cannot create process", "argv", args, "err", err)
		s.out.ForkFailed()
		return &ExitError{Code: 1, Err: err}
	case errors.Is(err, executor.ErrCommandNotFound):
		s.logger.Debug("command not started", "argv", args, "err", err)
		s.out.CommandNotFound(args[0])
	case errors.As(err, &redirErr):
		s.out.RedirectError(redirErr)
	case errors.Is(err, executor.ErrRedirectOpen):
		// No message: the command is dropped quietly.
		s.logger.Debug("redirect failed", "argv", args, "err", err)
	default:
		s.logger.Warn("command failed", "argv", args, "err", err)
	}
	return nil
}

func (s *Shell) builtinEnv() *builtins.Env {
	return &builtins.Env{
		Jobs:   s.jobs,
		Procs:  s.launcher,
		Out:    s.out,
		Logger: s.logger,
	}
}
