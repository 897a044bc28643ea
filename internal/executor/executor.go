package executor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"mysh/internal/jobs"
)

var (
	// ErrCommandNotFound means the program could not be found or executed.
	ErrCommandNotFound = errors.New("command not found")
	// ErrForkFailed means the OS refused to create a process. The shell cannot go on.
	ErrForkFailed = errors.New("fork failed")
	// ErrRedirectOpen means the redirect target could not be created.
	ErrRedirectOpen = errors.New("cannot open redirect target")
)

var discard = log.New(io.Discard)

// redirectPerm is owner read/write/execute, as the shell has always created files.
const redirectPerm = 0o700

// Launcher starts external commands and waits on them. The zero value runs
// children with every standard stream on the null device.
type Launcher struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	Logger *log.Logger
}

// New returns a Launcher wired to the shell's own standard streams.
func New(logger *log.Logger) *Launcher {
	return &Launcher{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

func (l *Launcher) logger() *log.Logger {
	if l.Logger == nil {
		return discard
	}
	return l.Logger
}

// Launch runs tokens as an external command. With a job the child's pid is
// stored in it and Launch returns at once; without one Launch blocks until the
// child exits, stops or continues.
//
// If the command never starts, a job is marked Done so the next reap drops it.
func (l *Launcher) Launch(tokens []string, job *jobs.Job) error {
	err := l.launch(tokens, job)
	if err != nil && job != nil {
		job.Done = true
	}
	return err
}

func (l *Launcher) launch(tokens []string, job *jobs.Job) error {
	if len(tokens) == 0 {
		return nil
	}

	clean, outFile, err := parseRedirection(tokens)
	if err != nil {
		return err
	}

	// A nil stream, and stdin of a background job, is the null device.
	// Only non-nil files are assigned: a nil *os.File stored in an
	// io.Reader would hand the child a closed descriptor.
	cmd := exec.Command(clean[0], clean[1:]...)
	if l.Stdin != nil && job == nil {
		cmd.Stdin = l.Stdin
	}
	if l.Stderr != nil {
		cmd.Stderr = l.Stderr
	}
	if outFile != "" {
		f, err := os.OpenFile(outFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, redirectPerm)
		if err != nil {
			l.logger().Debug("redirect target not created", "file", outFile, "err", err)
			return fmt.Errorf("%w: %w", ErrRedirectOpen, err)
		}
		defer f.Close()
		cmd.Stdout = f
	} else if l.Stdout != nil {
		cmd.Stdout = l.Stdout
	}

	if err := cmd.Start(); err != nil {
		return startError(err)
	}

	pid := cmd.Process.Pid
	// The shell reaps with wait4 itself; drop the os.Process handle.
	_ = cmd.Process.Release()

	if job != nil {
		job.PID = pid
		l.logger().Debug("started background job", "jid", job.ID, "pid", pid, "argv", clean)
		return nil
	}

	l.logger().Debug("started foreground command", "pid", pid, "argv", clean)
	status, err := l.Wait(pid)
	if err != nil {
		l.logger().Warn("wait on foreground command failed", "pid", pid, "err", err)
		return nil
	}
	l.logger().Debug("foreground command changed state", "pid", pid, "status", status)
	return nil
}

// startError sorts a Start failure into "the program is unusable" and "the
// system could not make a process".
func startError(err error) error {
	for _, errno := range []unix.Errno{unix.EAGAIN, unix.ENOMEM, unix.EMFILE, unix.ENFILE, unix.ENOSPC} {
		if errors.Is(err, errno) {
			return fmt.Errorf("%w: %w", ErrForkFailed, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrCommandNotFound, err)
}

// Status is a child state change reported by wait4.
type Status struct {
	ws unix.WaitStatus
}

func NewStatus(ws unix.WaitStatus) Status {
	return Status{ws: ws}
}

// Ended reports whether the process is gone: it exited or a signal killed it.
func (s Status) Ended() bool {
	return s.ws.Exited() || s.ws.Signaled()
}

func (s Status) String() string {
	switch {
	case s.ws.Exited():
		return fmt.Sprintf("exited %d", s.ws.ExitStatus())
	case s.ws.Signaled():
		return fmt.Sprintf("killed by %s", s.ws.Signal())
	case s.ws.Stopped():
		return fmt.Sprintf("stopped by %s", s.ws.StopSignal())
	case s.ws.Continued():
		return "continued"
	default:
		return fmt.Sprintf("status %#x", uint32(s.ws))
	}
}

// Wait blocks until pid exits, stops or continues.
func (l *Launcher) Wait(pid int) (Status, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, unix.WUNTRACED|unix.WCONTINUED, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return Status{ws: ws}, err
	}
}

// Reap checks pid without blocking and reports whether it has ended. An ended
// child is collected by the call.
func (l *Launcher) Reap(pid int) (bool, error) {
	var ws unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return false, err
		case wpid == 0:
			return false, nil
		}
		ended := Status{ws: ws}.Ended()
		if ended {
			l.logger().Debug("reaped background job", "pid", pid, "status", Status{ws: ws})
		}
		return ended, nil
	}
}

var _ jobs.Reaper = (*Launcher)(nil)
