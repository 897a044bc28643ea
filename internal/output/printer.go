// Package output renders every message the shell shows to the user.
// The strings here are part of the shell's external behavior; scripts and
// graders compare them byte for byte.
package output

import (
	"fmt"
	"io"
)

const (
	UsageMessage     = "Usage: mysh [batchFile]\n"
	KillSwitchNotice = "exit\n"
	ForkFailed       = "fork failed\n"
)

// Printer writes shell messages to a standard output and an error stream.
// Write errors are dropped, the same way a terminal write would be.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

func New(out, errw io.Writer) *Printer {
	return &Printer{Out: out, Err: errw}
}

func (p *Printer) Prompt(prompt string) {
	io.WriteString(p.Out, prompt)
}

// Echo repeats a batch line exactly as it was read.
func (p *Printer) Echo(line string) {
	io.WriteString(p.Out, line)
}

func (p *Printer) JobLine(jid int, cmd string) {
	fmt.Fprintf(p.Out, "%d : %s\n", jid, cmd)
}

func (p *Printer) WaitTerminated(token string) {
	fmt.Fprintf(p.Out, "JID %s terminated\n", token)
}

func (p *Printer) InvalidJID(token string) {
	fmt.Fprintf(p.Err, "Invalid JID %s\n", token)
}

func (p *Printer) CommandNotFound(command string) {
	fmt.Fprintf(p.Err, "%s: Command not found\n", command)
}

// RedirectError prints a redirection failure. err's text must be one of the
// redirect messages without the trailing newline.
func (p *Printer) RedirectError(err error) {
	fmt.Fprintf(p.Err, "%s\n", err)
}

func (p *Printer) KillSwitch() {
	io.WriteString(p.Out, KillSwitchNotice)
}

func (p *Printer) ForkFailed() {
	io.WriteString(p.Err, ForkFailed)
}

func (p *Printer) Usage() {
	io.WriteString(p.Err, UsageMessage)
}

func (p *Printer) CannotOpen(path string) {
	fmt.Fprintf(p.Err, "Error: Cannot open file %s\n", path)
}

func (p *Printer) LineTooLong(max int) {
	fmt.Fprintf(p.Err, "Error: line exceeds %d characters\n", max)
}
