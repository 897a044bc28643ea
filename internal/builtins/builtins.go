package builtins

import (
	"strconv"

	"github.com/charmbracelet/log"

	"mysh/internal/executor"
	"mysh/internal/jobs"
	"mysh/internal/output"
)

// Procs reaps and waits on background processes.
type Procs interface {
	jobs.Reaper
	Wait(pid int) (executor.Status, error)
}

// Env is the shell state a built-in may touch.
type Env struct {
	Jobs   *jobs.Registry
	Procs  Procs
	Out    *output.Printer
	Logger *log.Logger
}

// Handle runs tokens if they name a built-in and reports whether it did.
// exit is not handled here; ending the shell belongs to the caller.
func Handle(env *Env, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}

	switch tokens[0] {
	case "jobs":
		listJobs(env)
		return true
	case "wait":
		if len(tokens) < 2 {
			return false
		}
		wait(env, tokens[1])
		return true
	default:
		return false
	}
}

func listJobs(env *Env) {
	for _, job := range env.Jobs.ReapAndList(env.Procs) {
		env.Out.JobLine(job.ID, job.Cmd)
	}
}

// wait blocks on the job named by token. A valid id with no live job still
// reports success: the job may simply have been reaped already.
func wait(env *Env, token string) {
	jid, ok := parseJID(token)
	if !ok || jid > env.Jobs.Last() {
		env.Out.InvalidJID(token)
		return
	}

	job, found := env.Jobs.Find(jid)
	if found && !job.Done && job.PID > 0 {
		status, err := env.Procs.Wait(job.PID)
		switch {
		case err != nil:
			env.Logger.Debug("wait on job failed", "jid", jid, "pid", job.PID, "err", err)
			job.Done = true
		case status.Ended():
			job.Done = true
		}
		env.Logger.Debug("waited on job", "jid", jid, "pid", job.PID, "status", status)
	}

	env.Out.WaitTerminated(token)
}

// parseJID accepts decimal digits only: no sign, no spaces.
func parseJID(token string) (int, bool) {
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	jid, err := strconv.Atoi(token)
	if err != nil {
		// too large for an int, so larger than any id ever handed out
		return 0, false
	}
	return jid, true
}
