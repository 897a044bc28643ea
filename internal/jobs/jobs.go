package jobs

import "slices"

// Job is a background command tracked by the shell.
type Job struct {
	ID  int
	PID int
	Cmd string

	// Done is set once the shell has observed the process end (or it never
	// started), so the next reap drops the record without asking the OS.
	Done bool
}

// Reaper checks a process without blocking and reports whether it has ended.
type Reaper interface {
	Reap(pid int) (bool, error)
}

// Registry owns the background job records and the job id counter.
// It is not safe for concurrent use; the shell mutates it from one goroutine.
type Registry struct {
	jobs    []*Job
	lastJID int
}

func NewRegistry() *Registry {
	return &Registry{lastJID: -1}
}

// Next consumes and returns the next job id. Ids start at 0 and are never reused.
func (r *Registry) Next() int {
	r.lastJID++
	return r.lastJID
}

// Last returns the highest id handed out so far, or -1 if none.
func (r *Registry) Last() int {
	return r.lastJID
}

// Append adds a job at the tail; insertion order is display order.
func (r *Registry) Append(job *Job) {
	r.jobs = append(r.jobs, job)
}

// Remove drops the first job with the given pid. Unknown pids are ignored.
func (r *Registry) Remove(pid int) {
	for i, job := range r.jobs {
		if job.PID == pid {
			r.jobs = slices.Delete(r.jobs, i, i+1)
			return
		}
	}
}

func (r *Registry) Find(jid int) (*Job, bool) {
	for _, job := range r.jobs {
		if job.ID == jid {
			return job, true
		}
	}
	return nil, false
}

func (r *Registry) Len() int {
	return len(r.jobs)
}

// ReapAndList polls every job without blocking, drops the ones that have
// ended, and returns a copy of the survivors in insertion order.
func (r *Registry) ReapAndList(reaper Reaper) []Job {
	r.jobs = slices.DeleteFunc(r.jobs, func(job *Job) bool {
		if job.Done || job.PID <= 0 {
			return true
		}
		ended, err := reaper.Reap(job.PID)
		if err != nil {
			// The child is gone from our view (e.g. ECHILD); nothing left to track.
			return true
		}
		if ended {
			job.Done = true
		}
		return ended
	})

	result := make([]Job, len(r.jobs))
	for i, job := range r.jobs {
		result[i] = *job
	}
	return result
}

// ReleaseAll forgets every job. Running processes are left alone.
func (r *Registry) ReleaseAll() {
	clear(r.jobs)
	r.jobs = nil
}
