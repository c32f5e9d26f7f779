package model

import (
	"time"

	"github.com/google/uuid"

	api "github.com/katube/audio-archiver/api/v1alpha1"
)

// Job is the in-memory record tracking one submitted URL end to end.
// A single runner goroutine mutates it; the registry hands out copies
// to readers so a poller never observes a partial update.
type Job struct {
	ID        uuid.UUID
	URL       string
	State     api.JobState
	Progress  int
	Message   string
	CreatedAt time.Time
	EndedAt   *time.Time
	Result    *api.Result
	Error     string
}

// JobSummary is the lightweight listing view held under the registry lock
// only long enough to copy.
type JobSummary struct {
	ID        uuid.UUID
	URL       string
	State     api.JobState
	Progress  int
	CreatedAt time.Time
}

func NewJob(id uuid.UUID, url string) *Job {
	return &Job{
		ID:        id,
		URL:       url,
		State:     api.JobStateWaiting,
		Progress:  0,
		Message:   "waiting for a worker",
		CreatedAt: time.Now(),
	}
}

// Terminal reports whether the job reached completed or failed.
func (j *Job) Terminal() bool {
	return j.State == api.JobStateCompleted || j.State == api.JobStateFailed
}

// UpdateStatus sets state, progress and message as one transition.
// Terminal records are never modified and progress never moves backwards,
// so a concurrent poller always sees a monotonically increasing number.
func (j *Job) UpdateStatus(state api.JobState, progress int, message string) {
	if j.Terminal() {
		return
	}
	if progress < j.Progress {
		progress = j.Progress
	}
	if progress > 99 {
		progress = 99
	}
	j.State = state
	j.Progress = progress
	j.Message = message
}

// Complete performs the terminal transition to completed. Progress is fixed
// at 100 and the result payload is attached.
func (j *Job) Complete(result *api.Result, message string) {
	if j.Terminal() {
		return
	}
	now := time.Now()
	j.State = api.JobStateCompleted
	j.Progress = 100
	j.Message = message
	j.EndedAt = &now
	j.Result = result
	j.Error = ""
}

// Fail performs the terminal transition to failed. Progress is reset to zero
// and the error string is attached; no result is ever set.
func (j *Job) Fail(errMsg string) {
	if j.Terminal() {
		return
	}
	now := time.Now()
	j.State = api.JobStateFailed
	j.Progress = 0
	j.Message = "error: " + errMsg
	j.EndedAt = &now
	j.Result = nil
	j.Error = errMsg
}

// Snapshot returns a copy safe to read outside the registry lock.
func (j *Job) Snapshot() Job {
	cp := *j
	if j.EndedAt != nil {
		ended := *j.EndedAt
		cp.EndedAt = &ended
	}
	return cp
}

// Summary returns the listing view of the record.
func (j *Job) Summary() JobSummary {
	return JobSummary{
		ID:        j.ID,
		URL:       j.URL,
		State:     j.State,
		Progress:  j.Progress,
		CreatedAt: j.CreatedAt,
	}
}
