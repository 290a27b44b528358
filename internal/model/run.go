package model

import "time"

// RunStatus represents the state of an analysis run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusPartial  RunStatus = "partial" // at least one task failed
	RunStatusFailed   RunStatus = "failed"
)

// TaskStatus is the outcome of a single analysis task.
type TaskStatus string

const (
	TaskStatusOK     TaskStatus = "ok"
	TaskStatusFailed TaskStatus = "failed"
)

// TaskOutcome records what happened to one task in a run.
type TaskOutcome struct {
	Name       string     `json:"name"`
	File       string     `json:"file,omitempty"`
	Status     TaskStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	DurationMS int64      `json:"duration_ms"`
}

// RunSummary is persisted when a run completes.
type RunSummary struct {
	Movies int           `json:"movies"`
	Tasks  []TaskOutcome `json:"tasks"`
}

// Failed returns the number of failed tasks.
func (s RunSummary) Failed() int {
	n := 0
	for _, t := range s.Tasks {
		if t.Status == TaskStatusFailed {
			n++
		}
	}
	return n
}

// Status derives the final run status from the task outcomes.
func (s RunSummary) Status() RunStatus {
	failed := s.Failed()
	switch {
	case len(s.Tasks) > 0 && failed == len(s.Tasks):
		return RunStatusFailed
	case failed > 0:
		return RunStatusPartial
	default:
		return RunStatusComplete
	}
}

// Run is one invocation of the analysis pipeline.
type Run struct {
	ID         string      `json:"id"`
	DataFile   string      `json:"data_file"`
	Status     RunStatus   `json:"status"`
	Summary    *RunSummary `json:"summary,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// CachedRate is a conversion rate remembered across runs.
type CachedRate struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Rate      string    `json:"rate"` // decimal text; empty when unavailable
	Available bool      `json:"available"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
