package model

import "time"

// JobStatus is the lifecycle state of a pipeline job.
// Transitions are strictly pending -> running -> {completed, failed}.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the status is final and immutable.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// PipelineJob is one scheduled, asynchronously executed run of the full
// stage sequence. It is created in pending state at submission time and
// mutated only by the background task executing it.
type PipelineJob struct {
	JobID      string     `json:"job_id"`
	Status     JobStatus  `json:"status"`
	Stage      string     `json:"stage,omitempty"`
	Progress   float64    `json:"progress"`
	Message    string     `json:"message,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
