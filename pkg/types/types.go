package types

import (
	"time"
)

// LogEvent is one line of worker-emitted telemetry as returned by the log
// store. The message is free text; job and worker identity are embedded as
// key=value tokens (see pkg/jobs for the token grammar). Events are immutable
// once fetched and arrive in store order, which is not guaranteed to be
// monotonic by timestamp.
type LogEvent struct {
	Timestamp time.Time
	Message   string
	Stream    string // originating log stream, informational only
}

// JobStatus is the reconstructed lifecycle state of a job.
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// JobRecord is the per-job view reconstructed from a window of log events.
// It is recomputed on every query and never persisted.
type JobRecord struct {
	JobID     string
	Status    JobStatus
	StartedAt time.Time
	// CompletedAt is zero while the job is still processing. It is set
	// exactly when Status is JobCompleted or JobFailed.
	CompletedAt time.Time
}

// Terminal reports whether the job has reached a final status.
func (j *JobRecord) Terminal() bool {
	return j.Status == JobCompleted || j.Status == JobFailed
}

// Duration returns the time from start to terminal event, or zero while the
// job is still processing.
func (j *JobRecord) Duration() time.Duration {
	if !j.Terminal() {
		return 0
	}
	return j.CompletedAt.Sub(j.StartedAt)
}

// Elapsed returns how long the job has been running as of now. Only
// meaningful while the job is processing.
func (j *JobRecord) Elapsed(now time.Time) time.Duration {
	return now.Sub(j.StartedAt)
}

// StuckJob is a processing job that exceeded the stuck threshold. A stuck
// job is a derived label: the job is still processing underneath and can
// still reach a terminal status.
type StuckJob struct {
	Job     *JobRecord
	Elapsed time.Duration
}

// WorkerState mirrors the compute registry's instance lifecycle states that
// the monitor cares about.
type WorkerState string

const (
	WorkerRunning      WorkerState = "running"
	WorkerPending      WorkerState = "pending"
	WorkerShuttingDown WorkerState = "shutting-down"
)

// WorkerRecord is one compute instance matching the worker tag filter.
// Identity and state belong to the compute registry; LastActivity is the
// only field derived locally.
type WorkerRecord struct {
	InstanceID   string
	Name         string
	State        WorkerState
	InstanceType string
	LaunchTime   time.Time
	// LastActivity is the timestamp of the most recent log event that
	// references this instance. Zero means no activity in the correlation
	// window, which a legitimately idle worker also produces.
	LastActivity time.Time
}

// Active reports whether the worker produced any log activity in the
// correlation window.
func (w *WorkerRecord) Active() bool {
	return !w.LastActivity.IsZero()
}

// QueueStats is the point-in-time view of the work queue.
type QueueStats struct {
	Visible              int
	InFlight             int
	DeadLetterConfigured bool
}

// HealthReport is the aggregate verdict for one health check pass.
// Invariant: Healthy == (len(Issues) == 0).
type HealthReport struct {
	CheckedAt   time.Time
	Queue       *QueueStats // nil when the queue check failed
	WorkerCount int
	StuckCount  int
	Issues      []string
	Healthy     bool
}

// Snapshot is the persisted summary of one continuous-mode health pass,
// stored in the local history database.
type Snapshot struct {
	ID       string    `json:"id"`
	TakenAt  time.Time `json:"taken_at"`
	Visible  int       `json:"visible"`
	InFlight int       `json:"in_flight"`
	Workers  int       `json:"workers"`
	Stuck    int       `json:"stuck"`
	Healthy  bool      `json:"healthy"`
	Issues   []string  `json:"issues,omitempty"`
}
