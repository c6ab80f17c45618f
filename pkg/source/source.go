package source

import (
	"context"
	"time"

	"github.com/audiolith/jobwatch/pkg/types"
)

// Window is a half-open query time range. A zero End means "now" as decided
// by the collaborator.
type Window struct {
	Start time.Time
	End   time.Time
}

// LastWindow is the window covering the most recent d.
func LastWindow(now time.Time, d time.Duration) Window {
	return Window{Start: now.Add(-d), End: now}
}

// LogStore fetches time-bounded, pattern-filtered log events. Returned
// events follow store arrival order; callers must not assume they are
// sorted by timestamp. A log group that does not exist yet yields an empty
// slice, not an error: a fresh deployment has no logs.
type LogStore interface {
	Query(ctx context.Context, window Window, pattern string) ([]types.LogEvent, error)
}

// MessageQueue exposes the work queue's counters and its one destructive
// operation. Purge returns the approximate number of messages cleared
// (the queue reports counts, not a purge receipt).
type MessageQueue interface {
	Attributes(ctx context.Context) (types.QueueStats, error)
	Purge(ctx context.Context) (int, error)
}

// ComputeRegistry lists worker instances by tag and terminates them.
// Terminate is idempotent: terminating an already-terminated instance is
// not an error.
type ComputeRegistry interface {
	ListWorkers(ctx context.Context) ([]types.WorkerRecord, error)
	Terminate(ctx context.Context, instanceID string) error
}
