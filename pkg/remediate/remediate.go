package remediate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/audiolith/jobwatch/pkg/jobs"
	"github.com/audiolith/jobwatch/pkg/log"
	"github.com/audiolith/jobwatch/pkg/source"
)

// ErrNotConfirmed is returned when a destructive action is invoked without
// explicit confirmation. Destructive actions fail closed.
var ErrNotConfirmed = errors.New("destructive action not confirmed")

// ErrWorkerNotFound means no worker could be identified for the job, so no
// termination was requested. The operator must know no action was taken.
var ErrWorkerNotFound = errors.New("no worker identified for job")

// Actions carries the collaborators needed by the two operator
// remediations.
type Actions struct {
	Logs     source.LogStore
	Queue    source.MessageQueue
	Registry source.ComputeRegistry

	// Window bounds the log search used to resolve a job's worker.
	Window time.Duration

	// Now is the clock; tests replace it. Nil means time.Now.
	Now func() time.Time
}

func (a *Actions) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// KillResult reports what Kill actually did.
type KillResult struct {
	JobID      string
	InstanceID string
}

// Kill terminates the worker currently associated with jobID. The worker
// is resolved from the job's own log events via the worker_id token; the
// most recent reference wins. Termination is idempotent at the registry
// layer. Queue messages are untouched (the queue offers no
// selective delete), so the job's message reappears after its visibility
// timeout expires and another worker picks it up.
//
// Returns ErrWorkerNotFound when the job's logs name no worker, and
// ErrNotConfirmed when confirmed is false.
func (a *Actions) Kill(ctx context.Context, jobID string, confirmed bool) (*KillResult, error) {
	if !confirmed {
		return nil, ErrNotConfirmed
	}

	instanceID, err := a.resolveWorker(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := a.Registry.Terminate(ctx, instanceID); err != nil {
		return nil, fmt.Errorf("failed to terminate %s: %w", instanceID, err)
	}

	lg := log.WithJobID(jobID)
	lg.Info().
		Str("instance_id", instanceID).
		Msg("termination requested for job's worker")

	return &KillResult{JobID: jobID, InstanceID: instanceID}, nil
}

// resolveWorker finds the instance id most recently mentioned alongside
// jobID in the log window.
func (a *Actions) resolveWorker(ctx context.Context, jobID string) (string, error) {
	window := source.LastWindow(a.now(), a.Window)
	events, err := a.Logs.Query(ctx, window, "\""+jobID+"\"")
	if err != nil {
		return "", fmt.Errorf("failed to search logs for job %s: %w", jobID, err)
	}

	var (
		instanceID string
		newest     time.Time
	)
	for _, ev := range events {
		id, ok := jobs.WorkerID(ev.Message)
		if !ok {
			continue
		}
		if instanceID == "" || ev.Timestamp.After(newest) {
			instanceID = id
			newest = ev.Timestamp
		}
	}

	if instanceID == "" {
		return "", fmt.Errorf("%w: %s (no worker_id token in its log events)", ErrWorkerNotFound, jobID)
	}
	return instanceID, nil
}

// Purge clears every message from the queue and returns the approximate
// count removed. Irreversible; requires confirmation.
func (a *Actions) Purge(ctx context.Context, confirmed bool) (int, error) {
	if !confirmed {
		return 0, ErrNotConfirmed
	}

	cleared, err := a.Queue.Purge(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to purge queue: %w", err)
	}

	lg := log.WithComponent("remediate")
	lg.Info().
		Int("cleared", cleared).
		Msg("queue purged")

	return cleared, nil
}
