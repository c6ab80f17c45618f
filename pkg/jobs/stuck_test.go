package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolith/jobwatch/pkg/types"
)

const stuckThreshold = 30 * time.Minute

func TestStuck_BelowThreshold(t *testing.T) {
	records := Reconstruct([]types.LogEvent{
		event(0, "STARTING JOB job_id=job-abc123"),
	})

	stuck := Stuck(records, t0.Add(29*time.Minute), stuckThreshold)
	assert.Empty(t, stuck)
}

func TestStuck_OverThreshold(t *testing.T) {
	records := Reconstruct([]types.LogEvent{
		event(0, "STARTING JOB job_id=job-abc123"),
	})

	stuck := Stuck(records, t0.Add(31*time.Minute), stuckThreshold)
	require.Len(t, stuck, 1)
	assert.Equal(t, "job-abc123", stuck[0].Job.JobID)
	assert.Equal(t, 31*time.Minute, stuck[0].Elapsed)
}

func TestStuck_ExactlyAtThreshold(t *testing.T) {
	records := Reconstruct([]types.LogEvent{
		event(0, "STARTING JOB job_id=job-a"),
	})

	stuck := Stuck(records, t0.Add(stuckThreshold), stuckThreshold)
	assert.Len(t, stuck, 1)
}

func TestStuck_TerminalJobsNeverStuck(t *testing.T) {
	records := Reconstruct([]types.LogEvent{
		event(0, "STARTING JOB job_id=job-a"),
		event(time.Minute, "SUCCESS job_id=job-a"),
		event(0, "STARTING JOB job_id=job-b"),
		event(2*time.Minute, "FAILED job_id=job-b"),
	})

	stuck := Stuck(records, t0.Add(2*time.Hour), stuckThreshold)
	assert.Empty(t, stuck)
}

// Stuck detection is monotonic in now: once a processing job crosses the
// threshold it stays stuck at every later instant until a terminal event
// is folded in.
func TestStuck_MonotonicInNow(t *testing.T) {
	records := Reconstruct([]types.LogEvent{
		event(0, "STARTING JOB job_id=job-a"),
	})

	for _, offset := range []time.Duration{31 * time.Minute, time.Hour, 24 * time.Hour} {
		stuck := Stuck(records, t0.Add(offset), stuckThreshold)
		assert.Len(t, stuck, 1, "offset %s", offset)
	}

	// Folding in a terminal event clears the label.
	records = Reconstruct([]types.LogEvent{
		event(0, "STARTING JOB job_id=job-a"),
		event(40*time.Minute, "SUCCESS job_id=job-a"),
	})
	stuck := Stuck(records, t0.Add(time.Hour), stuckThreshold)
	assert.Empty(t, stuck)
}

func TestStuck_OrderedOldestFirst(t *testing.T) {
	records := Reconstruct([]types.LogEvent{
		event(0, "STARTING JOB job_id=job-oldest"),
		event(10*time.Minute, "STARTING JOB job_id=job-newer"),
	})

	stuck := Stuck(records, t0.Add(time.Hour), stuckThreshold)
	require.Len(t, stuck, 2)
	assert.Equal(t, "job-oldest", stuck[0].Job.JobID)
	assert.Equal(t, "job-newer", stuck[1].Job.JobID)
}
