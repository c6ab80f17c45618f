package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolith/jobwatch/pkg/types"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func defaultThresholds() Thresholds {
	return Thresholds{
		Stuck:        30 * time.Minute,
		HighBacklog:  20,
		HighInFlight: 10,
	}
}

func workers(n int) []types.WorkerRecord {
	ws := make([]types.WorkerRecord, n)
	for i := range ws {
		ws[i] = types.WorkerRecord{InstanceID: "i-worker", State: types.WorkerRunning}
	}
	return ws
}

func TestEvaluate_HighBacklog(t *testing.T) {
	// Queue has 25 visible messages, 2 workers running, no stuck jobs.
	report := Evaluate(Inputs{
		Queue:   &types.QueueStats{Visible: 25, InFlight: 3},
		Workers: workers(2),
	}, now, defaultThresholds())

	assert.False(t, report.Healthy)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "High queue backlog: 25 messages", report.Issues[0])
}

func TestEvaluate_EmptySystemIsHealthy(t *testing.T) {
	// Nothing queued and nothing running is a healthy idle system.
	report := Evaluate(Inputs{
		Queue: &types.QueueStats{},
	}, now, defaultThresholds())

	assert.True(t, report.Healthy)
	assert.Empty(t, report.Issues)
}

func TestEvaluate_NoWorkersButQueuedJobs(t *testing.T) {
	report := Evaluate(Inputs{
		Queue: &types.QueueStats{Visible: 5},
	}, now, defaultThresholds())

	assert.False(t, report.Healthy)
	assert.Contains(t, report.Issues, "No workers available but jobs in queue")
}

func TestEvaluate_ManyInFlight(t *testing.T) {
	report := Evaluate(Inputs{
		Queue:   &types.QueueStats{InFlight: 11},
		Workers: workers(3),
	}, now, defaultThresholds())

	assert.False(t, report.Healthy)
	assert.Contains(t, report.Issues, "Many in-flight messages: 11")
}

func TestEvaluate_StuckJobs(t *testing.T) {
	report := Evaluate(Inputs{
		Queue:   &types.QueueStats{},
		Workers: workers(1),
		Stuck: []types.StuckJob{
			{Job: &types.JobRecord{JobID: "job-a"}, Elapsed: 45 * time.Minute},
		},
	}, now, defaultThresholds())

	assert.False(t, report.Healthy)
	assert.Equal(t, 1, report.StuckCount)
	assert.Contains(t, report.Issues, "1 job(s) stuck processing over 30m0s")
}

func TestEvaluate_RulesAreNonExclusive(t *testing.T) {
	report := Evaluate(Inputs{
		Queue: &types.QueueStats{Visible: 30, InFlight: 15},
	}, now, defaultThresholds())

	assert.False(t, report.Healthy)
	// Backlog, in-flight and no-workers all fire at once.
	assert.Len(t, report.Issues, 3)
}

// A failed log check degrades to an explicit issue; the queue and worker
// sections still evaluate. A missing signal never reads as healthy.
func TestEvaluate_LogStoreDown(t *testing.T) {
	report := Evaluate(Inputs{
		Queue:   &types.QueueStats{Visible: 2},
		Workers: workers(1),
		LogsErr: errors.New("log store unavailable: request timeout"),
	}, now, defaultThresholds())

	assert.False(t, report.Healthy)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "Log check failed")
	// The queue section still made it into the report.
	require.NotNil(t, report.Queue)
	assert.Equal(t, 2, report.Queue.Visible)
}

func TestEvaluate_AllCollaboratorsDown(t *testing.T) {
	report := Evaluate(Inputs{
		QueueErr:   errors.New("queue down"),
		WorkersErr: errors.New("registry down"),
		LogsErr:    errors.New("logs down"),
	}, now, defaultThresholds())

	assert.False(t, report.Healthy)
	assert.Len(t, report.Issues, 3)
	assert.Nil(t, report.Queue)
}

// The tautological invariant must hold on every path.
func TestEvaluate_HealthyIffNoIssues(t *testing.T) {
	cases := []Inputs{
		{Queue: &types.QueueStats{}},
		{Queue: &types.QueueStats{Visible: 100}},
		{QueueErr: errors.New("down")},
		{Queue: &types.QueueStats{}, Workers: workers(2)},
	}
	for _, in := range cases {
		report := Evaluate(in, now, defaultThresholds())
		assert.Equal(t, len(report.Issues) == 0, report.Healthy)
	}
}

func TestEvaluate_BacklogAtThresholdIsFine(t *testing.T) {
	report := Evaluate(Inputs{
		Queue:   &types.QueueStats{Visible: 20, InFlight: 10},
		Workers: workers(1),
	}, now, defaultThresholds())

	assert.True(t, report.Healthy)
}
