package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolith/jobwatch/pkg/config"
	"github.com/audiolith/jobwatch/pkg/log"
	"github.com/audiolith/jobwatch/pkg/source"
	"github.com/audiolith/jobwatch/pkg/types"
)

func init() {
	log.Init(log.Config{Level: log.ErrorLevel})
}

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

type stubLogs struct {
	events []types.LogEvent
	err    error
	calls  int
}

func (s *stubLogs) Query(ctx context.Context, window source.Window, pattern string) ([]types.LogEvent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	// Cheap pattern semantics for tests: return events whose message
	// contains any bare term. The lifecycle pattern matches everything
	// marker-bearing; instance-id patterns match worker heartbeats.
	var out []types.LogEvent
	for _, ev := range s.events {
		for _, term := range strings.Fields(strings.ReplaceAll(strings.ReplaceAll(pattern, "?", ""), "\"", "")) {
			if strings.Contains(ev.Message, term) {
				out = append(out, ev)
				break
			}
		}
	}
	return out, nil
}

type stubQueue struct {
	stats  types.QueueStats
	err    error
	purges int
}

func (s *stubQueue) Attributes(ctx context.Context) (types.QueueStats, error) {
	if s.err != nil {
		return types.QueueStats{}, s.err
	}
	return s.stats, nil
}

func (s *stubQueue) Purge(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.purges++
	return s.stats.Visible + s.stats.InFlight, nil
}

type stubRegistry struct {
	workers    []types.WorkerRecord
	err        error
	terminated []string
}

func (s *stubRegistry) ListWorkers(ctx context.Context) ([]types.WorkerRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]types.WorkerRecord, len(s.workers))
	copy(out, s.workers)
	return out, nil
}

func (s *stubRegistry) Terminate(ctx context.Context, instanceID string) error {
	s.terminated = append(s.terminated, instanceID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		QueueURL:       "https://sqs.test/queue",
		LookbackWindow: time.Hour,
		CallTimeout:    5 * time.Second,
		Thresholds: config.Thresholds{
			Stuck:          30 * time.Minute,
			HighBacklog:    20,
			HighInFlight:   10,
			ActivityWindow: 10 * time.Minute,
		},
	}
}

func newTestMonitor(logs source.LogStore, queue source.MessageQueue, registry source.ComputeRegistry) *Monitor {
	return &Monitor{
		Logs:     logs,
		Queue:    queue,
		Registry: registry,
		Cfg:      testConfig(),
		Now:      func() time.Time { return t0 },
	}
}

func TestCheck_HealthySystem(t *testing.T) {
	logs := &stubLogs{events: []types.LogEvent{
		{Timestamp: t0.Add(-10 * time.Minute), Message: "STARTING JOB job_id=job-a worker_id=i-001"},
		{Timestamp: t0.Add(-5 * time.Minute), Message: "SUCCESS job_id=job-a worker_id=i-001"},
	}}
	queue := &stubQueue{stats: types.QueueStats{Visible: 1, InFlight: 1}}
	registry := &stubRegistry{workers: []types.WorkerRecord{
		{InstanceID: "i-001", State: types.WorkerRunning},
	}}

	mon := newTestMonitor(logs, queue, registry)
	res, err := mon.Check(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Report.Healthy)
	assert.Empty(t, res.Report.Issues)
	require.Len(t, res.Jobs, 1)
	assert.Equal(t, types.JobCompleted, res.Jobs["job-a"].Status)
	require.Len(t, res.Workers, 1)
	assert.Equal(t, t0.Add(-5*time.Minute), res.Workers[0].LastActivity)
}

func TestCheck_StuckJobSurfaces(t *testing.T) {
	logs := &stubLogs{events: []types.LogEvent{
		{Timestamp: t0.Add(-45 * time.Minute), Message: "STARTING JOB job_id=job-slow worker_id=i-001"},
	}}
	queue := &stubQueue{}
	registry := &stubRegistry{workers: []types.WorkerRecord{
		{InstanceID: "i-001", State: types.WorkerRunning},
	}}

	mon := newTestMonitor(logs, queue, registry)
	res, err := mon.Check(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Report.Healthy)
	require.Len(t, res.Stuck, 1)
	assert.Equal(t, "job-slow", res.Stuck[0].Job.JobID)
	assert.Equal(t, 45*time.Minute, res.Stuck[0].Elapsed)
}

func TestCheck_LogStoreDownDegrades(t *testing.T) {
	logs := &stubLogs{err: source.Unavailable(source.CollaboratorLogStore, errors.New("timeout"))}
	queue := &stubQueue{stats: types.QueueStats{Visible: 2}}
	registry := &stubRegistry{workers: []types.WorkerRecord{
		{InstanceID: "i-001", State: types.WorkerRunning},
	}}

	mon := newTestMonitor(logs, queue, registry)
	res, err := mon.Check(context.Background())

	// A partially measured report is a successful run.
	require.NoError(t, err)
	assert.False(t, res.Report.Healthy)
	assert.NotNil(t, res.LogsErr)
	require.NotNil(t, res.Report.Queue)
	assert.Equal(t, 2, res.Report.Queue.Visible)
	assert.Equal(t, 1, res.Report.WorkerCount)

	found := false
	for _, issue := range res.Report.Issues {
		if strings.Contains(issue, "Log check failed") {
			found = true
		}
	}
	assert.True(t, found, "expected a log check failure issue, got %v", res.Report.Issues)
}

func TestCheck_AllCollaboratorsDown(t *testing.T) {
	boom := errors.New("network is down")
	logs := &stubLogs{err: source.Unavailable(source.CollaboratorLogStore, boom)}
	queue := &stubQueue{err: source.Unavailable(source.CollaboratorMessageQueue, boom)}
	registry := &stubRegistry{err: source.Unavailable(source.CollaboratorComputeRegistry, boom)}

	mon := newTestMonitor(logs, queue, registry)
	res, err := mon.Check(context.Background())

	assert.ErrorIs(t, err, ErrAllCollaboratorsFailed)
	require.NotNil(t, res)
	assert.False(t, res.Report.Healthy)
	assert.Len(t, res.Report.Issues, 3)
}

func TestCheck_IdleWorkerHasNoActivity(t *testing.T) {
	logs := &stubLogs{}
	queue := &stubQueue{}
	registry := &stubRegistry{workers: []types.WorkerRecord{
		{InstanceID: "i-quiet", State: types.WorkerRunning},
	}}

	mon := newTestMonitor(logs, queue, registry)
	res, err := mon.Check(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Workers, 1)
	assert.False(t, res.Workers[0].Active())
	// No recent activity alone is not an issue.
	assert.True(t, res.Report.Healthy)
}

func TestJobLogs_Chronological(t *testing.T) {
	logs := &stubLogs{events: []types.LogEvent{
		{Timestamp: t0.Add(-1 * time.Minute), Message: "SUCCESS job_id=job-a"},
		{Timestamp: t0.Add(-9 * time.Minute), Message: "STARTING JOB job_id=job-a"},
		{Timestamp: t0.Add(-5 * time.Minute), Message: "chunk 3/7 job_id=job-a"},
	}}

	mon := newTestMonitor(logs, &stubQueue{}, &stubRegistry{})
	events, err := mon.JobLogs(context.Background(), "job-a")
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.True(t, events[0].Timestamp.Before(events[1].Timestamp))
	assert.True(t, events[1].Timestamp.Before(events[2].Timestamp))
}

func TestRun_StopsOnCancel(t *testing.T) {
	logs := &stubLogs{}
	queue := &stubQueue{}
	registry := &stubRegistry{}
	mon := newTestMonitor(logs, queue, registry)

	ctx, cancel := context.WithCancel(context.Background())
	passes := 0
	err := mon.Run(ctx, time.Millisecond, func(res *Result) error {
		passes++
		if passes == 2 {
			cancel()
		}
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, passes, 2)
}

func TestRun_CallbackErrorStopsLoop(t *testing.T) {
	mon := newTestMonitor(&stubLogs{}, &stubQueue{}, &stubRegistry{})

	boom := errors.New("sink failed")
	err := mon.Run(context.Background(), time.Millisecond, func(res *Result) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}
