package monitor

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/audiolith/jobwatch/pkg/config"
	"github.com/audiolith/jobwatch/pkg/health"
	"github.com/audiolith/jobwatch/pkg/jobs"
	"github.com/audiolith/jobwatch/pkg/log"
	"github.com/audiolith/jobwatch/pkg/source"
	"github.com/audiolith/jobwatch/pkg/types"
	"github.com/audiolith/jobwatch/pkg/workers"
)

// Monitor runs one full observation pass against the three collaborators.
// It holds no state between passes; every check recomputes everything from
// collaborator-reported truth.
type Monitor struct {
	Logs     source.LogStore
	Queue    source.MessageQueue
	Registry source.ComputeRegistry
	Cfg      *config.Config

	// Now is the clock; tests replace it. Nil means time.Now.
	Now func() time.Time
}

// Result is the outcome of one check pass. Collaborator errors are carried
// per section so callers can render partial reports.
type Result struct {
	Report  types.HealthReport
	Jobs    map[string]*types.JobRecord
	Stuck   []types.StuckJob
	Workers []types.WorkerRecord

	QueueErr   error
	WorkersErr error
	LogsErr    error
}

// ErrAllCollaboratorsFailed means no section of the report could be
// measured. A partially measured report is still a successful run.
var ErrAllCollaboratorsFailed = errors.New("all collaborator checks failed")

func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Check queries the queue, the compute registry and the log store in
// sequence, reconstructs job state, correlates worker activity and
// evaluates health. Each collaborator call carries its own timeout and is
// never retried; a failed call degrades its report section. The returned
// error is non-nil only when every collaborator failed.
func (m *Monitor) Check(ctx context.Context) (*Result, error) {
	logger := log.WithComponent("monitor")
	now := m.now()
	res := &Result{}

	stats, err := withTimeout(ctx, m.Cfg.CallTimeout, func(ctx context.Context) (types.QueueStats, error) {
		return m.Queue.Attributes(ctx)
	})
	if err != nil {
		res.QueueErr = err
		logger.Warn().Err(err).Msg("queue check failed")
	} else {
		res.Report.Queue = &stats
	}

	res.Workers, res.WorkersErr = m.checkWorkers(ctx, now)
	if res.WorkersErr != nil {
		logger.Warn().Err(res.WorkersErr).Msg("worker check failed")
	}

	res.Jobs, res.Stuck, res.LogsErr = m.checkJobs(ctx, now)
	if res.LogsErr != nil {
		logger.Warn().Err(res.LogsErr).Msg("log check failed")
	}

	var queueStats *types.QueueStats
	if res.QueueErr == nil {
		queueStats = res.Report.Queue
	}
	res.Report = health.Evaluate(health.Inputs{
		Queue:      queueStats,
		QueueErr:   res.QueueErr,
		Workers:    res.Workers,
		WorkersErr: res.WorkersErr,
		Stuck:      res.Stuck,
		LogsErr:    res.LogsErr,
	}, now, health.Thresholds{
		Stuck:        m.Cfg.Thresholds.Stuck,
		HighBacklog:  m.Cfg.Thresholds.HighBacklog,
		HighInFlight: m.Cfg.Thresholds.HighInFlight,
	})

	if res.QueueErr != nil && res.WorkersErr != nil && res.LogsErr != nil {
		return res, ErrAllCollaboratorsFailed
	}
	return res, nil
}

// checkWorkers lists worker instances and attaches last-activity
// timestamps. A registry failure fails the whole section; a log store
// failure during correlation leaves activity unset but keeps the listing.
func (m *Monitor) checkWorkers(ctx context.Context, now time.Time) ([]types.WorkerRecord, error) {
	records, err := withTimeout(ctx, m.Cfg.CallTimeout, func(ctx context.Context) ([]types.WorkerRecord, error) {
		return m.Registry.ListWorkers(ctx)
	})
	if err != nil {
		return nil, err
	}

	correlator := &workers.Correlator{
		Logs:   m.timedLogs(),
		Window: m.Cfg.Thresholds.ActivityWindow,
	}
	records, err = correlator.Correlate(ctx, now, records)
	if err != nil {
		lg := log.WithComponent("monitor")
		lg.Warn().Err(err).Msg("worker activity correlation incomplete")
	}
	return records, nil
}

// checkJobs fetches lifecycle events over the lookback window and folds
// them into job records plus the stuck subset.
func (m *Monitor) checkJobs(ctx context.Context, now time.Time) (map[string]*types.JobRecord, []types.StuckJob, error) {
	events, err := withTimeout(ctx, m.Cfg.CallTimeout, func(ctx context.Context) ([]types.LogEvent, error) {
		return m.Logs.Query(ctx, source.LastWindow(now, m.Cfg.LookbackWindow), jobs.LifecyclePattern)
	})
	if err != nil {
		return nil, nil, err
	}

	records := jobs.Reconstruct(events)
	return records, jobs.Stuck(records, now, m.Cfg.Thresholds.Stuck), nil
}

// Jobs reconstructs job records over the lookback window without touching
// the queue or the registry. Used by the jobs listing command.
func (m *Monitor) Jobs(ctx context.Context) (map[string]*types.JobRecord, []types.StuckJob, error) {
	return m.checkJobs(ctx, m.now())
}

// Workers lists worker instances with activity correlation, without
// touching the queue. Used by the workers listing command.
func (m *Monitor) Workers(ctx context.Context) ([]types.WorkerRecord, error) {
	return m.checkWorkers(ctx, m.now())
}

// JobLogs returns the raw log events that mention jobID within the
// lookback window, oldest first.
func (m *Monitor) JobLogs(ctx context.Context, jobID string) ([]types.LogEvent, error) {
	events, err := withTimeout(ctx, m.Cfg.CallTimeout, func(ctx context.Context) ([]types.LogEvent, error) {
		return m.Logs.Query(ctx, source.LastWindow(m.now(), m.Cfg.LookbackWindow), "\""+jobID+"\"")
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events, nil
}

// Run executes Check every interval until ctx is canceled, invoking fn
// with each result. Cancellation is honored between iterations only, so a
// report is never half-written; an in-progress pass finishes under its own
// per-call timeouts first. fn errors stop the loop.
func (m *Monitor) Run(ctx context.Context, interval time.Duration, fn func(*Result) error) error {
	for {
		res, err := m.Check(context.WithoutCancel(ctx))
		if err != nil && !errors.Is(err, ErrAllCollaboratorsFailed) {
			return err
		}
		if err := fn(res); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// withTimeout bounds one collaborator call.
func withTimeout[T any](ctx context.Context, d time.Duration, call func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return call(ctx)
}

// timedLogs wraps the log store so every correlation query gets its own
// timeout.
func (m *Monitor) timedLogs() source.LogStore {
	return &timedLogStore{logs: m.Logs, timeout: m.Cfg.CallTimeout}
}

type timedLogStore struct {
	logs    source.LogStore
	timeout time.Duration
}

func (t *timedLogStore) Query(ctx context.Context, window source.Window, pattern string) ([]types.LogEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.logs.Query(ctx, window, pattern)
}
