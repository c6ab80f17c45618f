package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/audiolith/jobwatch/pkg/jobs"
	"github.com/audiolith/jobwatch/pkg/log"
	"github.com/audiolith/jobwatch/pkg/source"
	"github.com/audiolith/jobwatch/pkg/types"
)

// Correlator attaches a liveness signal to worker records by matching
// recent log events against each worker's instance id.
type Correlator struct {
	Logs source.LogStore

	// Window is how far back to look for activity per worker.
	Window time.Duration
}

// Correlate fills LastActivity on each record in place and returns the
// same slice. For every worker it queries the log store for events whose
// worker_id token references the instance, keeping the newest matching
// timestamp. No matches leaves LastActivity zero: an idle worker and a
// wedged one look identical at this layer.
//
// One query is issued per worker. Worker fleets here are small (single
// digits to low tens), so the N+1 shape is acceptable; at larger scale the
// fix is one window-wide fetch grouped by worker_id in memory.
func (c *Correlator) Correlate(ctx context.Context, now time.Time, records []types.WorkerRecord) ([]types.WorkerRecord, error) {
	logger := log.WithComponent("workers")
	window := source.LastWindow(now, c.Window)

	for i := range records {
		// Instance ids contain hyphens, so the filter term must be
		// quoted or the log store treats the hyphen as an operator.
		events, err := c.Logs.Query(ctx, window, "\""+records[i].InstanceID+"\"")
		if err != nil {
			return records, fmt.Errorf("failed to correlate worker %s: %w", records[i].InstanceID, err)
		}

		var newest time.Time
		for _, ev := range events {
			id, ok := jobs.WorkerID(ev.Message)
			if !ok || id != records[i].InstanceID {
				continue
			}
			if ev.Timestamp.After(newest) {
				newest = ev.Timestamp
			}
		}
		records[i].LastActivity = newest

		logger.Debug().
			Str("worker_id", records[i].InstanceID).
			Time("last_activity", newest).
			Msg("correlated worker activity")
	}

	return records, nil
}
