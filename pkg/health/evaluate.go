package health

import (
	"fmt"
	"time"

	"github.com/audiolith/jobwatch/pkg/types"
)

// Thresholds tune the health rules. Zero values are not meaningful;
// callers pass config.Thresholds-derived values.
type Thresholds struct {
	Stuck        time.Duration
	HighBacklog  int
	HighInFlight int
}

// Inputs is everything one evaluation pass consumes. Each collaborator
// section carries its own error so a single unreachable service degrades
// only that section: a missing signal must never read as healthy.
type Inputs struct {
	Queue    *types.QueueStats
	QueueErr error

	Workers    []types.WorkerRecord
	WorkersErr error

	Stuck   []types.StuckJob
	LogsErr error
}

// Evaluate applies the health rules independently; every rule that fires
// appends an issue, and the report is healthy exactly when no issue fired.
func Evaluate(in Inputs, now time.Time, th Thresholds) types.HealthReport {
	report := types.HealthReport{
		CheckedAt: now,
		Queue:     in.Queue,
	}

	if in.QueueErr != nil {
		report.Issues = append(report.Issues,
			fmt.Sprintf("Queue check failed: %v", in.QueueErr))
	}
	if in.WorkersErr != nil {
		report.Issues = append(report.Issues,
			fmt.Sprintf("Worker check failed: %v", in.WorkersErr))
	} else {
		report.WorkerCount = len(in.Workers)
	}
	if in.LogsErr != nil {
		report.Issues = append(report.Issues,
			fmt.Sprintf("Log check failed: %v", in.LogsErr))
	} else {
		report.StuckCount = len(in.Stuck)
	}

	if in.Queue != nil {
		if in.Queue.Visible > th.HighBacklog {
			report.Issues = append(report.Issues,
				fmt.Sprintf("High queue backlog: %d messages", in.Queue.Visible))
		}
		if in.Queue.InFlight > th.HighInFlight {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Many in-flight messages: %d", in.Queue.InFlight))
		}
		// Work exists but nothing is consuming it. The highest-value
		// signal this tool produces.
		if in.WorkersErr == nil && len(in.Workers) == 0 && in.Queue.Visible > 0 {
			report.Issues = append(report.Issues,
				"No workers available but jobs in queue")
		}
	}

	if in.LogsErr == nil && len(in.Stuck) > 0 {
		report.Issues = append(report.Issues,
			fmt.Sprintf("%d job(s) stuck processing over %s", len(in.Stuck), th.Stuck))
	}

	report.Healthy = len(report.Issues) == 0
	return report
}
