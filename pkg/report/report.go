package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/audiolith/jobwatch/pkg/monitor"
	"github.com/audiolith/jobwatch/pkg/types"
)

// FormatDuration renders a duration in the operator-friendly buckets used
// across all reports: seconds under a minute, minutes under an hour, hours
// beyond.
func FormatDuration(d time.Duration) string {
	s := d.Seconds()
	switch {
	case s < 60:
		return fmt.Sprintf("%.1fs", s)
	case s < 3600:
		return fmt.Sprintf("%.1fm", s/60)
	default:
		return fmt.Sprintf("%.1fh", s/3600)
	}
}

// ago renders how far in the past t lies relative to now, or "-" for the
// zero time.
func ago(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return FormatDuration(now.Sub(t)) + " ago"
}

// JSON writes v as indented JSON. Used by every command's --json flag.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Status renders the full health report with per-section degradation
// notes.
func Status(w io.Writer, res *monitor.Result, now time.Time) {
	fmt.Fprintf(w, "Health check at %s\n\n", res.Report.CheckedAt.Format(time.RFC3339))

	fmt.Fprintln(w, "Queue")
	if res.QueueErr != nil {
		fmt.Fprintf(w, "  unreachable: %v\n", res.QueueErr)
	} else if q := res.Report.Queue; q != nil {
		fmt.Fprintf(w, "  visible:     %d\n", q.Visible)
		fmt.Fprintf(w, "  in-flight:   %d\n", q.InFlight)
		dlq := "not configured"
		if q.DeadLetterConfigured {
			dlq = "configured"
		}
		fmt.Fprintf(w, "  dead-letter: %s\n", dlq)
	}

	fmt.Fprintln(w, "Workers")
	if res.WorkersErr != nil {
		fmt.Fprintf(w, "  unreachable: %v\n", res.WorkersErr)
	} else {
		fmt.Fprintf(w, "  count: %d\n", len(res.Workers))
	}

	fmt.Fprintln(w, "Jobs")
	if res.LogsErr != nil {
		fmt.Fprintf(w, "  unreachable: %v\n", res.LogsErr)
	} else {
		fmt.Fprintf(w, "  tracked: %d\n", len(res.Jobs))
		fmt.Fprintf(w, "  stuck:   %d\n", len(res.Stuck))
	}

	fmt.Fprintln(w)
	Verdict(w, res.Report)
}

// Verdict renders the pass/fail line and any issues.
func Verdict(w io.Writer, report types.HealthReport) {
	if report.Healthy {
		fmt.Fprintln(w, "✓ System is healthy")
		return
	}
	fmt.Fprintln(w, "✗ Issues detected:")
	for _, issue := range report.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}

// Jobs renders job records most recent first.
func Jobs(w io.Writer, records []*types.JobRecord, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No jobs in window")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB ID\tSTATUS\tSTARTED\tDURATION")
	for _, r := range records {
		dur := FormatDuration(r.Elapsed(now))
		if r.Terminal() {
			dur = FormatDuration(r.Duration())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.JobID, r.Status, ago(r.StartedAt, now), dur)
	}
	tw.Flush()
}

// Stuck renders the stuck subset with elapsed processing time.
func Stuck(w io.Writer, stuck []types.StuckJob) {
	if len(stuck) == 0 {
		fmt.Fprintln(w, "No stuck jobs")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB ID\tSTARTED\tELAPSED")
	for _, s := range stuck {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			s.Job.JobID, s.Job.StartedAt.Format(time.RFC3339), FormatDuration(s.Elapsed))
	}
	tw.Flush()
}

// Workers renders worker records with their derived activity signal.
func Workers(w io.Writer, records []types.WorkerRecord, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No workers found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INSTANCE\tNAME\tSTATE\tTYPE\tLAUNCHED\tLAST ACTIVITY")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.InstanceID, r.Name, r.State, r.InstanceType,
			ago(r.LaunchTime, now), ago(r.LastActivity, now))
	}
	tw.Flush()
}

// Logs renders raw log events chronologically.
func Logs(w io.Writer, events []types.LogEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No matching log events")
		return
	}
	for _, ev := range events {
		fmt.Fprintf(w, "%s  %s\n", ev.Timestamp.Format(time.RFC3339), ev.Message)
	}
}

// History renders persisted snapshots newest first.
func History(w io.Writer, snaps []types.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAKEN AT\tVISIBLE\tIN-FLIGHT\tWORKERS\tSTUCK\tHEALTHY")
	for _, s := range snaps {
		healthy := "yes"
		if !s.Healthy {
			healthy = "no"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			s.TakenAt.Format(time.RFC3339), s.Visible, s.InFlight, s.Workers, s.Stuck, healthy)
	}
	tw.Flush()
}
