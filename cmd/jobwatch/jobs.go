package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiolith/jobwatch/pkg/jobs"
	"github.com/audiolith/jobwatch/pkg/report"
)

var (
	flagStuckOnly bool
	flagJobsLimit int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List jobs reconstructed from recent worker logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, mon, _, err := setup(ctx)
		if err != nil {
			return err
		}

		records, stuck, err := mon.Jobs(ctx)
		if err != nil {
			return err
		}

		if flagStuckOnly {
			if flagJobsLimit > 0 && len(stuck) > flagJobsLimit {
				stuck = stuck[:flagJobsLimit]
			}
			if flagJSON {
				return report.JSON(os.Stdout, stuck)
			}
			report.Stuck(os.Stdout, stuck)
			return nil
		}

		sorted := jobs.Sorted(records)
		if flagJobsLimit > 0 && len(sorted) > flagJobsLimit {
			sorted = sorted[:flagJobsLimit]
		}
		if flagJSON {
			return report.JSON(os.Stdout, sorted)
		}
		report.Jobs(os.Stdout, sorted, time.Now())
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs <job_id>",
	Short: "Print the raw log events for one job, chronological",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, mon, _, err := setup(ctx)
		if err != nil {
			return err
		}

		events, err := mon.JobLogs(ctx, args[0])
		if err != nil {
			return err
		}

		if flagJSON {
			return report.JSON(os.Stdout, events)
		}
		report.Logs(os.Stdout, events)
		return nil
	},
}

func init() {
	jobsCmd.Flags().BoolVar(&flagStuckOnly, "stuck-only", false, "show only jobs over the stuck threshold")
	jobsCmd.Flags().IntVar(&flagJobsLimit, "limit", 0, "limit output to N jobs (0 = all)")
}
