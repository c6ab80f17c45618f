package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiolith/jobwatch/pkg/report"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the full system health report",
	Long: `Queries the queue, the worker fleet and recent worker logs, then prints
queue depth, worker liveness, job states and an overall verdict.

The exit code reflects whether the report could be measured, not whether
the system is healthy: an unhealthy-but-measured system exits 0. Only when
every collaborator is unreachable does status exit non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, mon, _, err := setup(ctx)
		if err != nil {
			return err
		}

		res, checkErr := mon.Check(ctx)

		if flagJSON {
			if err := report.JSON(os.Stdout, res.Report); err != nil {
				return err
			}
		} else {
			report.Status(os.Stdout, res, time.Now())
		}

		// Unhealthy-but-measured exits 0; only a fully unmeasurable
		// system is a failed run.
		return checkErr
	},
}
