package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiolith/jobwatch/pkg/report"
)

var workersCmd = &cobra.Command{
	Use:   "workers",
	Short: "List worker instances with their recent log activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, mon, _, err := setup(ctx)
		if err != nil {
			return err
		}

		records, err := mon.Workers(ctx)
		if err != nil {
			return err
		}

		if flagJSON {
			return report.JSON(os.Stdout, records)
		}
		report.Workers(os.Stdout, records, time.Now())
		return nil
	},
}
