package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/audiolith/jobwatch/pkg/history"
	"github.com/audiolith/jobwatch/pkg/log"
	"github.com/audiolith/jobwatch/pkg/metrics"
	"github.com/audiolith/jobwatch/pkg/monitor"
	"github.com/audiolith/jobwatch/pkg/report"
)

var (
	flagContinuous bool
	flagInterval   time.Duration
	flagListen     string
	flagHistLimit  int
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run the health check once, or poll with --continuous",
	Long: `Runs the same evaluation as status but prints only the verdict and
issues. With --continuous it polls at a fixed interval until interrupted,
optionally serving Prometheus metrics on --listen and recording snapshots
to the local history database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, mon, _, err := setup(ctx)
		if err != nil {
			return err
		}

		if !flagContinuous {
			res, checkErr := mon.Check(ctx)
			if flagJSON {
				if err := report.JSON(os.Stdout, res.Report); err != nil {
					return err
				}
			} else {
				report.Verdict(os.Stdout, res.Report)
			}
			return checkErr
		}

		interval := flagInterval
		if interval <= 0 {
			interval = cfg.Interval
		}

		var store *history.Store
		if cfg.HistoryPath != "" {
			store, err = history.Open(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()
		}

		var server *metrics.Server
		if flagListen != "" {
			server = metrics.NewServer(flagListen)
			server.Start()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Stop(shutdownCtx)
			}()
			fmt.Fprintf(os.Stderr, "Serving metrics on %s\n", flagListen)
		}

		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "Polling every %s. Press Ctrl+C to stop.\n", interval)

		err = mon.Run(sigCtx, interval, func(res *monitor.Result) error {
			report.Verdict(os.Stdout, res.Report)
			metrics.Observe(res)
			if server != nil {
				server.SetReport(res.Report)
			}
			if store != nil {
				if _, err := store.Append(res.Report); err != nil {
					lg := log.WithComponent("health")
					lg.Warn().Err(err).Msg("failed to record snapshot")
				}
			}
			return nil
		})
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Monitoring stopped")
			return nil
		}
		return err
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent health snapshots recorded by continuous mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfigOnly()
		if err != nil {
			return err
		}
		if cfg.HistoryPath == "" {
			return errors.New("no history database configured; set HISTORY_PATH")
		}

		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()

		snaps, err := store.Recent(flagHistLimit)
		if err != nil {
			return err
		}

		if flagJSON {
			return report.JSON(os.Stdout, snaps)
		}
		report.History(os.Stdout, snaps)
		return nil
	},
}

func init() {
	healthCmd.Flags().BoolVar(&flagContinuous, "continuous", false, "poll until interrupted")
	healthCmd.Flags().DurationVar(&flagInterval, "interval", 0, "poll interval (default: CHECK_INTERVAL)")
	healthCmd.Flags().StringVar(&flagListen, "listen", "", "serve /metrics and /healthz on this address in continuous mode")
	historyCmd.Flags().IntVar(&flagHistLimit, "limit", 20, "number of snapshots to show")
}
