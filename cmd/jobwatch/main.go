package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/audiolith/jobwatch/pkg/config"
	"github.com/audiolith/jobwatch/pkg/log"
	"github.com/audiolith/jobwatch/pkg/monitor"
	"github.com/audiolith/jobwatch/pkg/source/awscloud"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	flagEnvFile    string
	flagConfigFile string
	flagLogLevel   string
	flagLogJSON    bool
	flagJSON       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "jobwatch",
	Short: "Jobwatch - health monitor for the transcription pipeline",
	Long: `Jobwatch reconstructs transcription job and worker state from recent
worker logs, correlates it with queue depth and running instances, and
renders an operator-facing health verdict.

It is read-only except for two explicit remediation commands: terminating
a job's worker and purging the queue.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Init(log.Config{
			Level:      log.Level(flagLogLevel),
			JSONOutput: flagLogJSON,
		})

		if flagEnvFile != "" {
			if err := godotenv.Load(flagEnvFile); err != nil {
				return fmt.Errorf("failed to load env file %s: %w", flagEnvFile, err)
			}
		} else {
			// The deployment scripts keep a .env next to where
			// operators run commands; load it when present.
			_ = godotenv.Load()
		}
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Jobwatch version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "env file to load (default: ./.env if present)")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "YAML threshold overrides file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit diagnostic logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "render command output as JSON")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(workersCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Jobwatch version %s\nCommit: %s\nBuilt: %s\n", Version, Commit, BuildTime)
	},
}

// loadConfigOnly is for commands that never touch AWS (history).
func loadConfigOnly() (*config.Config, error) {
	return config.Load(flagConfigFile)
}

// setup loads configuration and builds the AWS-backed monitor shared by
// most commands.
func setup(ctx context.Context) (*config.Config, *monitor.Monitor, *awscloud.Clients, error) {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return nil, nil, nil, err
	}

	clients, err := awscloud.New(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	mon := &monitor.Monitor{
		Logs:     clients.Logs,
		Queue:    clients.Queue,
		Registry: clients.Registry,
		Cfg:      cfg,
	}
	return cfg, mon, clients, nil
}
