package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/audiolith/jobwatch/pkg/remediate"
	"github.com/audiolith/jobwatch/pkg/report"
)

var (
	flagPurge bool
	flagYes   bool
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show queue counters, or purge all messages with --purge",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, _, clients, err := setup(ctx)
		if err != nil {
			return err
		}

		if !flagPurge {
			stats, err := clients.Queue.Attributes(ctx)
			if err != nil {
				return err
			}
			if flagJSON {
				return report.JSON(os.Stdout, stats)
			}
			fmt.Printf("Visible:     %d\n", stats.Visible)
			fmt.Printf("In-flight:   %d\n", stats.InFlight)
			dlq := "not configured"
			if stats.DeadLetterConfigured {
				dlq = "configured"
			}
			fmt.Printf("Dead-letter: %s\n", dlq)
			return nil
		}

		confirmed := flagYes
		if !confirmed {
			confirmed = confirm(fmt.Sprintf("Purge ALL messages from %s? This cannot be undone", cfg.QueueURL))
		}

		actions := &remediate.Actions{Queue: clients.Queue}
		cleared, err := actions.Purge(ctx, confirmed)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Purged ~%d message(s)\n", cleared)
		return nil
	},
}

var killCmd = &cobra.Command{
	Use:   "kill <job_id>",
	Short: "Terminate the worker instance running a job",
	Long: `Resolves the worker that last logged against the given job id and
terminates that instance. Queue messages are not touched: the job's message
becomes visible again once its visibility timeout expires and another
worker picks it up.

If no worker can be identified from the job's logs, the command reports
that explicitly and takes no action.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		jobID := args[0]

		cfg, _, clients, err := setup(ctx)
		if err != nil {
			return err
		}

		confirmed := flagYes
		if !confirmed {
			confirmed = confirm(fmt.Sprintf("Terminate the worker running job %s?", jobID))
		}

		actions := &remediate.Actions{
			Logs:     clients.Logs,
			Registry: clients.Registry,
			Window:   cfg.LookbackWindow,
		}
		res, err := actions.Kill(ctx, jobID, confirmed)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Termination requested for %s (job %s)\n", res.InstanceID, res.JobID)
		fmt.Println("The job's message will reappear after the queue visibility timeout.")
		return nil
	},
}

// confirm prompts on stderr and reads a y/N answer from stdin. Anything
// but an explicit yes refuses.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	queueCmd.Flags().BoolVar(&flagPurge, "purge", false, "delete every message in the queue")
	queueCmd.Flags().BoolVar(&flagYes, "yes", false, "skip the confirmation prompt")
	killCmd.Flags().BoolVar(&flagYes, "yes", false, "skip the confirmation prompt")
}
