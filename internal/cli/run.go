package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/config"
	"github.com/shaiso/Conveyor/internal/orchestrator"
	"github.com/shaiso/Conveyor/internal/secrets"
	"github.com/shaiso/Conveyor/internal/transfer"
	"github.com/shaiso/Conveyor/internal/validate"
)

// NewRunCmd создаёт команду запуска batch.
//
// Команда использует dry-run executor: проверяет валидацию, цепочку
// секретов и сборку DSN, не перенося данные. Полноценный перенос
// выполняет conveyor-runner с подключённым transfer-движком.
func NewRunCmd(outputFn func() *Output) *cobra.Command {
	var jobsPath string
	var parallel bool
	var workers int
	var destination string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a batch in dry-run mode (validation + credential wiring)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()
			logger := slog.Default()

			if jobsPath == "" {
				jobsPath = config.JobsPath()
			}
			all, err := config.LoadJobs(jobsPath)
			if err != nil {
				return err
			}
			jobs := config.EnabledJobs(all)
			if len(jobs) == 0 {
				return fmt.Errorf("no enabled jobs in %s", jobsPath)
			}

			resolver, err := secrets.NewDefaultResolver(logger)
			if err != nil {
				return err
			}

			orch := orchestrator.New(orchestrator.Config{
				Validator:       validate.New(),
				Resolver:        resolver,
				Executor:        transfer.NewDryRun(logger),
				DestinationName: destination,
				Logger:          logger,
			})

			summary, err := orch.Run(cmd.Context(), jobs, orchestrator.Options{
				Parallel:   parallel,
				MaxWorkers: workers,
			})
			if err != nil {
				return err
			}

			out.Print([]string{"JOB", "STATUS", "ROWS", "RETRIES", "DURATION"}, jobRows(summary.Jobs), summary)
			out.Success(fmt.Sprintf("Batch %s: %d/%d jobs succeeded, health score %.1f",
				summary.BatchID, summary.SuccessfulJobs, summary.TotalJobs, summary.HealthScore))

			if summary.FailedJobs > 0 {
				return fmt.Errorf("%d jobs did not succeed", summary.FailedJobs)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobsPath, "jobs", "", "Path to jobs file (default: config/jobs.yml)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Run jobs in a worker pool")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (default: 3)")
	cmd.Flags().StringVar(&destination, "destination", "", "Destination name in the secret store (default: destination)")

	return cmd
}
