package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/config"
	"github.com/shaiso/Conveyor/internal/validate"
)

// NewValidateCmd создаёт команду проверки конфигурации jobs.
func NewValidateCmd(outputFn func() *Output) *cobra.Command {
	var jobsPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate job configurations without running them",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			if jobsPath == "" {
				jobsPath = config.JobsPath()
			}
			jobs, err := config.LoadJobs(jobsPath)
			if err != nil {
				return err
			}

			validator := validate.New()

			type jobReport struct {
				Job     string            `json:"job"`
				Valid   bool              `json:"valid"`
				Results []validate.Result `json:"results"`
			}

			var reports []jobReport
			var rows [][]string
			failing := 0

			for i := range jobs {
				results := validator.Validate(&jobs[i])
				valid := validate.Executable(results)
				if !valid {
					failing++
				}

				reports = append(reports, jobReport{
					Job:     jobs[i].Name(),
					Valid:   valid,
					Results: results,
				})

				for _, r := range results {
					passed := "ok"
					if !r.Passed {
						passed = "FAIL"
					}
					rows = append(rows, []string{
						jobs[i].Name(), passed, string(r.Severity), r.Message,
					})
				}
			}

			out.Print([]string{"JOB", "CHECK", "SEVERITY", "MESSAGE"}, rows, reports)

			if failing > 0 {
				return fmt.Errorf("%d of %d jobs failed validation", failing, len(jobs))
			}
			out.Success(fmt.Sprintf("All %d jobs valid", len(jobs)))
			return nil
		},
	}

	cmd.Flags().StringVar(&jobsPath, "jobs", "", "Path to jobs file (default: config/jobs.yml)")

	return cmd
}
