package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nlshell/nlsh/internal/app"
	"github.com/nlshell/nlsh/internal/domain"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration, credentials and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := container.DoctorService.Run(cmd.Context())
			out := cmd.OutOrStdout()
			for _, check := range report.Checks {
				fmt.Fprintf(out, "[%s] %-22s %s\n", statusMark(check.Status), check.Name, check.Details)
			}
			if err != nil {
				return err
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found problems")
			}
			fmt.Fprintln(out, "\nAll checks passed.")
			return nil
		},
	}
}

func statusMark(status domain.HealthStatus) string {
	switch status {
	case domain.HealthOK:
		return "ok"
	case domain.HealthWarn:
		return "warn"
	default:
		return "FAIL"
	}
}
