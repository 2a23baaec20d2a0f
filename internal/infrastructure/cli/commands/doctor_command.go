package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/devflow-go/internal/app"
	"github.com/doeshing/devflow-go/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check git, the .NET SDK, the repository and devflow state",
		Args:  exactArgs(0, "devflow doctor"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.DoctorService == nil {
				return errors.New(ErrContainerUnavailable)
			}
			report, err := container.DoctorService.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("diagnostics failed: %w", err)
			}
			printHealthReport(cmd.OutOrStdout(), report)
			if report.HasErrors() {
				return errors.New("diagnostics found problems")
			}
			return nil
		},
	}
}

// printHealthReport prints one line per check followed by a tally.
func printHealthReport(out io.Writer, report domain.HealthReport) {
	counts := map[domain.HealthStatus]int{}
	for _, check := range report.Checks {
		counts[check.Status]++
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
	fmt.Fprintf(out, "\n%d ok, %d warnings, %d errors\n",
		counts[domain.HealthOK], counts[domain.HealthWarn], counts[domain.HealthError])
}
