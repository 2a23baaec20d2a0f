package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/devflow-go/internal/app"
	"github.com/doeshing/devflow-go/internal/domain"
)

// NewNewCommand creates the project scaffolding command
func NewNewCommand(container *app.Container) *cobra.Command {
	var req domain.ScaffoldRequest

	cmd := &cobra.Command{
		Use:   "new <template> <name>",
		Short: "Create a new project from a template",
		Long: "Create a new project from a builtin template (api, web, console) " +
			"or a custom template registered with `devflow config template add`.",
		Args: exactArgs(2, "devflow new <template> <name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Template = args[0]
			req.Name = args[1]
			result, err := container.ScaffoldService.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			container.Reporter.Success("Project '%s' created in %s (%d files)", req.Name, result.OutputDir, len(result.Files))
			printNextSteps(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.OutputDir, "output", "o", "", "Output directory (defaults to the project name)")
	cmd.Flags().BoolVarP(&req.Force, "force", "f", false, "Overwrite an existing directory")
	return cmd
}

func printNextSteps(out io.Writer, result domain.ScaffoldResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  cd %s\n", result.OutputDir)
	fmt.Fprintln(out, "  dotnet restore")
	fmt.Fprintln(out, "  dotnet run")
}
