package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/devflow-go/internal/app"
	"github.com/doeshing/devflow-go/internal/application/environment"
	"github.com/doeshing/devflow-go/internal/domain"
)

// NewEnvCommand creates the environment profile command
func NewEnvCommand(container *app.Container) *cobra.Command {
	var (
		name       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "env <setup|clean|list>",
		Short: "Manage named environment variable profiles",
		Long: "Manage named environment variable profiles. setup writes " +
			"<name>.env, set-<name>.ps1 and set-<name>.bat to the state directory.",
		Args: exactArgs(1, "devflow env <setup|clean|list>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := container.EnvironmentService
			switch strings.ToLower(args[0]) {
			case ActionSetup:
				_, err := svc.Setup(ctx, name, configPath)
				return err
			case ActionClean:
				_, err := svc.Clean(ctx, name)
				return err
			case ActionList:
				profiles, err := svc.List(ctx)
				if err != nil {
					return err
				}
				renderProfiles(cmd.OutOrStdout(), profiles)
				return nil
			default:
				return domain.ValidationErrorf("unknown action: %s. Available actions: %s, %s, %s",
					args[0], ActionSetup, ActionClean, ActionList)
			}
		},
	}

	cmd.Flags().StringVarP(&name, "environment", "e", domain.DefaultEnvironment, "Environment name")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Variable source file (.env, .json, .yaml, .toml)")
	return cmd
}

func renderProfiles(out io.Writer, profiles []domain.EnvironmentProfile) {
	if len(profiles) == 0 {
		fmt.Fprintln(out, MsgNoEnvironments)
		return
	}
	fmt.Fprintln(out, "Available environments:")
	for _, p := range profiles {
		fmt.Fprintf(out, "\n%s (%s)\n", p.Name, humanize.Time(p.CreatedAt))
		for _, line := range environment.Describe(p) {
			fmt.Fprintf(out, "   %s\n", line)
		}
	}
}
