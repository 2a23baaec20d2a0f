package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/devflow-go/internal/app"
	"github.com/doeshing/devflow-go/internal/domain"
)

// NewGitCommand creates the branching workflow command
func NewGitCommand(container *app.Container) *cobra.Command {
	var (
		message string
		push    bool
	)

	cmd := &cobra.Command{
		Use:   "git <feature|release|hotfix> <name>",
		Short: "Run a Git branching workflow",
		Long: "Check out and pull the base branch (main, falling back to master), " +
			"then create feature/<name>, hotfix/<name>, or release/<version> with tag v<version>.",
		Args: rangeArgs(1, 2, "devflow git <feature|release|hotfix> <name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 1 {
				name = args[1]
			}
			ctx := cmd.Context()
			svc := container.GitService
			switch strings.ToLower(args[0]) {
			case ActionFeature:
				return svc.Feature(ctx, name, push)
			case ActionRelease:
				return svc.Release(ctx, name, message, push)
			case ActionHotfix:
				return svc.Hotfix(ctx, name, push)
			default:
				return domain.ValidationErrorf("unknown action: %s. Available actions: %s, %s, %s",
					args[0], ActionFeature, ActionRelease, ActionHotfix)
			}
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Release tag message (defaults to \"Release <version>\")")
	cmd.Flags().BoolVarP(&push, "push", "p", true, "Push the new branch (and tag) to origin")
	return cmd
}
