package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/devflow-go/internal/app"
	"github.com/doeshing/devflow-go/internal/domain"
)

type formatOptions struct {
	path         string
	verify       bool
	analyze      bool
	installTools bool
	editorConfig bool
}

// NewFormatCommand creates the code formatting and analysis command
func NewFormatCommand(container *app.Container) *cobra.Command {
	var opts formatOptions

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Format, verify or analyze .NET sources",
		Args:  exactArgs(0, "devflow format [--path <dir>] [--verify] [--analyze]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, container, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", domain.DefaultFormatPath, "Directory to format")
	cmd.Flags().BoolVarP(&opts.verify, "verify", "v", false, "Only verify formatting, fail when changes are needed")
	cmd.Flags().BoolVarP(&opts.analyze, "analyze", "a", false, "Build every project in Release mode and audit packages")
	cmd.Flags().BoolVar(&opts.installTools, "install-tools", false, "Install global analysis tools first")
	cmd.Flags().BoolVar(&opts.editorConfig, "editorconfig", false, "Write the bundled .editorconfig into --path first")
	return cmd
}

func runFormat(cmd *cobra.Command, container *app.Container, opts formatOptions) error {
	ctx := cmd.Context()
	svc := container.QualityService
	container.Reporter.Step("Code formatting for path: %s", opts.path)

	if opts.installTools {
		if err := svc.InstallTools(ctx); err != nil {
			return err
		}
	}
	if opts.editorConfig {
		if _, err := svc.WriteEditorConfig(opts.path); err != nil {
			return err
		}
	}

	if opts.verify {
		formatted, err := svc.Verify(ctx, opts.path)
		if err != nil {
			return err
		}
		if !formatted {
			container.Reporter.Warning("Code formatting issues found")
			return domain.ErrFormatVerification
		}
		container.Reporter.Success("Code formatting verification passed")
	} else if err := svc.Format(ctx, opts.path); err != nil {
		return err
	}

	if opts.analyze {
		return svc.Analyze(ctx, opts.path)
	}
	return nil
}
