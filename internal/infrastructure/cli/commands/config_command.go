package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/devflow-go/internal/app"
	configapp "github.com/doeshing/devflow-go/internal/application/config"
	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/pkg/filesystem"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the devflow configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, container)
		},
	}

	configCmd.AddCommand(
		newConfigInitCommand(container),
		newConfigShowCommand(container),
		newConfigPathCommand(container),
		newConfigValidateCommand(container),
		newConfigSetAuthorCommand(container),
		newConfigSetNamespaceCommand(container),
		newConfigTemplateCommand(container),
		newConfigGitCommand(container),
		newConfigDiffCommand(container),
	)

	return configCmd
}

// newConfigInitCommand creates the 'config init' subcommand
func newConfigInitCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with defaults filled in",
		Args:  exactArgs(0, "devflow config init"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigStore.Initialize(cmd.Context())
			if err != nil {
				return err
			}
			container.Reporter.Success("Configuration initialized at %s", container.ConfigStore.Path())
			container.Reporter.Notice("%s", configapp.Describe(cfg))
			return nil
		},
	}
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		Args:  exactArgs(0, "devflow config show"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, container)
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  exactArgs(0, "devflow config path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigStore.Path())
			return nil
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  exactArgs(0, "devflow config validate"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configapp.Validate(container.ConfigStore.Get(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// newConfigSetAuthorCommand creates the 'config set-author' subcommand
func newConfigSetAuthorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set-author <name>",
		Short: "Set the author written into generated projects",
		Args:  exactArgs(1, "devflow config set-author <name>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.ConfigStore.SetDefaultAuthor(cmd.Context(), args[0]); err != nil {
				return err
			}
			container.Reporter.Success("Default author set to %s", args[0])
			return nil
		},
	}
}

// newConfigSetNamespaceCommand creates the 'config set-namespace' subcommand
func newConfigSetNamespaceCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set-namespace <namespace>",
		Short: "Set the root namespace of generated projects",
		Args:  exactArgs(1, "devflow config set-namespace <namespace>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.ConfigStore.SetDefaultNamespace(cmd.Context(), args[0]); err != nil {
				return err
			}
			container.Reporter.Success("Default namespace set to %s", args[0])
			return nil
		},
	}
}

// newConfigTemplateCommand creates the 'config template' subcommand group
func newConfigTemplateCommand(container *app.Container) *cobra.Command {
	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Manage project templates",
	}

	templateCmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <path>",
			Short: "Register a directory as a custom template",
			Args:  exactArgs(2, "devflow config template add <name> <path>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := filepath.Abs(filesystem.ExpandPath(args[1]))
				if err != nil {
					return err
				}
				if err := container.ConfigStore.AddCustomTemplate(cmd.Context(), args[0], path); err != nil {
					return err
				}
				container.Reporter.Success("Template '%s' registered from %s", args[0], path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Unregister a template",
			Args:  exactArgs(1, "devflow config template remove <name>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := container.ConfigStore.RemoveCustomTemplate(cmd.Context(), args[0]); err != nil {
					return err
				}
				container.Reporter.Success("Template '%s' removed", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered templates",
			Args:  exactArgs(0, "devflow config template list"),
			RunE: func(cmd *cobra.Command, args []string) error {
				listTemplates(cmd.OutOrStdout(), container.ConfigStore.Get(cmd.Context()))
				return nil
			},
		},
	)

	return templateCmd
}

// newConfigGitCommand creates the 'config git' subcommand
func newConfigGitCommand(container *app.Container) *cobra.Command {
	var (
		defaultBranch string
		autoCommit    bool
		autoPush      bool
	)

	cmd := &cobra.Command{
		Use:   "git",
		Short: "Update Git workflow defaults",
		Args:  exactArgs(0, "devflow config git [--default-branch <name>] [--auto-commit] [--auto-push]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			current := container.ConfigStore.Get(ctx).Git
			flags := cmd.Flags()
			if !flags.Changed("default-branch") {
				defaultBranch = current.DefaultBranch
			}
			if !flags.Changed("auto-commit") {
				autoCommit = current.AutoCommit
			}
			if !flags.Changed("auto-push") {
				autoPush = current.AutoPush
			}
			if defaultBranch == "" {
				return domain.ValidationErrorf("--default-branch cannot be empty")
			}
			if err := container.ConfigStore.SetGitDefaults(ctx, defaultBranch, autoCommit, autoPush); err != nil {
				return err
			}
			container.Reporter.Success("Git defaults: branch=%s auto-commit=%t auto-push=%t", defaultBranch, autoCommit, autoPush)
			return nil
		},
	}

	cmd.Flags().StringVar(&defaultBranch, "default-branch", "", "Default base branch")
	cmd.Flags().BoolVar(&autoCommit, "auto-commit", false, "Commit automatically after workflows")
	cmd.Flags().BoolVar(&autoPush, "auto-push", false, "Push automatically after workflows")
	return cmd
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		Args:  exactArgs(0, "devflow config diff"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := container.ConfigStore.Get(cmd.Context())
			diff := cmp.Diff(domain.DefaultConfig(), cfg, cmpopts.EquateEmpty())
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), MsgNoDifferencesFromDefault)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), diff)
			return nil
		},
	}
}

func showConfiguration(cmd *cobra.Command, container *app.Container) error {
	cfg := container.ConfigStore.Get(cmd.Context())
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("render configuration: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", container.ConfigStore.Path())
	_, err = out.Write(data)
	return err
}

func listTemplates(out io.Writer, cfg domain.Config) {
	names := cfg.TemplateNames()
	if len(names) == 0 {
		fmt.Fprintln(out, MsgNoTemplates)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION")
	for _, name := range names {
		tpl := cfg.Templates[name]
		desc := tpl.Description
		if tpl.Kind == domain.TemplateCustom {
			desc = fmt.Sprintf("%s (%s)", desc, tpl.Path)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, tpl.Kind, desc)
	}
	w.Flush()
}
