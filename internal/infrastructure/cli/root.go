package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/doeshing/devflow-go/internal/app"
	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/devflow-go/internal/ports"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose  bool
	StateDir string
	WorkDir  string
	Out      io.Writer
	ErrOut   io.Writer
	// Runner replaces the os/exec runner; the spinner is skipped when set.
	Runner ports.ProcessRunner
	Now    func() time.Time
}

type globalFlags struct {
	verbose   bool
	timeout   time.Duration
	noHistory bool
}

// commands that are never written to history
var unrecorded = map[string]bool{"history": true, "version": true}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	out, errOut := opts.Out, opts.ErrOut
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	appOpts := app.Options{
		Verbose:  opts.Verbose,
		StateDir: opts.StateDir,
		WorkDir:  opts.WorkDir,
		LogOut:   errOut,
		Reporter: NewConsole(out),
		Runner:   opts.Runner,
		Now:      now,
	}
	if opts.Runner == nil && isTerminal(errOut) {
		appOpts.WrapRunner = func(next ports.ProcessRunner) ports.ProcessRunner {
			return NewSpinningRunner(next, errOut)
		}
	}
	container, err := app.BuildContainer(ctx, appOpts)
	if err != nil {
		return nil, err
	}

	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "devflow",
		Short: "devflow - .NET developer workflow CLI",
		Long: "devflow scaffolds .NET projects, manages environment profiles, " +
			"drives Git branching conventions and wraps dotnet format.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			container.Logger.SetVerbose(opts.Verbose || flags.verbose)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln(cmd.UsageString())
		return domain.ValidationErrorf("%v", err)
	})

	pf := root.PersistentFlags()
	pf.BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	pf.DurationVar(&flags.timeout, "timeout", 0, "Abort after this long (0 disables)")
	pf.BoolVar(&flags.noHistory, "no-history", false, "Do not record this invocation")

	root.AddCommand(
		commands.NewNewCommand(container),
		commands.NewEnvCommand(container),
		commands.NewGitCommand(container),
		commands.NewFormatCommand(container),
		commands.NewConfigCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)

	instrument(root, container, flags, now)
	return root, nil
}

// instrument wraps every runnable command with the timeout and history recording.
func instrument(cmd *cobra.Command, container *app.Container, flags *globalFlags, now func() time.Time) {
	for _, child := range cmd.Commands() {
		instrument(child, container, flags, now)
	}
	if cmd.RunE == nil {
		return
	}

	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if flags.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, flags.timeout)
			defer cancel()
		}
		cmd.SetContext(ctx)

		started := now()
		err := run(cmd, args)
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", flags.timeout, err)
		}

		if !flags.noHistory && !unrecorded[verb(cmd)] {
			record(container, cmd, args, started, now().Sub(started), err)
		}
		return err
	}
}

func record(container *app.Container, cmd *cobra.Command, args []string, started time.Time, elapsed time.Duration, runErr error) {
	rec := domain.HistoryRecord{
		Timestamp:  started.UTC(),
		Command:    invocation(cmd, args),
		Success:    runErr == nil,
		DurationMS: elapsed.Milliseconds(),
	}
	if runErr != nil {
		rec.ExitCode = 1
		rec.Error = runErr.Error()
	}
	store := container.OpenHistory()
	defer store.Close()
	if err := store.Save(rec); err != nil {
		container.Logger.Warn("could not record history", map[string]interface{}{
			"path":  store.Path(),
			"error": err.Error(),
		})
	}
}

// verb returns the first command below the root.
func verb(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// invocation renders the command path below the root, its arguments and the flags set explicitly.
func invocation(cmd *cobra.Command, args []string) string {
	parts := strings.Fields(cmd.CommandPath())[1:]
	parts = append(parts, args...)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		parts = append(parts, fmt.Sprintf("--%s=%s", f.Name, f.Value.String()))
	})
	return strings.Join(parts, " ")
}
