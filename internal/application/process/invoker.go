// Package process turns raw process results into fatal or ignorable outcomes.
package process

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/ports"
)

// Invoker runs external programs on behalf of the workflow services.
type Invoker struct {
	Runner   ports.ProcessRunner
	Reporter ports.Reporter
	Logger   ports.Logger
}

// Run executes a step whose failure aborts the workflow.
// Any spawn failure or non-zero exit becomes a *domain.ProcessFailure.
func (i *Invoker) Run(ctx context.Context, program string, args ...string) (domain.ProcessResult, error) {
	res, err := i.exec(ctx, program, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		return res, &domain.ProcessFailure{Command: domain.CommandLine(program, args), ExitCode: -1, Cause: err}
	}
	i.output(res)
	if !res.Succeeded() {
		return res, &domain.ProcessFailure{Command: res.CommandLine(), ExitCode: res.ExitCode, Stderr: res.Stderr}
	}
	i.warnStderr(res)
	return res, nil
}

// Attempt executes a best-effort step. Failures are reported as a notice and
// swallowed; only cancellation is returned.
func (i *Invoker) Attempt(ctx context.Context, program string, args ...string) (domain.ProcessResult, bool, error) {
	res, err := i.exec(ctx, program, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, false, ctxErr
		}
		i.notice(domain.CommandLine(program, args), err.Error())
		return res, false, nil
	}
	i.output(res)
	if !res.Succeeded() {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = "exit code " + strconv.Itoa(res.ExitCode)
		}
		i.notice(res.CommandLine(), detail)
		return res, false, nil
	}
	i.warnStderr(res)
	return res, true, nil
}

// Probe executes a step and only reports whether it exited zero.
// Spawn failures are returned so callers can tell them from a failed check.
func (i *Invoker) Probe(ctx context.Context, program string, args ...string) (domain.ProcessResult, bool, error) {
	res, err := i.exec(ctx, program, args)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, false, ctxErr
		}
		return res, false, &domain.ProcessFailure{Command: domain.CommandLine(program, args), ExitCode: -1, Cause: err}
	}
	i.output(res)
	i.warnStderr(res)
	return res, res.Succeeded(), nil
}

func (i *Invoker) exec(ctx context.Context, program string, args []string) (domain.ProcessResult, error) {
	if i.Runner == nil {
		return domain.ProcessResult{}, errors.New("process runner not configured")
	}
	if i.Logger != nil {
		i.Logger.Debug("running", map[string]interface{}{"command": domain.CommandLine(program, args)})
	}
	return i.Runner.Run(ctx, program, args)
}

// output echoes captured stdout whatever the exit code.
func (i *Invoker) output(res domain.ProcessResult) {
	if i.Reporter == nil {
		return
	}
	if out := strings.TrimRight(res.Stdout, "\r\n"); out != "" {
		i.Reporter.Output(out)
	}
}

// warnStderr surfaces captured stderr. Run and Attempt skip it on failure
// since the error or notice already carries it.
func (i *Invoker) warnStderr(res domain.ProcessResult) {
	if i.Reporter == nil {
		return
	}
	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		i.Reporter.Warning("%s", stderr)
	}
}

func (i *Invoker) notice(command, detail string) {
	if i.Reporter == nil {
		return
	}
	i.Reporter.Notice("command ignored: %s (%s)", command, detail)
}
