// Package processtest provides recording fakes for process-driven services.
package processtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/doeshing/devflow-go/internal/domain"
)

// Call is one recorded invocation.
type Call struct {
	Program string
	Args    []string
}

// String renders the call as a command line.
func (c Call) String() string { return domain.CommandLine(c.Program, c.Args) }

// Runner records invocations and replays scripted results keyed by command line.
// Unscripted commands succeed with empty output.
type Runner struct {
	mu      sync.Mutex
	Calls   []Call
	Results map[string]domain.ProcessResult
	Errors  map[string]error
}

// NewRunner returns an empty recording runner.
func NewRunner() *Runner {
	return &Runner{Results: map[string]domain.ProcessResult{}, Errors: map[string]error{}}
}

// Fail scripts a non-zero exit for the given command line.
func (r *Runner) Fail(commandLine string, exitCode int, stderr string) {
	r.Results[commandLine] = domain.ProcessResult{ExitCode: exitCode, Stderr: stderr}
}

// Run implements ports.ProcessRunner.
func (r *Runner) Run(_ context.Context, program string, args []string) (domain.ProcessResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	call := Call{Program: program, Args: append([]string(nil), args...)}
	r.Calls = append(r.Calls, call)

	line := call.String()
	if err, ok := r.Errors[line]; ok {
		return domain.ProcessResult{Program: program, Args: call.Args, ExitCode: -1}, err
	}
	res := r.Results[line]
	res.Program = program
	res.Args = call.Args
	return res, nil
}

// CommandLines returns every recorded call rendered as a command line.
func (r *Runner) CommandLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.String())
	}
	return out
}

// Reporter collects status lines by category.
type Reporter struct {
	mu        sync.Mutex
	Steps     []string
	Successes []string
	Notices   []string
	Warnings  []string
	Outputs   []string
}

func (r *Reporter) Step(format string, args ...any) { r.add(&r.Steps, format, args) }
func (r *Reporter) Success(format string, args ...any) { r.add(&r.Successes, format, args) }
func (r *Reporter) Notice(format string, args ...any) { r.add(&r.Notices, format, args) }
func (r *Reporter) Warning(format string, args ...any) { r.add(&r.Warnings, format, args) }

func (r *Reporter) Output(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outputs = append(r.Outputs, text)
}

func (r *Reporter) add(dst *[]string, format string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}
