package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/ports"
)

// LocalExecutor runs programs directly, without a shell, in the current working directory.
type LocalExecutor struct {
	dir    string
	logger ports.Logger
}

// NewLocalExecutor builds a new executor. An empty dir means the process working directory.
func NewLocalExecutor(dir string, logger ports.Logger) *LocalExecutor {
	return &LocalExecutor{dir: dir, logger: logger}
}

// Run implements ports.ProcessRunner.
func (e *LocalExecutor) Run(ctx context.Context, program string, args []string) (domain.ProcessResult, error) {
	result := domain.ProcessResult{Program: program, Args: append([]string(nil), args...)}

	c := exec.CommandContext(ctx, program, args...)
	c.Dir = e.dir
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	duration := time.Since(start).Milliseconds()

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	e.debug(result, duration, err)

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("%s: %w", result.CommandLine(), ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		result.ExitCode = -1
		return result, err
	}
	return result, nil
}

func (e *LocalExecutor) debug(result domain.ProcessResult, duration int64, err error) {
	if e.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"command":     result.CommandLine(),
		"duration_ms": duration,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	e.logger.Debug("process finished", fields)
}

var _ ports.ProcessRunner = (*LocalExecutor)(nil)
