package executor

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/devflow-go/internal/pkg/logger"
)

func requireProgram(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestRunCapturesOutput(t *testing.T) {
	requireProgram(t, "sh")
	e := NewLocalExecutor("", logger.NewStd(false))

	res, err := e.Run(context.Background(), "sh", []string{"-c", "echo out; echo err 1>&2"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "out" || strings.TrimSpace(res.Stderr) != "err" {
		t.Fatalf("got stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if !res.Succeeded() {
		t.Fatalf("expected success, exit %d", res.ExitCode)
	}
}

func TestRunReportsNonZeroExitWithoutError(t *testing.T) {
	requireProgram(t, "sh")
	e := NewLocalExecutor("", nil)

	res, err := e.Run(context.Background(), "sh", []string{"-c", "exit 3"})
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("expected exit 3, got %d", res.ExitCode)
	}
}

func TestRunMissingProgramIsError(t *testing.T) {
	e := NewLocalExecutor("", nil)
	if _, err := e.Run(context.Background(), "devflow-no-such-program", nil); err == nil {
		t.Fatal("expected spawn error")
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	requireProgram(t, "sleep")
	e := NewLocalExecutor("", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := e.Run(ctx, "sleep", []string{"5"}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestRunUsesWorkingDirectory(t *testing.T) {
	requireProgram(t, "pwd")
	dir := t.TempDir()
	e := NewLocalExecutor(dir, nil)

	res, err := e.Run(context.Background(), "pwd", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(res.Stdout), strings.TrimPrefix(dir, "/private")) {
		t.Fatalf("got %q want suffix %q", res.Stdout, dir)
	}
}
