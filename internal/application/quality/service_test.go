package quality

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/devflow-go/internal/application/process"
	"github.com/doeshing/devflow-go/internal/application/process/processtest"
	"github.com/doeshing/devflow-go/internal/domain"
)

type prefixMatcher []string

func (m prefixMatcher) Match(rel string, _ bool) bool {
	for _, p := range m {
		if strings.HasPrefix(rel, p) {
			return true
		}
	}
	return false
}

func newService() (*Service, *processtest.Runner, *processtest.Reporter) {
	runner := processtest.NewRunner()
	reporter := &processtest.Reporter{}
	return &Service{
		Invoker:      &process.Invoker{Runner: runner, Reporter: reporter},
		Reporter:     reporter,
		EditorConfig: []byte("root = true\n"),
	}, runner, reporter
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("<Project />"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFormatRunsFormatter(t *testing.T) {
	svc, runner, _ := newService()
	if err := svc.Format(context.Background(), "src"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"dotnet format src"}, runner.CommandLines()); diff != "" {
		t.Fatal(diff)
	}
}

func TestFormatFailureIsFatal(t *testing.T) {
	svc, runner, _ := newService()
	runner.Fail("dotnet format .", 1, "boom")
	if _, ok := domain.AsProcessFailure(svc.Format(context.Background(), ".")); !ok {
		t.Fatal("expected ProcessFailure")
	}
}

func TestVerifyMapsExitCode(t *testing.T) {
	tests := []struct {
		name string
		exit int
		want bool
	}{
		{"formatted", 0, true},
		{"needs formatting", 2, false},
		{"formatter error", 1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, runner, _ := newService()
			if tc.exit != 0 {
				runner.Fail("dotnet format . --verify-no-changes", tc.exit, "")
			}
			got, err := svc.Verify(context.Background(), ".")
			if err != nil {
				t.Fatalf("Verify error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Verify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVerifySpawnFailureIsError(t *testing.T) {
	svc, runner, _ := newService()
	runner.Errors["dotnet format . --verify-no-changes"] = errors.New("executable file not found")
	ok, err := svc.Verify(context.Background(), ".")
	if ok || err == nil {
		t.Fatalf("got ok=%v err=%v", ok, err)
	}
}

func TestAnalyzeWithoutProjectsIsNotAnError(t *testing.T) {
	svc, runner, reporter := newService()
	if err := svc.Analyze(context.Background(), t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if len(runner.Calls) != 0 {
		t.Fatalf("unexpected calls %v", runner.CommandLines())
	}
	if len(reporter.Notices) != 1 {
		t.Fatalf("expected a notice, got %v", reporter.Notices)
	}
}

func TestAnalyzeBuildsAndAuditsEachProject(t *testing.T) {
	root := t.TempDir()
	api := filepath.Join(root, "Api", "Api.csproj")
	lib := filepath.Join(root, "Lib", "Lib.csproj")
	touch(t, api)
	touch(t, lib)
	touch(t, filepath.Join(root, "Api", "bin", "Release", "Copy.csproj"))
	touch(t, filepath.Join(root, "legacy", "Old.csproj"))

	svc, runner, _ := newService()
	svc.Excluded = prefixMatcher{"legacy"}
	runner.Fail("dotnet list "+api+" package --vulnerable", 1, "no network")

	if err := svc.Analyze(context.Background(), root); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	want := []string{
		"dotnet build " + api + " --configuration Release --verbosity quiet",
		"dotnet list " + api + " package --vulnerable",
		"dotnet list " + api + " package --deprecated",
		"dotnet build " + lib + " --configuration Release --verbosity quiet",
		"dotnet list " + lib + " package --vulnerable",
		"dotnet list " + lib + " package --deprecated",
	}
	if diff := cmp.Diff(want, runner.CommandLines()); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeStopsOnBuildFailure(t *testing.T) {
	root := t.TempDir()
	api := filepath.Join(root, "Api.csproj")
	touch(t, api)

	svc, runner, _ := newService()
	runner.Fail("dotnet build "+api+" --configuration Release --verbosity quiet", 1, "CS1002")
	if _, ok := domain.AsProcessFailure(svc.Analyze(context.Background(), root)); !ok {
		t.Fatal("expected ProcessFailure")
	}
	if len(runner.Calls) != 1 {
		t.Fatalf("audits must not run after a failed build: %v", runner.CommandLines())
	}
}

func TestAnalyzeMissingPath(t *testing.T) {
	svc, _, _ := newService()
	if err := svc.Analyze(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}

func TestInstallToolsIgnoresFailures(t *testing.T) {
	svc, runner, reporter := newService()
	runner.Fail("dotnet tool install -g security-scan", 1, "not found")
	if err := svc.InstallTools(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(runner.Calls) != 2 || len(reporter.Notices) != 1 {
		t.Fatalf("calls=%v notices=%v", runner.CommandLines(), reporter.Notices)
	}
}

func TestWriteEditorConfig(t *testing.T) {
	svc, _, _ := newService()
	dir := t.TempDir()
	path, err := svc.WriteEditorConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "root = true\n" {
		t.Fatalf("got %q", data)
	}
}
