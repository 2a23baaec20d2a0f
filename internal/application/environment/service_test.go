package environment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/devflow-go/internal/application/process/processtest"
	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/infrastructure/envfile"
	"github.com/doeshing/devflow-go/internal/infrastructure/registry"
	"github.com/doeshing/devflow-go/internal/pkg/logger"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func newService(t *testing.T) (*Service, string, *processtest.Reporter) {
	t.Helper()
	dir := t.TempDir()
	reporter := &processtest.Reporter{}
	log := logger.NewStd(false)
	return &Service{
		Repository: registry.NewJSONStore(dir, log),
		Parser:     envfile.NewParser(),
		Reporter:   reporter,
		Logger:     log,
		Now:        func() time.Time { return fixedNow },
	}, dir, reporter
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSetupThenListReportsVariableCount(t *testing.T) {
	for _, name := range []string{"dev", "Staging", "PRODUCTION", "qa"} {
		t.Run(name, func(t *testing.T) {
			svc, _, _ := newService(t)
			ctx := context.Background()

			profile, err := svc.Setup(ctx, name, "")
			if err != nil {
				t.Fatalf("Setup error: %v", err)
			}
			profiles, err := svc.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(profiles) != 1 || profiles[0].Name != name {
				t.Fatalf("got %+v", profiles)
			}
			if len(profiles[0].Variables) != len(profile.Variables) {
				t.Fatalf("count mismatch: listed %d, set %d", len(profiles[0].Variables), len(profile.Variables))
			}
		})
	}
}

func TestSetupSeedsStaging(t *testing.T) {
	svc, _, _ := newService(t)
	profile, err := svc.Setup(context.Background(), "staging", "")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"ASPNETCORE_ENVIRONMENT": "Staging",
		"DOTNET_ENVIRONMENT":     "Staging",
	}
	if diff := cmp.Diff(want, profile.Variables); diff != "" {
		t.Fatalf("seed mismatch (-want +got):\n%s", diff)
	}
}

func TestSetupMergesSourceOverSeeds(t *testing.T) {
	svc, dir, _ := newService(t)
	src := filepath.Join(t.TempDir(), "dev.env")
	writeFile(t, src, "A=1\n# comment\nB=2=3\nASPNETCORE_ENVIRONMENT=Local\n")

	profile, err := svc.Setup(context.Background(), "dev", src)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"A":                      "1",
		"B":                      "2=3",
		"ASPNETCORE_ENVIRONMENT": "Local",
		"DOTNET_ENVIRONMENT":     "Development",
	}
	if diff := cmp.Diff(want, profile.Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
	if profile.SourceConfigPath != src {
		t.Fatalf("source path %q", profile.SourceConfigPath)
	}

	data, err := os.ReadFile(filepath.Join(dir, "dev.env"))
	if err != nil {
		t.Fatal(err)
	}
	wantEnv := "A=1\nASPNETCORE_ENVIRONMENT=Local\nB=2=3\nDOTNET_ENVIRONMENT=Development\n"
	if string(data) != wantEnv {
		t.Fatalf("dev.env = %q", data)
	}
	for _, name := range []string{"set-dev.ps1", "set-dev.bat"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s missing: %v", name, err)
		}
	}
}

func TestSetupMissingSourceWarnsAndContinues(t *testing.T) {
	svc, _, reporter := newService(t)
	profile, err := svc.Setup(context.Background(), "dev", filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.Variables) != 2 || len(reporter.Warnings) != 1 {
		t.Fatalf("vars=%v warnings=%v", profile.Variables, reporter.Warnings)
	}
}

func TestSetupOverwritesExistingProfile(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "vars.json")
	writeFile(t, src, `{"EXTRA": "x"}`)

	if _, err := svc.Setup(ctx, "dev", src); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Setup(ctx, "dev", ""); err != nil {
		t.Fatal(err)
	}
	profiles, _ := svc.List(ctx)
	if len(profiles) != 1 || len(profiles[0].Variables) != 2 {
		t.Fatalf("got %+v", profiles)
	}
}

func TestCleanAbsentIsNoOp(t *testing.T) {
	svc, dir, reporter := newService(t)
	ctx := context.Background()
	if _, err := svc.Setup(ctx, "dev", ""); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, domain.EnvironmentsFileName)
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	statBefore, _ := os.Stat(path)

	removed, err := svc.Clean(ctx, "ghost")
	if err != nil || removed {
		t.Fatalf("got removed=%v err=%v", removed, err)
	}
	after, _ := os.ReadFile(path)
	statAfter, _ := os.Stat(path)
	if string(before) != string(after) || !statBefore.ModTime().Equal(statAfter.ModTime()) {
		t.Fatal("registry file changed")
	}
	if len(reporter.Notices) != 1 {
		t.Fatalf("expected a notice, got %v", reporter.Notices)
	}
}

func TestCleanRemovesProfileAndExports(t *testing.T) {
	svc, dir, _ := newService(t)
	ctx := context.Background()
	if _, err := svc.Setup(ctx, "prod", ""); err != nil {
		t.Fatal(err)
	}
	removed, err := svc.Clean(ctx, "prod")
	if err != nil || !removed {
		t.Fatalf("got removed=%v err=%v", removed, err)
	}
	for _, name := range []string{"prod.env", "set-prod.ps1", "set-prod.bat"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s still present", name)
		}
	}
	if profiles, _ := svc.List(ctx); len(profiles) != 0 {
		t.Fatalf("got %+v", profiles)
	}
}

func TestInvalidNameIsValidationError(t *testing.T) {
	for _, name := range []string{" ", ".", "..", "../escaped", `..\escaped`, "nested/dev"} {
		t.Run(name, func(t *testing.T) {
			svc, dir, _ := newService(t)
			ctx := context.Background()

			if _, err := svc.Setup(ctx, name, ""); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Setup: got %v", err)
			}
			if _, err := svc.Clean(ctx, name); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Clean: got %v", err)
			}
			if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escaped.env")); !os.IsNotExist(err) {
				t.Fatalf("export file written outside the state directory: %v", err)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 0 {
				t.Fatalf("state directory not empty: %v", entries)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	p := domain.EnvironmentProfile{
		Name:             "dev",
		CreatedAt:        fixedNow,
		SourceConfigPath: "/tmp/dev.env",
		Variables:        map[string]string{"A": "1"},
	}
	want := []string{"Created: 2024-03-09 14:05:00 UTC", "Variables: 1", "Config: /tmp/dev.env"}
	if diff := cmp.Diff(want, Describe(p)); diff != "" {
		t.Fatal(diff)
	}
}
