package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/pkg/logger"
)

func TestGetReturnsDefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewFileStore(path, logger.NewStd(false))

	got := store.Get(context.Background())
	if diff := cmp.Diff(domain.DefaultConfig(), got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("Get must not create the file, stat err = %v", err)
	}
}

func TestGetWarnsAndFallsBackOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	store := NewFileStore(path, logger.NewWithWriter(&logs, false))

	got := store.Get(context.Background())
	if diff := cmp.Diff(domain.DefaultConfig(), got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "[WARN]") {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "config.json")
	ctx := context.Background()

	cfg := domain.Config{
		DefaultAuthor:    "alice",
		DefaultNamespace: "Acme",
		Templates: map[string]domain.TemplateDescriptor{
			"api":    {Name: "api", Kind: domain.TemplateBuiltin, Description: "api"},
			"worker": {Name: "worker", Kind: domain.TemplateCustom, Path: "/srv/tpl/worker", Description: "Custom template: worker"},
		},
		Git: domain.GitSettings{
			DefaultBranch:         "develop",
			AutoCommit:            true,
			AutoPush:              false,
			CommitMessageTemplate: "{type}({scope}): {description}",
		},
		Quality: domain.QualitySettings{
			AutoFormat:        false,
			RunAnalysis:       true,
			EnforceStyleRules: true,
			ExcludedPaths:     []string{"vendor", "legacy/**"},
		},
		Container: domain.ContainerSettings{
			BaseImage:    "base:1",
			SdkImage:     "sdk:1",
			MultiStage:   false,
			ExposedPorts: []string{"80"},
		},
	}

	if err := NewFileStore(path, logger.NewStd(false)).Save(ctx, cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded := NewFileStore(path, logger.NewStd(false)).Get(ctx)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestSavedFileIsPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewFileStore(path, logger.NewStd(false))
	if err := store.Save(context.Background(), domain.DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"defaultAuthor\"") {
		t.Fatalf("expected indented JSON, got:\n%s", data)
	}
}

func TestLoadAcceptsCommentsAndKeepsMissingDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{
  // edited by hand
  "defaultAuthor": "bob",
  "git": {"defaultBranch": "trunk",},
}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := NewFileStore(path, logger.NewStd(false)).Get(context.Background())
	if cfg.DefaultAuthor != "bob" {
		t.Errorf("got author %q", cfg.DefaultAuthor)
	}
	if cfg.Git.DefaultBranch != "trunk" {
		t.Errorf("got branch %q", cfg.Git.DefaultBranch)
	}
	if cfg.Container.BaseImage != domain.DefaultBaseImage {
		t.Errorf("container defaults lost: %+v", cfg.Container)
	}
}

func TestMutatorsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	ctx := context.Background()
	store := NewFileStore(path, logger.NewStd(false))

	if _, err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize error: %v", err)
	}
	if err := store.SetDefaultAuthor(ctx, "carol"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetDefaultNamespace(ctx, "Contoso"); err != nil {
		t.Fatal(err)
	}
	if err := store.AddCustomTemplate(ctx, "worker", "/tpl/worker"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetGitDefaults(ctx, "develop", true, false); err != nil {
		t.Fatal(err)
	}

	reloaded := NewFileStore(path, logger.NewStd(false)).Get(ctx)
	if reloaded.DefaultAuthor != "carol" || reloaded.DefaultNamespace != "Contoso" {
		t.Errorf("got %+v", reloaded)
	}
	if len(reloaded.Templates) != 4 {
		t.Errorf("expected builtin + custom templates, got %v", reloaded.TemplateNames())
	}
	if reloaded.Git.DefaultBranch != "develop" || !reloaded.Git.AutoCommit || reloaded.Git.AutoPush {
		t.Errorf("got git %+v", reloaded.Git)
	}

	if err := store.RemoveCustomTemplate(ctx, "worker"); err != nil {
		t.Fatal(err)
	}
	reloaded = NewFileStore(path, logger.NewStd(false)).Get(ctx)
	if _, ok := reloaded.FindTemplate("worker"); ok {
		t.Error("template not removed")
	}
}
