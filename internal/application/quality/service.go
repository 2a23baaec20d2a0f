// Package quality wraps the dotnet formatter, release build and package audits.
package quality

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/devflow-go/internal/application/process"
	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/pkg/filesystem"
	"github.com/doeshing/devflow-go/internal/ports"
)

// ProjectFileExt identifies project descriptors picked up by Analyze.
const ProjectFileExt = ".csproj"

// EditorConfigFileName is written by WriteEditorConfig.
const EditorConfigFileName = ".editorconfig"

// Global tools installed by InstallTools.
var analysisTools = []string{"dotnet-format", "security-scan"}

// build output directories never contain sources worth analyzing
var skippedDirs = map[string]bool{"bin": true, "obj": true}

// Service sequences dotnet invocations for the format verb.
type Service struct {
	Invoker      *process.Invoker
	Reporter     ports.Reporter
	Excluded     ports.PathMatcher
	EditorConfig []byte
}

// Format rewrites sources under path in place.
func (s *Service) Format(ctx context.Context, path string) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.Reporter.Step("Formatting code in: %s", path)
	if _, err := s.Invoker.Run(ctx, domain.DotnetProgram, "format", path); err != nil {
		return err
	}
	s.Reporter.Success("Code formatting completed")
	return nil
}

// Verify reports whether sources under path are already formatted.
// A non-zero formatter exit maps to false; only an unstartable formatter or
// cancellation is returned as an error.
func (s *Service) Verify(ctx context.Context, path string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	s.Reporter.Step("Verifying code formatting in: %s", path)
	_, formatted, err := s.Invoker.Probe(ctx, domain.DotnetProgram, "format", path, "--verify-no-changes")
	if err != nil {
		return false, err
	}
	return formatted, nil
}

// Analyze builds every project under path in Release mode and audits its packages.
func (s *Service) Analyze(ctx context.Context, path string) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.Reporter.Step("Running code analysis in: %s", path)

	projects, err := s.DiscoverProjects(path)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		s.Reporter.Notice("No %s files found for analysis", ProjectFileExt)
		return nil
	}

	for _, project := range projects {
		s.Reporter.Step("Analyzing project: %s", filepath.Base(project))
		if _, err := s.Invoker.Run(ctx, domain.DotnetProgram,
			"build", project, "--configuration", "Release", "--verbosity", "quiet"); err != nil {
			return err
		}
		s.Reporter.Step("Running security analysis...")
		for _, flag := range []string{"--vulnerable", "--deprecated"} {
			if _, _, err := s.Invoker.Attempt(ctx, domain.DotnetProgram, "list", project, "package", flag); err != nil {
				return err
			}
		}
	}
	s.Reporter.Success("Code analysis completed")
	return nil
}

// DiscoverProjects returns project files below root in lexical order,
// skipping bin/, obj/ and anything matched by the exclusion patterns.
func (s *Service) DiscoverProjects(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("analysis path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, domain.ValidationErrorf("analysis path %s is not a directory", root)
	}

	var projects []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skippedDirs[strings.ToLower(d.Name())] || s.excluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ProjectFileExt) && !s.excluded(rel, false) {
			projects = append(projects, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover projects: %w", err)
	}
	return projects, nil
}

// InstallTools installs the global analysis tools; failures are only reported.
func (s *Service) InstallTools(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.Reporter.Step("Installing code analysis tools...")
	for _, tool := range analysisTools {
		if _, _, err := s.Invoker.Attempt(ctx, domain.DotnetProgram, "tool", "install", "-g", tool); err != nil {
			return err
		}
	}
	s.Reporter.Success("Code analysis tools installed")
	return nil
}

// WriteEditorConfig writes the bundled .editorconfig into dir and returns its path.
func (s *Service) WriteEditorConfig(dir string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	if len(s.EditorConfig) == 0 {
		return "", errors.New("editorconfig payload not configured")
	}
	s.Reporter.Step("Creating %s file...", EditorConfigFileName)
	target := filepath.Join(dir, EditorConfigFileName)
	if err := filesystem.WriteFileAtomic(target, s.EditorConfig, domain.FilePermissions); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	s.Reporter.Success("%s created at: %s", EditorConfigFileName, target)
	return target, nil
}

func (s *Service) excluded(rel string, isDir bool) bool {
	if s.Excluded == nil {
		return false
	}
	return s.Excluded.Match(filepath.ToSlash(rel), isDir)
}

func (s *Service) ready() error {
	if s.Invoker == nil || s.Reporter == nil {
		return errors.New("quality.Service dependencies not satisfied")
	}
	return nil
}
