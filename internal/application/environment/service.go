// Package environment manages named variable profiles and their export files.
package environment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/ports"
)

// Service implements setup, clean and list over the profile registry.
type Service struct {
	Repository ports.EnvironmentRepository
	Parser     ports.VariableSourceParser
	Reporter   ports.Reporter
	Logger     ports.Logger
	Now        func() time.Time
}

// Setup builds the profile for name, seeding class defaults and merging
// variables from configPath when it exists, then persists the registry and
// regenerates all three export files. An existing profile is replaced.
func (s *Service) Setup(ctx context.Context, name, configPath string) (domain.EnvironmentProfile, error) {
	if err := s.ready(); err != nil {
		return domain.EnvironmentProfile{}, err
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return domain.EnvironmentProfile{}, err
	}
	s.Reporter.Step("Setting up environment: %s", name)

	reg := s.Repository.Load(ctx)
	profile := domain.EnvironmentProfile{
		Name:             name,
		CreatedAt:        s.now().UTC(),
		SourceConfigPath: configPath,
		Variables:        domain.SeedVariables(name),
	}
	if configPath != "" {
		s.mergeSource(&profile, configPath)
	}

	reg[name] = profile
	if err := s.Repository.Save(ctx, reg); err != nil {
		return domain.EnvironmentProfile{}, err
	}
	if err := s.Repository.WriteArtifacts(ctx, profile.ExportArtifacts()); err != nil {
		return domain.EnvironmentProfile{}, err
	}
	s.Reporter.Success("Environment '%s' configured with %d variables", name, len(profile.Variables))
	return profile, nil
}

// Clean removes the profile and its export files. An unknown name is a no-op.
func (s *Service) Clean(ctx context.Context, name string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return false, err
	}
	s.Reporter.Step("Cleaning environment: %s", name)

	reg := s.Repository.Load(ctx)
	if _, ok := reg[name]; !ok {
		s.Reporter.Notice("Environment '%s' not found", name)
		return false, nil
	}
	delete(reg, name)
	if err := s.Repository.Save(ctx, reg); err != nil {
		return false, err
	}

	removed, err := s.Repository.RemoveArtifacts(ctx, []string{
		domain.EnvFileName(name),
		domain.PowerShellFileName(name),
		domain.BatchFileName(name),
	})
	if err != nil {
		return true, err
	}
	if s.Logger != nil {
		s.Logger.Debug("export files removed", map[string]interface{}{"files": removed})
	}
	s.Reporter.Success("Environment '%s' cleaned up", name)
	return true, nil
}

// List returns every profile ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.EnvironmentProfile, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	reg := s.Repository.Load(ctx)
	profiles := make([]domain.EnvironmentProfile, 0, len(reg))
	for _, name := range reg.Names() {
		profiles = append(profiles, reg[name])
	}
	return profiles, nil
}

// mergeSource overlays file variables onto the seeded ones. A missing or
// unparsable source is reported and otherwise ignored.
func (s *Service) mergeSource(profile *domain.EnvironmentProfile, path string) {
	if _, err := os.Stat(path); err != nil {
		s.Reporter.Warning("Config file %s not found, using defaults only", path)
		return
	}
	vars, err := s.Parser.ParseFile(path)
	if err != nil {
		s.Reporter.Warning("Could not load config file %s: %v", path, err)
		return
	}
	for k, v := range vars {
		profile.Variables[k] = v
	}
	if s.Logger != nil {
		s.Logger.Debug("merged profile source", map[string]interface{}{"path": path, "count": len(vars)})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ready() error {
	if s.Repository == nil || s.Parser == nil || s.Reporter == nil {
		return errors.New("environment.Service dependencies not satisfied")
	}
	return nil
}

// Describe renders the list view of one profile.
func Describe(p domain.EnvironmentProfile) []string {
	lines := []string{
		fmt.Sprintf("Created: %s UTC", p.CreatedAt.UTC().Format(domain.DisplayTimestampFormat)),
		fmt.Sprintf("Variables: %d", len(p.Variables)),
	}
	if p.SourceConfigPath != "" {
		lines = append(lines, "Config: "+p.SourceConfigPath)
	}
	return lines
}

// validateName keeps export files inside the state directory.
func validateName(name string) error {
	switch {
	case name == "":
		return domain.ValidationErrorf("environment name is required")
	case strings.ContainsAny(name, `/\`), name == ".", name == "..":
		return domain.ValidationErrorf("environment name %q must not contain path separators", name)
	}
	return nil
}
