package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	configapp "github.com/doeshing/devflow-go/internal/application/config"
	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigStore ports.ConfigStore
	Repository  ports.RepositoryInspector
	StateDir    string
	WorkDir     string
	LookPath    func(string) (string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	if s.ConfigStore == nil {
		return domain.HealthReport{}, errors.New("doctor.Service dependencies not satisfied")
	}
	var checks []domain.HealthCheck

	checks = append(checks, s.configCheck(ctx))
	checks = append(checks, s.toolCheck("Git", domain.GitProgram, domain.HealthError))
	checks = append(checks, s.toolCheck(".NET SDK", domain.DotnetProgram, domain.HealthError))
	checks = append(checks, s.repositoryChecks()...)
	checks = append(checks, s.stateDirCheck())

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) configCheck(ctx context.Context) domain.HealthCheck {
	path := s.ConfigStore.Path()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return warn("Config file", fmt.Sprintf("%s not found, using defaults (run `devflow config init`)", path))
		}
		return fail("Config file", err.Error())
	}
	cfg := s.ConfigStore.Get(ctx)
	if err := configapp.Validate(cfg); err != nil {
		return fail("Config file", err.Error())
	}
	return ok("Config file", fmt.Sprintf("%s (%s)", path, configapp.Describe(cfg)))
}

func (s *Service) toolCheck(name, program string, missing domain.HealthStatus) domain.HealthCheck {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	resolved, err := lookPath(program)
	if err != nil {
		return domain.HealthCheck{Name: name, Status: missing, Details: fmt.Sprintf("%s not found on PATH", program)}
	}
	return ok(name, resolved)
}

func (s *Service) repositoryChecks() []domain.HealthCheck {
	if s.Repository == nil {
		return nil
	}
	dir := s.WorkDir
	if dir == "" {
		dir = "."
	}
	info, err := s.Repository.Inspect(dir)
	if err != nil {
		return []domain.HealthCheck{warn("Git repository", err.Error())}
	}

	checks := []domain.HealthCheck{ok("Git repository", fmt.Sprintf("%s on branch %s", info.Root, info.CurrentBranch))}
	var bases []string
	if info.HasMain {
		bases = append(bases, "main")
	}
	if info.HasMaster {
		bases = append(bases, "master")
	}
	switch len(bases) {
	case 0:
		checks = append(checks, warn("Base branch", "neither main nor master exists locally; branch recipes will start from the current branch"))
	case 1:
		checks = append(checks, ok("Base branch", bases[0]))
	default:
		checks = append(checks, warn("Base branch", "both main and master exist; recipes check out master last"))
	}
	return checks
}

func (s *Service) stateDirCheck() domain.HealthCheck {
	if s.StateDir == "" {
		return warn("State directory", "not configured")
	}
	if err := os.MkdirAll(s.StateDir, domain.DirectoryPermissions); err != nil {
		return fail("State directory", err.Error())
	}
	probe, err := os.CreateTemp(s.StateDir, ".doctor-*")
	if err != nil {
		return fail("State directory", fmt.Sprintf("%s is not writable: %v", s.StateDir, err))
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return ok("State directory", filepath.Clean(s.StateDir))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: strings.TrimSpace(details)}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
