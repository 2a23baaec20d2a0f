// Package git drives the feature, release and hotfix branching recipes.
package git

import (
	"context"
	"errors"
	"strings"

	"github.com/doeshing/devflow-go/internal/application/process"
	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/ports"
)

// Branch prefixes used by the recipes.
const (
	FeaturePrefix = "feature/"
	ReleasePrefix = "release/"
	HotfixPrefix  = "hotfix/"
)

// baseBranches are tried in order; at most one checkout can succeed.
var baseBranches = []string{"main", "master"}

// Service sequences git invocations. Steps run strictly one after another.
type Service struct {
	Invoker  *process.Invoker
	Reporter ports.Reporter
}

// Feature creates feature/<name> from the freshly pulled base branch.
func (s *Service) Feature(ctx context.Context, name string, push bool) error {
	return s.topicBranch(ctx, FeaturePrefix, "Feature", name, push)
}

// Hotfix creates hotfix/<name> from the freshly pulled base branch.
func (s *Service) Hotfix(ctx context.Context, name string, push bool) error {
	return s.topicBranch(ctx, HotfixPrefix, "Hotfix", name, push)
}

// Release creates release/<version> plus the annotated tag v<version>.
// An empty message defaults to "Release <version>".
func (s *Service) Release(ctx context.Context, version, message string, push bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	version = strings.TrimSpace(version)
	if version == "" {
		return domain.ValidationErrorf("release version is required")
	}
	branch := ReleasePrefix + version
	tag := "v" + version
	if strings.TrimSpace(message) == "" {
		message = "Release " + version
	}

	s.Reporter.Step("Creating release: %s", version)
	if err := s.syncBase(ctx); err != nil {
		return err
	}
	if _, err := s.Invoker.Run(ctx, domain.GitProgram, "checkout", "-b", branch); err != nil {
		return err
	}
	if _, err := s.Invoker.Run(ctx, domain.GitProgram, "tag", "-a", tag, "-m", message); err != nil {
		return err
	}
	if push {
		if _, err := s.Invoker.Run(ctx, domain.GitProgram, "push", "-u", "origin", branch); err != nil {
			return err
		}
		if _, err := s.Invoker.Run(ctx, domain.GitProgram, "push", "origin", tag); err != nil {
			return err
		}
		s.Reporter.Step("Release '%s' pushed to remote with tag", version)
	}
	s.Reporter.Success("Release branch '%s' created with tag '%s'", branch, tag)
	return nil
}

func (s *Service) topicBranch(ctx context.Context, prefix, label, name string, push bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ValidationErrorf("%s name is required", strings.ToLower(label))
	}
	branch := prefix + name

	s.Reporter.Step("Creating %s branch: %s", strings.ToLower(label), branch)
	if err := s.syncBase(ctx); err != nil {
		return err
	}
	if _, err := s.Invoker.Run(ctx, domain.GitProgram, "checkout", "-b", branch); err != nil {
		return err
	}
	if push {
		if _, err := s.Invoker.Run(ctx, domain.GitProgram, "push", "-u", "origin", branch); err != nil {
			return err
		}
		s.Reporter.Step("%s branch '%s' pushed to remote", label, branch)
	}
	s.Reporter.Success("Switched to %s branch: %s", strings.ToLower(label), branch)
	return nil
}

// syncBase checks out and pulls both conventional base branches, ignoring failures.
func (s *Service) syncBase(ctx context.Context) error {
	for _, b := range baseBranches {
		if _, _, err := s.Invoker.Attempt(ctx, domain.GitProgram, "checkout", b); err != nil {
			return err
		}
	}
	for _, b := range baseBranches {
		if _, _, err := s.Invoker.Attempt(ctx, domain.GitProgram, "pull", "origin", b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ready() error {
	if s.Invoker == nil || s.Reporter == nil {
		return errors.New("git.Service dependencies not satisfied")
	}
	return nil
}
