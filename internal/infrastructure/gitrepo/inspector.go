package gitrepo

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/ports"
)

// ErrNotRepository is returned when no repository encloses the directory.
var ErrNotRepository = errors.New("not a git repository")

// Inspector reads repository metadata without invoking the git binary.
type Inspector struct{}

// NewInspector builds an Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect implements ports.RepositoryInspector. Parent directories are searched for .git.
func (i *Inspector) Inspect(dir string) (domain.RepositoryInfo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return domain.RepositoryInfo{}, ErrNotRepository
		}
		return domain.RepositoryInfo{}, fmt.Errorf("open repository: %w", err)
	}

	info := domain.RepositoryInfo{}
	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return info, fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference {
		info.CurrentBranch = head.Target().Short()
	} else {
		info.CurrentBranch = head.Hash().String()[:7]
	}

	info.HasMain = hasBranch(repo, "main")
	info.HasMaster = hasBranch(repo, "master")
	return info, nil
}

func hasBranch(repo *git.Repository, name string) bool {
	_, err := repo.Reference(plumbing.NewBranchReferenceName(name), false)
	return err == nil
}

var _ ports.RepositoryInspector = (*Inspector)(nil)
