package gitrepo

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/doeshing/devflow-go/internal/ports"
)

// Matcher applies gitignore-style patterns to paths relative to a root.
type Matcher struct {
	matcher gitignore.Matcher
}

// NewMatcher compiles patterns; blank lines and # comments are skipped.
func NewMatcher(patterns []string) *Matcher {
	var parsed []gitignore.Pattern
	for _, line := range patterns {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parsed = append(parsed, gitignore.ParsePattern(line, nil))
	}
	if len(parsed) == 0 {
		return &Matcher{}
	}
	return &Matcher{matcher: gitignore.NewMatcher(parsed)}
}

// Match implements ports.PathMatcher.
func (m *Matcher) Match(relPath string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	segments := splitPath(relPath)
	if len(segments) == 0 {
		return false
	}
	return m.matcher.Match(segments, isDir)
}

func splitPath(path string) []string {
	var segments []string
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}

var _ ports.PathMatcher = (*Matcher)(nil)
