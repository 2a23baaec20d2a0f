// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like the filesystem, external processes, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ConfigStore, ProcessRunner)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/devflow-go/internal/domain"
)

// ConfigStore loads and persists the per-user configuration document.
// Implementations typically read from ~/.devflow/config.json.
type ConfigStore interface {
	// Get never fails: unreadable or unparsable files yield defaults.
	Get(context.Context) domain.Config
	Save(context.Context, domain.Config) error
	Path() string
}

// EnvironmentRepository persists the profile registry and its derived export files.
type EnvironmentRepository interface {
	// Load never fails: unreadable or unparsable files yield an empty registry.
	Load(context.Context) domain.EnvironmentRegistry
	Save(context.Context, domain.EnvironmentRegistry) error
	WriteArtifacts(context.Context, []domain.ExportArtifact) error
	RemoveArtifacts(context.Context, []string) ([]string, error)
	Dir() string
}

// VariableSourceParser reads key/value pairs from a profile source file.
type VariableSourceParser interface {
	ParseFile(path string) (map[string]string, error)
}

// ProcessRunner spawns an external program and waits for it.
// A non-zero exit is reported through ProcessResult.ExitCode, not as an error;
// the error is reserved for spawn failures and cancellation.
type ProcessRunner interface {
	Run(ctx context.Context, program string, args []string) (domain.ProcessResult, error)
}

// RepositoryInspector answers read-only questions about a Git working tree.
type RepositoryInspector interface {
	Inspect(dir string) (domain.RepositoryInfo, error)
}

// PathMatcher decides whether a path below a root is excluded.
type PathMatcher interface {
	Match(relPath string, isDir bool) bool
}

// HistoryRepository provides persistence for invocation history.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	Path() string
	Close() error
}

// Reporter prints user-facing status lines.
type Reporter interface {
	Step(format string, args ...any)
	Success(format string, args ...any)
	Notice(format string, args ...any)
	Warning(format string, args ...any)
	Output(text string)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
