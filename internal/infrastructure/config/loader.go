package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/pkg/filesystem"
	"github.com/doeshing/devflow-go/internal/ports"
)

// FileStore persists the configuration at ~/.devflow/config.json (overridable via DEVFLOW_HOME).
// The document is loaded lazily on the first Get and cached for the rest of the run.
type FileStore struct {
	overridePath string
	logger       ports.Logger

	mu     sync.Mutex
	cached *domain.Config
}

// NewFileStore builds a new store. An empty path selects the default location.
func NewFileStore(path string, logger ports.Logger) *FileStore {
	return &FileStore{overridePath: path, logger: logger}
}

// Get implements ports.ConfigStore.
func (s *FileStore) Get(context.Context) domain.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		cfg := s.load()
		s.cached = &cfg
	}
	return clone(*s.cached)
}

// Save implements ports.ConfigStore.
func (s *FileStore) Save(_ context.Context, cfg domain.Config) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	path := s.Path()
	if err := filesystem.WriteFileAtomic(path, append(raw, '\n'), domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write configuration %s: %w", path, err)
	}

	s.mu.Lock()
	saved := clone(cfg)
	s.cached = &saved
	s.mu.Unlock()
	return nil
}

// Path returns the config file location.
func (s *FileStore) Path() string {
	if s.overridePath != "" {
		return s.overridePath
	}
	return filepath.Join(filesystem.StateDir(), domain.ConfigFileName)
}

// Initialize fills author, namespace and builtin templates when unset, then persists.
func (s *FileStore) Initialize(ctx context.Context) (domain.Config, error) {
	cfg := s.Get(ctx)
	cfg.EnsureDefaults(currentUserName())
	if err := s.Save(ctx, cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// SetDefaultAuthor updates the author used in generated projects.
func (s *FileStore) SetDefaultAuthor(ctx context.Context, author string) error {
	return s.update(ctx, func(cfg *domain.Config) error {
		cfg.DefaultAuthor = author
		return nil
	})
}

// SetDefaultNamespace updates the root namespace used in generated projects.
func (s *FileStore) SetDefaultNamespace(ctx context.Context, namespace string) error {
	return s.update(ctx, func(cfg *domain.Config) error {
		cfg.DefaultNamespace = namespace
		return nil
	})
}

// AddCustomTemplate registers a directory as a project template.
func (s *FileStore) AddCustomTemplate(ctx context.Context, name, path string) error {
	return s.update(ctx, func(cfg *domain.Config) error {
		return cfg.AddCustomTemplate(name, path)
	})
}

// RemoveCustomTemplate unregisters a template.
func (s *FileStore) RemoveCustomTemplate(ctx context.Context, name string) error {
	return s.update(ctx, func(cfg *domain.Config) error {
		cfg.RemoveCustomTemplate(name)
		return nil
	})
}

// SetGitDefaults updates the branching defaults.
func (s *FileStore) SetGitDefaults(ctx context.Context, defaultBranch string, autoCommit, autoPush bool) error {
	return s.update(ctx, func(cfg *domain.Config) error {
		cfg.SetGitDefaults(defaultBranch, autoCommit, autoPush)
		return nil
	})
}

func (s *FileStore) update(ctx context.Context, mutate func(*domain.Config) error) error {
	cfg := s.Get(ctx)
	if err := mutate(&cfg); err != nil {
		return err
	}
	return s.Save(ctx, cfg)
}

func (s *FileStore) load() domain.Config {
	path := s.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.warn("could not read configuration, using defaults", path, err)
		}
		return domain.DefaultConfig()
	}

	cfg := domain.DefaultConfig()
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		s.warn("could not parse configuration, using defaults", path, err)
		return domain.DefaultConfig()
	}
	return hydrateDefaults(cfg)
}

func (s *FileStore) warn(msg, path string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, map[string]interface{}{"path": path, "error": err.Error()})
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Templates == nil {
		cfg.Templates = map[string]domain.TemplateDescriptor{}
	}
	if cfg.Quality.ExcludedPaths == nil {
		cfg.Quality.ExcludedPaths = []string{}
	}
	if cfg.Container.ExposedPorts == nil {
		cfg.Container.ExposedPorts = []string{}
	}
	return cfg
}

func clone(cfg domain.Config) domain.Config {
	out := cfg
	out.Templates = make(map[string]domain.TemplateDescriptor, len(cfg.Templates))
	for k, v := range cfg.Templates {
		out.Templates[k] = v
	}
	out.Quality.ExcludedPaths = append([]string{}, cfg.Quality.ExcludedPaths...)
	out.Container.ExposedPorts = append([]string{}, cfg.Container.ExposedPorts...)
	return out
}

func currentUserName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return filepath.Base(u.Username)
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}

var _ ports.ConfigStore = (*FileStore)(nil)
