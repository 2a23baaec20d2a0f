package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/pkg/filesystem"
	"github.com/doeshing/devflow-go/internal/ports"
)

// JSONStore keeps environments.json and the derived export files in one directory.
type JSONStore struct {
	dir    string
	logger ports.Logger
}

// NewJSONStore roots the registry under dir (the state directory when empty).
func NewJSONStore(dir string, logger ports.Logger) *JSONStore {
	if dir == "" {
		dir = filesystem.StateDir()
	}
	return &JSONStore{dir: dir, logger: logger}
}

// Dir returns the directory holding the registry and export files.
func (s *JSONStore) Dir() string {
	return s.dir
}

// Path returns the environments.json location.
func (s *JSONStore) Path() string {
	return filepath.Join(s.dir, domain.EnvironmentsFileName)
}

// Load implements ports.EnvironmentRepository.
func (s *JSONStore) Load(context.Context) domain.EnvironmentRegistry {
	path := s.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.warn("could not read environments file", path, err)
		}
		return domain.EnvironmentRegistry{}
	}

	var reg domain.EnvironmentRegistry
	if err := json.Unmarshal(jsonc.ToJSON(data), &reg); err != nil {
		s.warn("could not load environments file", path, err)
		return domain.EnvironmentRegistry{}
	}
	if reg == nil {
		reg = domain.EnvironmentRegistry{}
	}
	for name, profile := range reg {
		if profile.Variables == nil {
			profile.Variables = map[string]string{}
			reg[name] = profile
		}
	}
	return reg
}

// Save implements ports.EnvironmentRepository.
func (s *JSONStore) Save(_ context.Context, reg domain.EnvironmentRegistry) error {
	if reg == nil {
		reg = domain.EnvironmentRegistry{}
	}
	raw, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode environments: %w", err)
	}
	if err := filesystem.WriteFileAtomic(s.Path(), append(raw, '\n'), domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write environments %s: %w", s.Path(), err)
	}
	return nil
}

// WriteArtifacts writes every artifact in full, replacing earlier versions.
func (s *JSONStore) WriteArtifacts(_ context.Context, artifacts []domain.ExportArtifact) error {
	for _, a := range artifacts {
		path := filepath.Join(s.dir, a.FileName)
		if err := filesystem.WriteFileAtomic(path, []byte(a.Content), domain.FilePermissions); err != nil {
			return fmt.Errorf("write %s: %w", a.FileName, err)
		}
	}
	return nil
}

// RemoveArtifacts deletes the named files when present and returns those removed.
func (s *JSONStore) RemoveArtifacts(_ context.Context, names []string) ([]string, error) {
	var removed []string
	for _, name := range names {
		err := os.Remove(filepath.Join(s.dir, name))
		switch {
		case err == nil:
			removed = append(removed, name)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return removed, nil
}

func (s *JSONStore) warn(msg, path string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, map[string]interface{}{"path": path, "error": err.Error()})
}

var _ ports.EnvironmentRepository = (*JSONStore)(nil)
