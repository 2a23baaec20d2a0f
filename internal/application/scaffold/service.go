// Package scaffold generates project skeletons from builtin or registered templates.
package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/ports"
)

const (
	// NamePlaceholder in a template path is replaced by the project name.
	NamePlaceholder = "__name__"
	tmpltExt        = ".tmplt"
)

// layouts lists the directories each builtin kind creates, including empty ones.
var layouts = map[string][]string{
	domain.TemplateAPI: {"Controllers", "Models", "Services", "Properties"},
	domain.TemplateWeb: {
		"Controllers", "Views", "Views/Home", "Views/Shared",
		"wwwroot", "wwwroot/css", "wwwroot/js", "Models", "Properties",
	},
	domain.TemplateConsole: nil,
}

// Service renders templates into a target directory.
type Service struct {
	Config   ports.ConfigStore
	Builtins fs.FS
	Reporter ports.Reporter
	Logger   ports.Logger
	Now      func() time.Time
}

type source struct {
	fsys fs.FS
	dirs []string
}

// Create scaffolds req.Name from req.Template. Unknown templates and an
// existing target without Force fail before anything is written.
func (s *Service) Create(ctx context.Context, req domain.ScaffoldRequest) (domain.ScaffoldResult, error) {
	if s.Config == nil || s.Builtins == nil || s.Reporter == nil {
		return domain.ScaffoldResult{}, errors.New("scaffold.Service dependencies not satisfied")
	}
	if err := validateName(req.Name); err != nil {
		return domain.ScaffoldResult{}, err
	}

	cfg := s.Config.Get(ctx)
	src, err := s.resolve(cfg, req.Template)
	if err != nil {
		return domain.ScaffoldResult{}, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = req.Name
	}
	if _, err := os.Stat(outputDir); err == nil && !req.Force {
		return domain.ScaffoldResult{}, fmt.Errorf("directory '%s' %w. Use --force to overwrite", outputDir, domain.ErrAlreadyExists)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.ScaffoldResult{}, fmt.Errorf("check output directory: %w", err)
	}

	data := s.templateData(cfg, req.Name)
	s.Reporter.Step("Creating %s project '%s' in %s", req.Template, req.Name, outputDir)

	result := domain.ScaffoldResult{OutputDir: outputDir}
	if err := os.MkdirAll(outputDir, domain.DirectoryPermissions); err != nil {
		return result, fmt.Errorf("create output directory: %w", err)
	}
	for _, dir := range src.dirs {
		if err := os.MkdirAll(filepath.Join(outputDir, filepath.FromSlash(dir)), domain.DirectoryPermissions); err != nil {
			return result, fmt.Errorf("create directory %s: %w", dir, err)
		}
		result.Directories = append(result.Directories, dir)
	}

	files, err := listFiles(src.fsys)
	if err != nil {
		return result, err
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rel, err := s.render(src.fsys, file, outputDir, data)
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, rel)
	}

	if s.Logger != nil {
		s.Logger.Debug("scaffold complete", map[string]interface{}{
			"template": req.Template,
			"files":    len(result.Files),
			"dir":      outputDir,
		})
	}
	return result, nil
}

func (s *Service) resolve(cfg domain.Config, name string) (source, error) {
	if dirs, ok := layouts[strings.ToLower(name)]; ok {
		sub, err := fs.Sub(s.Builtins, strings.ToLower(name))
		if err != nil {
			return source{}, fmt.Errorf("open builtin template %s: %w", name, err)
		}
		return source{fsys: sub, dirs: dirs}, nil
	}

	desc, ok := cfg.FindTemplate(name)
	if !ok || desc.Kind != domain.TemplateCustom {
		return source{}, domain.UnknownTemplateError(name, availableTemplates(cfg))
	}
	info, err := os.Stat(desc.Path)
	if err != nil || !info.IsDir() {
		return source{}, domain.ValidationErrorf("template %s points to %s, which is not a directory", name, desc.Path)
	}
	return source{fsys: os.DirFS(desc.Path)}, nil
}

func (s *Service) templateData(cfg domain.Config, name string) domain.TemplateData {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	namespace := cfg.DefaultNamespace
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return domain.TemplateData{
		Name:         name,
		Namespace:    namespace,
		Author:       cfg.DefaultAuthor,
		BaseImage:    cfg.Container.BaseImage,
		SdkImage:     cfg.Container.SdkImage,
		ExposedPorts: cfg.Container.ExposedPorts,
		Year:         now().Year(),
	}
}

// render writes one template file and returns its path relative to outputDir.
func (s *Service) render(fsys fs.FS, file, outputDir string, data domain.TemplateData) (string, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", file, err)
	}

	rel := strings.ReplaceAll(file, NamePlaceholder, data.Name)
	content := raw
	if strings.HasSuffix(rel, tmpltExt) {
		rel = strings.TrimSuffix(rel, tmpltExt)
		tmpl, err := template.New(path.Base(file)).Delims("{%", "%}").Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return "", fmt.Errorf("parse template %s: %w", file, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("render template %s: %w", file, err)
		}
		content = buf.Bytes()
	}

	target := filepath.Join(outputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), domain.DirectoryPermissions); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(target, content, domain.FilePermissions); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}

func listFiles(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list template files: %w", err)
	}
	return files, nil
}

func availableTemplates(cfg domain.Config) []string {
	seen := map[string]bool{}
	for name := range layouts {
		seen[name] = true
	}
	for name, desc := range cfg.Templates {
		if desc.Kind == domain.TemplateCustom {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return domain.ValidationErrorf("project name is required")
	case strings.ContainsAny(name, `/\`), name == ".", name == "..":
		return domain.ValidationErrorf("project name %q must not contain path separators", name)
	}
	return nil
}
