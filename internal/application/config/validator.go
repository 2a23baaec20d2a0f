package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/doeshing/devflow-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateGit(cfg.Git); err != nil {
		return err
	}
	if err := validateTemplates(cfg.Templates); err != nil {
		return err
	}
	if err := validateContainer(cfg.Container); err != nil {
		return err
	}
	if err := validateQuality(cfg.Quality); err != nil {
		return err
	}
	return nil
}

func validateGit(git domain.GitSettings) error {
	if strings.TrimSpace(git.DefaultBranch) == "" {
		return domain.ValidationErrorf("git.defaultBranch must be set")
	}
	if strings.ContainsAny(git.DefaultBranch, " ~^:?*[\\") {
		return domain.ValidationErrorf("git.defaultBranch %q is not a valid branch name", git.DefaultBranch)
	}
	return nil
}

func validateTemplates(templates map[string]domain.TemplateDescriptor) error {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tpl := templates[name]
		if tpl.Name != "" && tpl.Name != name {
			return domain.ValidationErrorf("templates.%s has mismatched name %q", name, tpl.Name)
		}
		switch tpl.Kind {
		case domain.TemplateBuiltin:
			if !domain.IsBuiltinTemplate(name) {
				return domain.ValidationErrorf("templates.%s is marked builtin but no such builtin exists", name)
			}
		case domain.TemplateCustom:
			if strings.TrimSpace(tpl.Path) == "" {
				return domain.ValidationErrorf("templates.%s.path must be set for custom templates", name)
			}
		default:
			return domain.ValidationErrorf("templates.%s.kind must be builtin|custom, got %q", name, tpl.Kind)
		}
	}
	return nil
}

func validateContainer(container domain.ContainerSettings) error {
	if strings.TrimSpace(container.BaseImage) == "" || strings.TrimSpace(container.SdkImage) == "" {
		return domain.ValidationErrorf("container.baseImage and container.sdkImage must be set")
	}
	for _, port := range container.ExposedPorts {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return domain.ValidationErrorf("container.exposedPorts entry %q must be a port number between 1 and 65535", port)
		}
	}
	return nil
}

func validateQuality(quality domain.QualitySettings) error {
	for i, pattern := range quality.ExcludedPaths {
		if strings.TrimSpace(pattern) == "" {
			return domain.ValidationErrorf("quality.excludedPaths[%d] is empty", i)
		}
	}
	return nil
}

// Describe summarizes a configuration in one line for diagnostics.
func Describe(cfg domain.Config) string {
	custom := 0
	for _, tpl := range cfg.Templates {
		if tpl.Kind == domain.TemplateCustom {
			custom++
		}
	}
	return fmt.Sprintf("author=%q namespace=%q custom templates=%d", cfg.DefaultAuthor, cfg.DefaultNamespace, custom)
}
