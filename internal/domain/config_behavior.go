package domain

import (
	"fmt"
	"sort"
)

// FindTemplate looks a template descriptor up by name.
func (c *Config) FindTemplate(name string) (TemplateDescriptor, bool) {
	tpl, ok := c.Templates[name]
	return tpl, ok
}

// AddCustomTemplate registers (or replaces) a custom template rooted at path.
func (c *Config) AddCustomTemplate(name, path string) error {
	if name == "" {
		return fmt.Errorf("%w: template name is required", ErrValidation)
	}
	if path == "" {
		return fmt.Errorf("%w: template path is required", ErrValidation)
	}
	if IsBuiltinTemplate(name) {
		return fmt.Errorf("%w: %q is a builtin template name", ErrValidation, name)
	}
	if c.Templates == nil {
		c.Templates = map[string]TemplateDescriptor{}
	}
	c.Templates[name] = TemplateDescriptor{
		Name:        name,
		Kind:        TemplateCustom,
		Path:        path,
		Description: fmt.Sprintf("Custom template: %s", name),
	}
	return nil
}

// RemoveCustomTemplate drops a template by name. Missing names are ignored.
func (c *Config) RemoveCustomTemplate(name string) {
	delete(c.Templates, name)
}

// TemplateNames returns registered template names in sorted order.
func (c *Config) TemplateNames() []string {
	names := make([]string, 0, len(c.Templates))
	for name := range c.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetGitDefaults overwrites the branching defaults.
func (c *Config) SetGitDefaults(defaultBranch string, autoCommit, autoPush bool) {
	c.Git.DefaultBranch = defaultBranch
	c.Git.AutoCommit = autoCommit
	c.Git.AutoPush = autoPush
}

// EnsureDefaults fills author, namespace and templates when unset.
// It reports whether anything changed.
func (c *Config) EnsureDefaults(author string) bool {
	changed := false
	if c.DefaultAuthor == "" {
		c.DefaultAuthor = author
		changed = true
	}
	if c.DefaultNamespace == "" {
		c.DefaultNamespace = DefaultNamespace
		changed = true
	}
	if len(c.Templates) == 0 {
		c.Templates = BuiltinTemplates()
		changed = true
	}
	return changed
}

// IsBuiltinTemplate reports whether name is one of the embedded template kinds.
func IsBuiltinTemplate(name string) bool {
	switch name {
	case TemplateAPI, TemplateWeb, TemplateConsole:
		return true
	default:
		return false
	}
}
