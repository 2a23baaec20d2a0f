package domain

import (
	"sort"
	"strings"
	"time"
)

// EnvironmentProfile is a named set of variables persisted in environments.json.
type EnvironmentProfile struct {
	Name             string            `json:"name"`
	CreatedAt        time.Time         `json:"createdAt"`
	SourceConfigPath string            `json:"sourceConfigPath,omitempty"`
	Variables        map[string]string `json:"variables"`
}

// EnvironmentRegistry maps profile names to profiles.
type EnvironmentRegistry map[string]EnvironmentProfile

// Names returns profile names in sorted order.
func (r EnvironmentRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SortedKeys returns variable names in sorted order.
func (p EnvironmentProfile) SortedKeys() []string {
	keys := make([]string, 0, len(p.Variables))
	for k := range p.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Environment variable names seeded for known environment classes.
const (
	AspNetCoreEnvironmentVar = "ASPNETCORE_ENVIRONMENT"
	DotnetEnvironmentVar     = "DOTNET_ENVIRONMENT"
)

// SeedVariables returns the class defaults for an environment name.
// Matching is case-insensitive; unknown names get an empty map.
func SeedVariables(name string) map[string]string {
	vars := map[string]string{}
	var class string
	switch strings.ToLower(name) {
	case "dev", "development":
		class = "Development"
	case "staging":
		class = "Staging"
	case "prod", "production":
		class = "Production"
	default:
		return vars
	}
	vars[AspNetCoreEnvironmentVar] = class
	vars[DotnetEnvironmentVar] = class
	return vars
}

// ExportArtifact is one derived file generated from a profile.
type ExportArtifact struct {
	FileName string
	Content  string
}

// EnvFileName is the plain KEY=VALUE export for a profile.
func EnvFileName(profile string) string { return profile + ".env" }

// PowerShellFileName is the PowerShell export script for a profile.
func PowerShellFileName(profile string) string { return "set-" + profile + ".ps1" }

// BatchFileName is the cmd.exe export script for a profile.
func BatchFileName(profile string) string { return "set-" + profile + ".bat" }

// ExportArtifacts renders the three derived files. Content depends only on Variables.
func (p EnvironmentProfile) ExportArtifacts() []ExportArtifact {
	keys := p.SortedKeys()
	var env, ps, bat strings.Builder
	for _, k := range keys {
		v := p.Variables[k]
		env.WriteString(k + "=" + v + "\n")
		ps.WriteString("$env:" + k + "=\"" + v + "\"\n")
		bat.WriteString("set " + k + "=" + v + "\n")
	}
	return []ExportArtifact{
		{FileName: EnvFileName(p.Name), Content: env.String()},
		{FileName: PowerShellFileName(p.Name), Content: ps.String()},
		{FileName: BatchFileName(p.Name), Content: bat.String()},
	}
}
