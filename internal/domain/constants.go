package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for generated files (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for state files (rw-------)
	SecureFilePermissions = 0o600
)

// State file names under the per-user directory
const (
	StateDirName         = ".devflow"
	ConfigFileName       = "config.json"
	EnvironmentsFileName = "environments.json"
	HistoryDBFileName    = "history.db"
	HistoryLogFileName   = "history.jsonl"
)

// Builtin template kinds
const (
	TemplateAPI     = "api"
	TemplateWeb     = "web"
	TemplateConsole = "console"
)

// Configuration defaults
const (
	DefaultNamespace             = "MyCompany"
	DefaultGitBranch             = "main"
	DefaultCommitMessageTemplate = "{type}: {description}"
	DefaultBaseImage             = "mcr.microsoft.com/dotnet/aspnet:8.0"
	DefaultSdkImage              = "mcr.microsoft.com/dotnet/sdk:8.0"
	DefaultEnvironment           = "dev"
	DefaultFormatPath            = "."
)

// External collaborators
const (
	GitProgram    = "git"
	DotnetProgram = "dotnet"
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
	// DisplayTimestampFormat is used when listing profiles
	DisplayTimestampFormat = "2006-01-02 15:04:05"
)
