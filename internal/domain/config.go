package domain

// Config mirrors ~/.devflow/config.json.
type Config struct {
	DefaultAuthor    string                        `json:"defaultAuthor" yaml:"default_author"`
	DefaultNamespace string                        `json:"defaultNamespace" yaml:"default_namespace"`
	Templates        map[string]TemplateDescriptor `json:"templates" yaml:"templates"`
	Git              GitSettings                   `json:"git" yaml:"git"`
	Quality          QualitySettings               `json:"quality" yaml:"quality"`
	Container        ContainerSettings             `json:"container" yaml:"container"`
}

// TemplateKind tells builtin (embedded) templates from user-registered ones.
type TemplateKind string

const (
	TemplateBuiltin TemplateKind = "builtin"
	TemplateCustom  TemplateKind = "custom"
)

// TemplateDescriptor describes a project template known to the scaffolder.
type TemplateDescriptor struct {
	Name        string       `json:"name" yaml:"name"`
	Kind        TemplateKind `json:"kind" yaml:"kind"`
	Path        string       `json:"path" yaml:"path"`
	Description string       `json:"description" yaml:"description"`
}

// GitSettings captures branching defaults.
type GitSettings struct {
	DefaultBranch         string `json:"defaultBranch" yaml:"default_branch"`
	AutoCommit            bool   `json:"autoCommit" yaml:"auto_commit"`
	AutoPush              bool   `json:"autoPush" yaml:"auto_push"`
	CommitMessageTemplate string `json:"commitMessageTemplate" yaml:"commit_message_template"`
}

// QualitySettings controls the formatter and analysis runs.
type QualitySettings struct {
	AutoFormat        bool     `json:"autoFormat" yaml:"auto_format"`
	RunAnalysis       bool     `json:"runAnalysis" yaml:"run_analysis"`
	EnforceStyleRules bool     `json:"enforceStyleRules" yaml:"enforce_style_rules"`
	ExcludedPaths     []string `json:"excludedPaths" yaml:"excluded_paths"`
}

// ContainerSettings feeds the generated Dockerfile.
type ContainerSettings struct {
	BaseImage    string   `json:"baseImage" yaml:"base_image"`
	SdkImage     string   `json:"sdkImage" yaml:"sdk_image"`
	MultiStage   bool     `json:"multiStage" yaml:"multi_stage"`
	ExposedPorts []string `json:"exposedPorts" yaml:"exposed_ports"`
}

// DefaultConfig returns the values used when no config file exists yet.
func DefaultConfig() Config {
	return Config{
		Templates: map[string]TemplateDescriptor{},
		Git: GitSettings{
			DefaultBranch:         DefaultGitBranch,
			AutoCommit:            false,
			AutoPush:              true,
			CommitMessageTemplate: DefaultCommitMessageTemplate,
		},
		Quality: QualitySettings{
			AutoFormat:        true,
			RunAnalysis:       true,
			EnforceStyleRules: false,
			ExcludedPaths:     []string{},
		},
		Container: ContainerSettings{
			BaseImage:    DefaultBaseImage,
			SdkImage:     DefaultSdkImage,
			MultiStage:   true,
			ExposedPorts: []string{"8080", "8081"},
		},
	}
}

// BuiltinTemplates returns the descriptors for the embedded project templates.
func BuiltinTemplates() map[string]TemplateDescriptor {
	return map[string]TemplateDescriptor{
		"api": {
			Name:        "api",
			Kind:        TemplateBuiltin,
			Description: "ASP.NET Core Web API with Swagger, logging, and Docker support",
		},
		"web": {
			Name:        "web",
			Kind:        TemplateBuiltin,
			Description: "ASP.NET Core MVC web application with Docker support",
		},
		"console": {
			Name:        "console",
			Kind:        TemplateBuiltin,
			Description: "Simple .NET console application",
		},
	}
}
