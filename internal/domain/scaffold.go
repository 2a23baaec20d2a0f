package domain

// ScaffoldRequest describes one `new` invocation.
type ScaffoldRequest struct {
	Template  string
	Name      string
	OutputDir string
	Force     bool
}

// TemplateData is substituted into template payloads.
type TemplateData struct {
	Name         string
	Namespace    string
	Author       string
	BaseImage    string
	SdkImage     string
	ExposedPorts []string
	Year         int
}

// ScaffoldResult lists what was written.
type ScaffoldResult struct {
	OutputDir   string
	Directories []string
	Files       []string
}
