package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/devflow-go/assets"
	"github.com/doeshing/devflow-go/internal/application/process/processtest"
	"github.com/doeshing/devflow-go/internal/domain"
)

type stubConfigStore struct {
	cfg domain.Config
}

func (s *stubConfigStore) Get(context.Context) domain.Config { return s.cfg }

func (s *stubConfigStore) Save(_ context.Context, c domain.Config) error {
	s.cfg = c
	return nil
}

func (s *stubConfigStore) Path() string { return "config.json" }

func newService(cfg domain.Config) *Service {
	return &Service{
		Config:   &stubConfigStore{cfg: cfg},
		Builtins: assets.Templates(),
		Reporter: &processtest.Reporter{},
		Now:      func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) },
	}
}

func TestCreateAPIProject(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.DefaultAuthor = "alice"
	cfg.DefaultNamespace = "Acme"
	svc := newService(cfg)
	out := filepath.Join(t.TempDir(), "ProjectX")

	res, err := svc.Create(context.Background(), domain.ScaffoldRequest{
		Template: "api", Name: "ProjectX", OutputDir: out,
	})
	require.NoError(t, err)

	csproj, err := os.ReadFile(filepath.Join(out, "ProjectX.csproj"))
	require.NoError(t, err)
	assert.NotEmpty(t, csproj)
	assert.Contains(t, string(csproj), "<RootNamespace>ProjectX</RootNamespace>")
	assert.Contains(t, string(csproj), "<Authors>alice</Authors>")
	assert.Contains(t, string(csproj), "<Company>Acme</Company>")

	program, err := os.ReadFile(filepath.Join(out, "Program.cs"))
	require.NoError(t, err)
	assert.NotEmpty(t, program)

	controller, err := os.ReadFile(filepath.Join(out, "Controllers", "WeatherForecastController.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(controller), "namespace ProjectX.Controllers")

	dockerfile, err := os.ReadFile(filepath.Join(out, "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(dockerfile), "FROM "+domain.DefaultBaseImage+" AS base\nWORKDIR /app\nEXPOSE 8080\nEXPOSE 8081\n")
	assert.Contains(t, string(dockerfile), `ENTRYPOINT ["dotnet", "ProjectX.dll"]`)

	assert.FileExists(t, filepath.Join(out, ".dockerignore"))
	assert.FileExists(t, filepath.Join(out, "Properties", "launchSettings.json"))
	assert.DirExists(t, filepath.Join(out, "Services"))
	assert.Contains(t, res.Files, "ProjectX.csproj")
	assert.NotContains(t, res.Files, "__name__.csproj.tmplt")
}

func TestCreateExistingDirectoryRequiresForce(t *testing.T) {
	svc := newService(domain.DefaultConfig())
	out := filepath.Join(t.TempDir(), "ProjectX")
	req := domain.ScaffoldRequest{Template: "api", Name: "ProjectX", OutputDir: out}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	marker := filepath.Join(out, "Program.cs")
	require.NoError(t, os.WriteFile(marker, []byte("edited"), 0o644))

	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "edited", string(data))

	req.Force = true
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
	data, err = os.ReadFile(marker)
	require.NoError(t, err)
	assert.NotEqual(t, "edited", string(data))
}

func TestCreateUnknownTemplateTouchesNothing(t *testing.T) {
	svc := newService(domain.DefaultConfig())
	out := filepath.Join(t.TempDir(), "Nope")

	_, err := svc.Create(context.Background(), domain.ScaffoldRequest{Template: "blazor", Name: "Nope", OutputDir: out})
	require.ErrorIs(t, err, domain.ErrUnknownTemplate)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "api, console, web")
	assert.NoDirExists(t, out)
}

func TestCreateWebAndConsoleLayouts(t *testing.T) {
	svc := newService(domain.DefaultConfig())
	root := t.TempDir()

	web := filepath.Join(root, "Site")
	_, err := svc.Create(context.Background(), domain.ScaffoldRequest{Template: "web", Name: "Site", OutputDir: web})
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(web, "wwwroot", "js"))
	layout, err := os.ReadFile(filepath.Join(web, "Views", "Shared", "_Layout.cshtml"))
	require.NoError(t, err)
	assert.Contains(t, string(layout), "&copy; 2025 - Site")

	cli := filepath.Join(root, "Tool")
	res, err := svc.Create(context.Background(), domain.ScaffoldRequest{Template: "console", Name: "Tool", OutputDir: cli})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Program.cs", "Tool.csproj"}, res.Files)
	program, err := os.ReadFile(filepath.Join(cli, "Program.cs"))
	require.NoError(t, err)
	assert.Contains(t, string(program), `Hello from Tool!`)
}

func TestCreateCustomTemplate(t *testing.T) {
	tplDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tplDir, "src", "__name__.Core"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "src", "__name__.Core", "Lib.cs.tmplt"),
		[]byte("namespace {%.Name%}.Core;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tplDir, "README.md"), []byte("{%.Name%} verbatim\n"), 0o644))

	cfg := domain.DefaultConfig()
	require.NoError(t, cfg.AddCustomTemplate("lib", tplDir))
	svc := newService(cfg)
	out := filepath.Join(t.TempDir(), "Billing")

	_, err := svc.Create(context.Background(), domain.ScaffoldRequest{Template: "lib", Name: "Billing", OutputDir: out})
	require.NoError(t, err)

	lib, err := os.ReadFile(filepath.Join(out, "src", "Billing.Core", "Lib.cs"))
	require.NoError(t, err)
	assert.Equal(t, "namespace Billing.Core;\n", string(lib))

	readme, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "{%.Name%} verbatim\n", string(readme))
}

func TestCreateRejectsBadNames(t *testing.T) {
	svc := newService(domain.DefaultConfig())
	for _, name := range []string{"", "a/b", ".."} {
		_, err := svc.Create(context.Background(), domain.ScaffoldRequest{Template: "api", Name: name})
		require.ErrorIs(t, err, domain.ErrValidation, name)
	}
}
