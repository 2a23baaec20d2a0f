package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/devflow-go/assets"
	"github.com/doeshing/devflow-go/internal/application/doctor"
	"github.com/doeshing/devflow-go/internal/application/environment"
	"github.com/doeshing/devflow-go/internal/application/git"
	"github.com/doeshing/devflow-go/internal/application/process"
	"github.com/doeshing/devflow-go/internal/application/quality"
	"github.com/doeshing/devflow-go/internal/application/scaffold"
	"github.com/doeshing/devflow-go/internal/domain"
	"github.com/doeshing/devflow-go/internal/infrastructure/config"
	"github.com/doeshing/devflow-go/internal/infrastructure/envfile"
	"github.com/doeshing/devflow-go/internal/infrastructure/executor"
	"github.com/doeshing/devflow-go/internal/infrastructure/gitrepo"
	"github.com/doeshing/devflow-go/internal/infrastructure/history"
	"github.com/doeshing/devflow-go/internal/infrastructure/registry"
	"github.com/doeshing/devflow-go/internal/pkg/filesystem"
	"github.com/doeshing/devflow-go/internal/pkg/logger"
	"github.com/doeshing/devflow-go/internal/ports"
)

// Options tune how the container is assembled.
type Options struct {
	Verbose  bool
	StateDir string
	WorkDir  string
	LogOut   io.Writer
	Reporter ports.Reporter
	// Runner replaces the os/exec runner (tests use a recording fake).
	Runner ports.ProcessRunner
	// WrapRunner decorates the runner, e.g. with a progress spinner.
	WrapRunner func(ports.ProcessRunner) ports.ProcessRunner
	Now        func() time.Time
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Logger             *logger.StdLogger
	Reporter           ports.Reporter
	StateDir           string
	ConfigStore        *config.FileStore
	Environments       ports.EnvironmentRepository
	Invoker            *process.Invoker
	GitService         *git.Service
	QualityService     *quality.Service
	EnvironmentService *environment.Service
	ScaffoldService    *scaffold.Service
	DoctorService      *doctor.Service
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	logOut := opts.LogOut
	if logOut == nil {
		logOut = os.Stderr
	}
	log := logger.NewWithWriter(logOut, opts.Verbose)

	stateDir := opts.StateDir
	if stateDir == "" {
		stateDir = filesystem.StateDir()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	cfgStore := config.NewFileStore(filepath.Join(stateDir, domain.ConfigFileName), log)
	cfg := cfgStore.Get(ctx)

	var runner ports.ProcessRunner = executor.NewLocalExecutor(opts.WorkDir, log)
	if opts.Runner != nil {
		runner = opts.Runner
	}
	if opts.WrapRunner != nil {
		runner = opts.WrapRunner(runner)
	}

	invoker := &process.Invoker{Runner: runner, Reporter: opts.Reporter, Logger: log}
	envRepo := registry.NewJSONStore(stateDir, log)

	return &Container{
		Logger:       log,
		Reporter:     opts.Reporter,
		StateDir:     stateDir,
		ConfigStore:  cfgStore,
		Environments: envRepo,
		Invoker:      invoker,
		GitService:   &git.Service{Invoker: invoker, Reporter: opts.Reporter},
		QualityService: &quality.Service{
			Invoker:      invoker,
			Reporter:     opts.Reporter,
			Excluded:     gitrepo.NewMatcher(cfg.Quality.ExcludedPaths),
			EditorConfig: assets.EditorConfig,
		},
		EnvironmentService: &environment.Service{
			Repository: envRepo,
			Parser:     envfile.NewParser(),
			Reporter:   opts.Reporter,
			Logger:     log,
			Now:        now,
		},
		ScaffoldService: &scaffold.Service{
			Config:   cfgStore,
			Builtins: assets.Templates(),
			Reporter: opts.Reporter,
			Logger:   log,
			Now:      now,
		},
		DoctorService: &doctor.Service{
			ConfigStore: cfgStore,
			Repository:  gitrepo.NewInspector(),
			StateDir:    stateDir,
			WorkDir:     opts.WorkDir,
		},
	}, nil
}

// OpenHistory opens the invocation history under the state directory.
// The caller closes the returned store.
func (c *Container) OpenHistory() ports.HistoryRepository {
	return history.Open(c.StateDir, c.Logger)
}
