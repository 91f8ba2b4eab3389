// Package app implements the application layer for mdhasher.
package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/mdhasher/internal/adapters/detector"
	"go.trai.ch/mdhasher/internal/adapters/digest"
	mfs "go.trai.ch/mdhasher/internal/adapters/fs"
	"go.trai.ch/mdhasher/internal/adapters/ignore"
	"go.trai.ch/mdhasher/internal/adapters/linear"
	"go.trai.ch/mdhasher/internal/adapters/terminal"
	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/core/ports"
	"go.trai.ch/mdhasher/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// logSettings is implemented by loggers whose format can change at runtime.
type logSettings interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	detector     *detector.Detector
	walker       *mfs.Walker

	render ports.Renderer
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	getwd  func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	det *detector.Detector,
	walker *mfs.Walker,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		detector:     det,
		walker:       walker,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		now:          time.Now,
		getwd:        os.Getwd,
	}
}

// WithOutput redirects presentation output.
// This is primarily used for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithRenderer bypasses logging mode selection and presents through r.
func (a *App) WithRenderer(r ports.Renderer) *App {
	a.render = r
	return a
}

// WithClock replaces the clock used to derive the staleness cutoff.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// WithWorkingDir fixes the directory the defaults file is searched from.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// Run renames every eligible file below paths to its content digest.
//
// Invalid configuration aborts before traversal begins. Failures of single
// files are reported through the renderer and do not fail the run.
//
//nolint:cyclop // orchestration function
func (a *App) Run(ctx context.Context, paths []string, opts RunOptions) error {
	if settings, ok := a.logger.(logSettings); ok {
		settings.SetJSON(opts.JSONLogs)
		settings.SetVerbose(opts.Verbose)
	}

	// 1. Resolve configuration
	cwd, err := a.getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}

	defaults, err := a.configLoader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return err
	}

	cfg, mode, err := opts.withDefaults(defaults).configuration(paths)
	if err != nil {
		return err
	}

	if err := checkPaths(cfg.Paths); err != nil {
		return err
	}

	// 2. Build engines
	engine, err := digest.New(cfg.Digest)
	if err != nil {
		return err
	}

	walkOpts, err := a.walkOptions(cfg, defaults)
	if err != nil {
		return err
	}

	mode = a.detector.Resolve(mode)
	a.logger.Debug("starting run",
		"digest", engine.Name(),
		"paths", cfg.Paths,
		"window", cfg.Window.String(),
		"jobs", cfg.Jobs,
		"mode", mode.String(),
		"dry_run", cfg.DryRun,
	)

	renderer := a.renderer(mode)
	renamer := mfs.NewRenamer(a.logger, cfg.DryRun)
	pipe := pipeline.New(renamer, digest.Factory(engine.Algorithm()), cfg.Jobs)

	// 3. Process
	var summary domain.Summary
	for outcome := range pipe.Run(ctx, a.walker.Walk(cfg.Paths, walkOpts)) {
		summary.Add(outcome)
		renderer.OnOutcome(outcome)
	}

	renderer.OnSummary(summary)
	if err := renderer.Stop(); err != nil {
		return zerr.Wrap(err, "failed to stop renderer")
	}

	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "run interrupted")
	}
	return nil
}

func (a *App) walkOptions(cfg *domain.Configuration, defaults *ports.Defaults) (mfs.WalkOptions, error) {
	opts := mfs.WalkOptions{
		RespectIgnore: cfg.RespectIgnore,
		Hidden:        cfg.Hidden,
		ProcessAll:    cfg.ProcessAll,
		Cutoff:        cfg.Cutoff(a.now()),
	}

	if defaults != nil && defaults.Source != "" {
		opts.Exclude = append(opts.Exclude, defaults.Source)
	}

	if cfg.IgnoreFile == "" {
		return opts, nil
	}

	// The extra ignore file is never renamed, even when ignore rules are off.
	opts.Exclude = append(opts.Exclude, cfg.IgnoreFile)
	if !cfg.RespectIgnore {
		return opts, nil
	}

	rules, err := ignore.LoadRules(cfg.IgnoreFile, nil)
	if err != nil {
		return opts, err
	}
	opts.Global = rules
	return opts, nil
}

func (a *App) renderer(mode domain.LogMode) ports.Renderer {
	if a.render != nil {
		return a.render
	}
	switch mode {
	case domain.LogModeTerminal:
		return terminal.NewRenderer(a.stdout)
	case domain.LogModeQuiet:
		return linear.NewQuietRenderer(a.stderr)
	default:
		return linear.NewRenderer(a.stdout, a.stderr)
	}
}

// checkPaths verifies that every root exists before traversal begins.
func checkPaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return zerr.With(zerr.Wrap(domain.ErrPathNotFound, "invalid path"), "path", filepath.Clean(path))
			}
			return zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
		}
	}
	return nil
}
