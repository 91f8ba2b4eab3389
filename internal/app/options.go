package app

import (
	"time"

	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/core/ports"
	"go.trai.ch/zerr"
)

// Option names shared with the command line. They key RunOptions.Explicit.
const (
	OptDigest     = "digest"
	OptAll        = "all"
	OptNoIgnore   = "noignore"
	OptIgnoreFile = "ignore-file"
	OptWindow     = "window"
	OptLog        = "log"
	OptJobs       = "jobs"
	OptHidden     = "hidden"
)

// RunOptions configuration for the Run method.
type RunOptions struct {
	Digest     string
	All        bool
	NoIgnore   bool
	IgnoreFile string
	Window     string
	Log        string
	Jobs       int
	Hidden     bool
	DryRun     bool
	ConfigPath string
	JSONLogs   bool
	Verbose    bool

	// Explicit names the options given on the command line. They take
	// precedence over the defaults file.
	Explicit map[string]bool
}

// DefaultRunOptions returns the built-in defaults.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Digest: domain.DefaultDigest,
		Window: domain.DefaultWindow.String(),
		Log:    domain.LogModeAuto.String(),
		Jobs:   domain.DefaultJobs,
	}
}

// withDefaults fills every option not given explicitly from d.
func (o RunOptions) withDefaults(d *ports.Defaults) RunOptions {
	if d == nil {
		return o
	}
	overlay(&o.Digest, d.Digest, o.Explicit[OptDigest])
	overlay(&o.All, d.All, o.Explicit[OptAll])
	overlay(&o.NoIgnore, d.NoIgnore, o.Explicit[OptNoIgnore])
	overlay(&o.IgnoreFile, d.IgnoreFile, o.Explicit[OptIgnoreFile])
	overlay(&o.Window, d.Window, o.Explicit[OptWindow])
	overlay(&o.Log, d.Log, o.Explicit[OptLog])
	overlay(&o.Jobs, d.Jobs, o.Explicit[OptJobs])
	overlay(&o.Hidden, d.Hidden, o.Explicit[OptHidden])
	return o
}

func overlay[T any](dst *T, src *T, explicit bool) {
	if explicit || src == nil {
		return
	}
	*dst = *src
}

// configuration converts the merged options into a validated Configuration.
func (o RunOptions) configuration(paths []string) (*domain.Configuration, domain.LogMode, error) {
	window, err := time.ParseDuration(o.Window)
	if err != nil {
		return nil, domain.LogModeAuto, zerr.With(zerr.Wrap(domain.ErrInvalidWindow, "invalid configuration"), "window", o.Window)
	}

	mode, err := domain.ParseLogMode(o.Log)
	if err != nil {
		return nil, domain.LogModeAuto, err
	}

	cfg := &domain.Configuration{
		Digest:        o.Digest,
		ProcessAll:    o.All,
		RespectIgnore: !o.NoIgnore,
		IgnoreFile:    o.IgnoreFile,
		Paths:         paths,
		Window:        window,
		Hidden:        o.Hidden,
		DryRun:        o.DryRun,
		Jobs:          o.Jobs,
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.LogModeAuto, err
	}
	return cfg, mode, nil
}
