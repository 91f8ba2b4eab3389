// Package config loads persisted run defaults from a YAML file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/mdhasher/internal/core/domain"
	"go.trai.ch/mdhasher/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader for .mdhasher.yaml files.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the defaults file. An explicit path must exist; otherwise the
// nearest domain.ConfigFileName at or above cwd is used, if any.
func (l *Loader) Load(cwd, explicitPath string) (*ports.Defaults, error) {
	configPath := explicitPath
	if configPath == "" {
		configPath = l.findConfiguration(cwd)
		if configPath == "" {
			return &ports.Defaults{}, nil
		}
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(cwd, configPath)
	}

	var file Defaultsfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	l.Logger.Debug("loaded defaults", "path", configPath)

	return &ports.Defaults{
		Digest:     file.Digest,
		All:        file.All,
		NoIgnore:   file.NoIgnore,
		IgnoreFile: resolvePath(filepath.Dir(configPath), file.IgnoreFile),
		Window:     file.Window,
		Log:        file.Log,
		Jobs:       file.Jobs,
		Hidden:     file.Hidden,
		Source:     configPath,
	}, nil
}

func (l *Loader) findConfiguration(cwd string) string {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return ""
		}
		currentDir = parentDir
	}
}

// resolvePath interprets a relative ignore_file against the directory holding
// the defaults file.
func resolvePath(configDir string, value *string) *string {
	if value == nil || *value == "" || filepath.IsAbs(*value) {
		return value
	}
	resolved := filepath.Clean(filepath.Join(configDir, *value))
	return &resolved
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.Wrap(domain.ErrConfigReadFailed, "config file not found")
		}
		return zerr.Wrap(domain.ErrConfigReadFailed, err.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(domain.ErrConfigParseFailed, parseErr.Error())
	}

	return nil
}
