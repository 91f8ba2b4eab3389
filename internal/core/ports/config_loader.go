package ports

// Defaults holds the values read from a defaults file. Nil fields were not set.
type Defaults struct {
	Digest     *string
	All        *bool
	NoIgnore   *bool
	IgnoreFile *string
	Window     *string
	Log        *string
	Jobs       *int
	Hidden     *bool
	// Source is the file the defaults were read from, empty when none was found.
	Source string
}

// ConfigLoader defines the interface for loading persisted defaults.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads defaults from explicitPath, or searches upward from cwd for
	// domain.ConfigFileName when explicitPath is empty. A missing file yields
	// empty defaults.
	Load(cwd, explicitPath string) (*Defaults, error)
}
