package config

// Defaultsfile represents the structure of the .mdhasher.yaml defaults file.
// Pointer fields distinguish an unset key from its zero value.
type Defaultsfile struct {
	Digest     *string `yaml:"digest"`
	All        *bool   `yaml:"all"`
	NoIgnore   *bool   `yaml:"no_ignore"`
	IgnoreFile *string `yaml:"ignore_file"`
	Window     *string `yaml:"window"`
	Log        *string `yaml:"log"`
	Jobs       *int    `yaml:"jobs"`
	Hidden     *bool   `yaml:"hidden"`
}
