package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds optional user-level settings.
type Config struct {
	// DataDir overrides the storage directory when non-empty.
	DataDir string `toml:"data_dir"`
}

// Load reads the user config from its default location. A missing file
// yields a zero config; a malformed one is an error.
func Load() (*Config, error) {
	return LoadFile(GlobalConfigPath())
}

// LoadFile reads a config file from an explicit path.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// PathsFor builds a Paths resolver honoring the config's storage override.
func (c *Config) PathsFor(baseDir string) *Paths {
	return NewPaths(baseDir, c.DataDir)
}
