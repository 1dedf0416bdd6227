// Package config loads the keymapd configuration file.
//
// The file is TOML: a required "toggle" combo string and a "mappings" table
// of sections, each section mapping source key names to target key names.
// Section names encode optional indicator conditions as dot-separated
// "<indicator>_on"/"<indicator>_off" tokens; the section named "default"
// applies unconditionally.
//
//	toggle = "LeftCtrl+Enter"
//
//	[mappings.default]
//	W = "Up"
//	A = "Left"
//
//	[mappings.numlock_off]
//	KP1 = "End"
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the raw, file-shaped configuration. Key and indicator names are
// resolved later by the rule compiler.
type Config struct {
	Toggle   string                       `toml:"toggle"`
	Mappings map[string]map[string]string `toml:"mappings"`
}

// DefaultPath returns the first existing config file among the conventional
// locations, or the system-wide path when none exists yet.
func DefaultPath() string {
	candidates := []string{"/etc/keymapd/config.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "keymapd", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return candidates[0]
}

// Load reads and parses the config file at path. A missing or unparseable
// file, or a file without a toggle combo, is a configuration error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if cfg.Toggle == "" {
		return nil, fmt.Errorf("config file %s has no toggle combo", path)
	}

	return &cfg, nil
}
