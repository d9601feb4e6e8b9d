package config

import (
	"github.com/gentoo-livegui/calstage/pkg/paths"
)

// Config file names probed in SRCDIR, in order.
var FileNames = []string{".calstage.toml", "calstage.toml"}

// Origin records which layer supplied a value.
type Origin string

const (
	OriginDefault Origin = "default"
	OriginFile    Origin = "config file"
	OriginEnv     Origin = "environment"
	OriginArgs    Origin = "argument"
)

// InstallConfig holds install behavior knobs that are not path variables.
type InstallConfig struct {
	// Rollback undoes already-applied operations when the install pipeline
	// fails partway. Off by default to match make-style semantics: a failed
	// install leaves what it copied and the run is repeatable.
	Rollback bool `koanf:"rollback" toml:"rollback"`
}

// Config is the merged result of all configuration layers.
type Config struct {
	Vars    paths.Variables `koanf:"vars"`
	Install InstallConfig   `koanf:"install"`

	// Origins maps configuration keys (e.g. "vars.prefix") to the layer
	// that supplied the effective value.
	Origins map[string]Origin `koanf:"-"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Origin returns where the named variable's value came from.
func (c *Config) Origin(varName string) Origin {
	if o, ok := c.Origins[paths.KeyFor(varName)]; ok {
		return o
	}
	return OriginDefault
}

// Paths resolves the loaded variables.
func (c *Config) Paths() paths.Paths {
	return paths.New(c.Vars)
}
