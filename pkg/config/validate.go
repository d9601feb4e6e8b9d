package config

import (
	"bytes"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/gentoo-livegui/calstage/pkg/errors"
	"github.com/gentoo-livegui/calstage/pkg/paths"
)

// fileSchema mirrors exactly what a package config file may contain.
type fileSchema struct {
	Vars    paths.Variables `toml:"vars"`
	Install InstallConfig   `toml:"install"`
}

// ValidateFile strictly decodes a package config file, rejecting unknown
// tables and keys. Loading stays lenient because koanf merges whatever it
// finds; this pass is what catches a typoed key before it silently becomes
// a no-op.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var schema fileSchema
	if err := dec.Decode(&schema); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "invalid config file %s", path)
	}
	return nil
}
