package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gentoo-livegui/calstage/pkg/errors"
	"github.com/gentoo-livegui/calstage/pkg/logging"
	"github.com/gentoo-livegui/calstage/pkg/paths"
)

var log = logging.GetLogger("config")

// Load merges the configuration layers and returns the result. args are the
// trailing VAR=value command-line assignments; an unrecognized variable name
// is a fatal usage error.
func Load(args []string) (*Config, error) {
	assignments, err := ParseAssignments(args)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	origins := make(map[string]Origin)

	// 1. Embedded defaults.
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}
	for _, key := range k.Keys() {
		origins[key] = OriginDefault
	}

	// 2. Package config file, discovered in SRCDIR. SRCDIR itself may come
	// from the arguments or the environment, so peek before the file layer.
	srcDir := peekSrcDir(assignments)
	configFile := findConfigFile(srcDir)
	if configFile != "" {
		fileK := koanf.New(".")
		if err := fileK.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", configFile)
		}
		if err := k.Load(confmap.Provider(fileK.All(), "."), nil); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot merge %s", configFile)
		}
		for _, key := range fileK.Keys() {
			origins[key] = OriginFile
		}
		log.Debug().Str("path", configFile).Msg("loaded package config")
	}

	// 3. Environment. Only the recognized Makefile-style names are read;
	// everything else in the environment is ignored, and a variable set to
	// the empty string counts as unset so it cannot mask a lower layer.
	if err := k.Load(env.ProviderWithValue("", ".", envVarFunc), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to read environment")
	}
	for _, name := range paths.VarNames() {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			origins[paths.KeyFor(name)] = OriginEnv
		}
	}

	// 4. Command-line assignments.
	if len(assignments) > 0 {
		argMap := make(map[string]interface{}, len(assignments))
		for name, value := range assignments {
			argMap[paths.KeyFor(name)] = value
		}
		if err := k.Load(confmap.Provider(argMap, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply arguments")
		}
		for name := range assignments {
			origins[paths.KeyFor(name)] = OriginArgs
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	cfg.Origins = origins
	cfg.File = configFile
	return &cfg, nil
}

// Default returns the built-in defaults without consulting the filesystem,
// environment, or arguments.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return &Config{Origins: map[string]Origin{}}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return &Config{Origins: map[string]Origin{}}
	}

	cfg.Origins = make(map[string]Origin)
	for _, key := range k.Keys() {
		cfg.Origins[key] = OriginDefault
	}
	return &cfg
}

// ParseAssignments parses trailing VAR=value arguments. Values may be empty,
// which is the same as leaving the variable unset.
func ParseAssignments(args []string) (map[string]string, error) {
	assignments := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"argument %q is not a VAR=value assignment", arg)
		}
		if !paths.IsVarName(name) {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"unknown variable %q (known: %s)", name, strings.Join(paths.VarNames(), ", "))
		}
		assignments[name] = value
	}
	return assignments, nil
}

// envVarFunc admits only the recognized variable names from the environment
// and maps them onto their configuration keys. Returning an empty key drops
// the pair, which both filters foreign variables and ignores empty values.
func envVarFunc(key, value string) (string, interface{}) {
	if !paths.IsVarName(key) || value == "" {
		return "", nil
	}
	return paths.KeyFor(key), value
}

// peekSrcDir resolves SRCDIR early, for config file discovery only. The full
// layering happens later; here arguments beat environment beats default.
func peekSrcDir(assignments map[string]string) string {
	if v, ok := assignments[paths.VarSrcDir]; ok && v != "" {
		return v
	}
	if v, ok := os.LookupEnv(paths.VarSrcDir); ok && v != "" {
		return v
	}
	return paths.DefaultSrcDir
}

func findConfigFile(srcDir string) string {
	for _, name := range FileNames {
		candidate := filepath.Join(srcDir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
