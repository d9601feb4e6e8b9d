// Package paths resolves the install-location variables (PREFIX, DESTDIR,
// SYSCONFDIR, ...) to concrete directories and composes every path the
// Calamares payload is staged into. Resolution only joins and defaults;
// it never touches the filesystem.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonical variable names, as accepted on the command line and in the
// process environment.
const (
	VarPrefix     = "PREFIX"
	VarDestDir    = "DESTDIR"
	VarSysconfDir = "SYSCONFDIR"
	VarLibDir     = "LIBDIR"
	VarDataDir    = "DATADIR"
	VarBinDir     = "BINDIR"
	VarSrcDir     = "SRCDIR"
	VarArtworkDir = "GENTOO_ARTWORK_DIR"
	VarLivecdDir  = "LIVECD_ASSETS_DIR"
	VarWorkDir    = "WORKDIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Defaults applied when a variable is left unset. LIBDIR, DATADIR and BINDIR
// follow PREFIX; the asset bundles follow WORKDIR when one is given.
const (
	DefaultPrefix     = "/usr"
	DefaultSysconfDir = "/etc"
	DefaultSrcDir     = "."
	DefaultArtworkDir = "/usr/share/gentoo-artwork"
	DefaultLivecdDir  = "/usr/share/backgrounds/gentoo-livecd"

	libDirName  = "lib64"
	dataDirName = "share"
	binDirName  = "bin"

	workdirArtworkSubdir = "artwork"
	workdirLivecdSubdir  = "livecd"
)

// Directory names under the install roots. These mirror where Calamares
// looks for its configuration and are not user-configurable.
const (
	CalamaresDirName = "calamares"
	ModulesDirName   = "modules"
	BrandingDirName  = "branding"
	BrandingName     = "gentoo"

	ApplicationsDirName = "applications"
	MetainfoDirName     = "metainfo"
	PixmapsDirName      = "pixmaps"
)

// Variables holds the raw variable values before resolution. Empty fields
// take their defaults in New. The koanf tags bind the configuration layers,
// the toml tags the generated config file.
type Variables struct {
	Prefix     string `koanf:"prefix" toml:"prefix"`
	DestDir    string `koanf:"destdir" toml:"destdir,omitempty"`
	SysconfDir string `koanf:"sysconfdir" toml:"sysconfdir"`
	LibDir     string `koanf:"libdir" toml:"libdir,omitempty"`
	DataDir    string `koanf:"datadir" toml:"datadir,omitempty"`
	BinDir     string `koanf:"bindir" toml:"bindir,omitempty"`
	SrcDir     string `koanf:"srcdir" toml:"srcdir"`
	ArtworkDir string `koanf:"gentoo_artwork_dir" toml:"gentoo_artwork_dir,omitempty"`
	LivecdDir  string `koanf:"livecd_assets_dir" toml:"livecd_assets_dir,omitempty"`
	WorkDir    string `koanf:"workdir" toml:"workdir,omitempty"`
}

// VarNames returns the canonical variable names in display order.
func VarNames() []string {
	return []string{
		VarPrefix, VarDestDir, VarSysconfDir, VarLibDir, VarDataDir,
		VarBinDir, VarSrcDir, VarArtworkDir, VarLivecdDir, VarWorkDir,
	}
}

// IsVarName reports whether name is a recognized variable.
func IsVarName(name string) bool {
	for _, n := range VarNames() {
		if n == name {
			return true
		}
	}
	return false
}

// KeyFor maps a canonical variable name to its configuration key.
func KeyFor(name string) string {
	return "vars." + strings.ToLower(name)
}

// Paths provides the resolved directory layout for one invocation.
type Paths interface {
	// Raw variable values after defaulting.
	Prefix() string
	DestDir() string
	SysconfDir() string
	LibDir() string
	DataDir() string
	BinDir() string
	SrcDir() string
	ArtworkDir() string
	LivecdDir() string
	WorkDir() string

	// Target directories the payload lands in, without DESTDIR.
	ConfigDir() string
	ModulesConfDir() string
	BrandingDir() string
	JobModulesDir() string
	ApplicationsDir() string
	MetainfoDir() string
	PixmapsDir() string

	// Staged prepends DESTDIR to an absolute target path.
	Staged(path string) string

	// Source paths relative to the three source roots.
	Source(rel string) string
	ArtworkSource(rel string) string
	LivecdSource(rel string) string

	// Variables returns canonical name -> effective value for every
	// recognized variable.
	Variables() map[string]string
}

type paths struct {
	prefix     string
	destDir    string
	sysconfDir string
	libDir     string
	dataDir    string
	binDir     string
	srcDir     string
	artworkDir string
	livecdDir  string
	workDir    string
}

// New resolves a Variables set into a Paths. Empty values default; LIBDIR,
// DATADIR and BINDIR derive from PREFIX, and a non-empty WORKDIR relocates
// the two asset bundles unless they were set explicitly.
func New(v Variables) Paths {
	p := &paths{
		prefix:     orDefault(expandHome(v.Prefix), DefaultPrefix),
		destDir:    expandHome(v.DestDir),
		sysconfDir: orDefault(expandHome(v.SysconfDir), DefaultSysconfDir),
		srcDir:     orDefault(expandHome(v.SrcDir), DefaultSrcDir),
		workDir:    expandHome(v.WorkDir),
	}

	p.libDir = orDefault(expandHome(v.LibDir), filepath.Join(p.prefix, libDirName))
	p.dataDir = orDefault(expandHome(v.DataDir), filepath.Join(p.prefix, dataDirName))
	p.binDir = orDefault(expandHome(v.BinDir), filepath.Join(p.prefix, binDirName))

	p.artworkDir = expandHome(v.ArtworkDir)
	if p.artworkDir == "" {
		if p.workDir != "" {
			p.artworkDir = filepath.Join(p.workDir, workdirArtworkSubdir)
		} else {
			p.artworkDir = DefaultArtworkDir
		}
	}

	p.livecdDir = expandHome(v.LivecdDir)
	if p.livecdDir == "" {
		if p.workDir != "" {
			p.livecdDir = filepath.Join(p.workDir, workdirLivecdSubdir)
		} else {
			p.livecdDir = DefaultLivecdDir
		}
	}

	return p
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something refers to another user's home, leave it alone
		return path
	}

	return path
}

func (p *paths) Prefix() string     { return p.prefix }
func (p *paths) DestDir() string    { return p.destDir }
func (p *paths) SysconfDir() string { return p.sysconfDir }
func (p *paths) LibDir() string     { return p.libDir }
func (p *paths) DataDir() string    { return p.dataDir }
func (p *paths) BinDir() string     { return p.binDir }
func (p *paths) SrcDir() string     { return p.srcDir }
func (p *paths) ArtworkDir() string { return p.artworkDir }
func (p *paths) LivecdDir() string  { return p.livecdDir }
func (p *paths) WorkDir() string    { return p.workDir }

// ConfigDir returns the Calamares configuration directory, e.g. /etc/calamares.
func (p *paths) ConfigDir() string {
	return filepath.Join(p.sysconfDir, CalamaresDirName)
}

// ModulesConfDir returns the directory for module configuration snippets.
func (p *paths) ModulesConfDir() string {
	return filepath.Join(p.ConfigDir(), ModulesDirName)
}

// BrandingDir returns the branding component directory, e.g.
// /etc/calamares/branding/gentoo.
func (p *paths) BrandingDir() string {
	return filepath.Join(p.ConfigDir(), BrandingDirName, BrandingName)
}

// JobModulesDir returns the directory job modules install under, e.g.
// /usr/lib64/calamares/modules.
func (p *paths) JobModulesDir() string {
	return filepath.Join(p.libDir, CalamaresDirName, ModulesDirName)
}

func (p *paths) ApplicationsDir() string {
	return filepath.Join(p.dataDir, ApplicationsDirName)
}

func (p *paths) MetainfoDir() string {
	return filepath.Join(p.dataDir, MetainfoDirName)
}

func (p *paths) PixmapsDir() string {
	return filepath.Join(p.dataDir, PixmapsDirName)
}

// Staged prepends DESTDIR. With an empty DESTDIR the path is returned
// unchanged.
func (p *paths) Staged(path string) string {
	if p.destDir == "" {
		return path
	}
	return filepath.Join(p.destDir, path)
}

func (p *paths) Source(rel string) string {
	return filepath.Join(p.srcDir, rel)
}

func (p *paths) ArtworkSource(rel string) string {
	return filepath.Join(p.artworkDir, rel)
}

func (p *paths) LivecdSource(rel string) string {
	return filepath.Join(p.livecdDir, rel)
}

func (p *paths) Variables() map[string]string {
	return map[string]string{
		VarPrefix:     p.prefix,
		VarDestDir:    p.destDir,
		VarSysconfDir: p.sysconfDir,
		VarLibDir:     p.libDir,
		VarDataDir:    p.dataDir,
		VarBinDir:     p.binDir,
		VarSrcDir:     p.srcDir,
		VarArtworkDir: p.artworkDir,
		VarLivecdDir:  p.livecdDir,
		VarWorkDir:    p.workDir,
	}
}
