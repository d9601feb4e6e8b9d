// Package manifest defines the table of files the Calamares configuration
// package installs. The table is static; resolving it against a paths.Paths
// yields the concrete install plan that both install and clean walk, which
// is what keeps the two operations symmetric.
package manifest

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/gentoo-livegui/calstage/pkg/paths"
)

// SourceRoot names the configured directory a source path is relative to.
type SourceRoot string

const (
	// RootPackage is the package checkout, SRCDIR.
	RootPackage SourceRoot = "package"
	// RootArtwork is the Gentoo artwork bundle, GENTOO_ARTWORK_DIR.
	RootArtwork SourceRoot = "artwork"
	// RootLivecd is the LiveCD background bundle, LIVECD_ASSETS_DIR.
	RootLivecd SourceRoot = "livecd"
)

// Install modes. Everything is a plain file except the pkexec helper.
const (
	ModeFile fs.FileMode = 0644
	ModeExec fs.FileMode = 0755
	ModeDir  fs.FileMode = 0755
)

// Payload file names.
const (
	SettingsFile     = "settings.conf"
	HelperFile       = "calamares-pkexec"
	DesktopFile      = "calamares.desktop"
	MetainfoFile     = "calamares.metainfo.xml"
	BrandingDescFile = "branding.desc"
	BrandingShowFile = "show.qml"
	ModuleDescFile   = "module.desc"
	ModuleMainFile   = "main.py"

	// IconSource is the icon path inside the artwork bundle.
	IconSource = "icons/calamares.png"
	// IconTarget is the installed icon name under pixmaps.
	IconTarget = "calamares.png"

	// BackgroundSource is the LiveCD wallpaper the slideshow images are
	// replicated from.
	BackgroundSource = "background.png"
	// LanguagesImage is the extra slideshow image shown on the language page.
	LanguagesImage = "languages.png"
)

// SlideCount is how many numbered images the branding slideshow expects.
// show.qml references 1.png through 10.png.
const SlideCount = 10

// ModuleConfNames lists the configuration snippets shipped under config/,
// in install order. Each lands in the Calamares modules config directory.
var ModuleConfNames = []string{
	"welcome",
	"locale",
	"keyboard",
	"partition",
	"mount",
	"users",
	"displaymanager",
	"networkcfg",
	"hwclock",
	"downloadstage3",
	"gentoopkg",
	"dracut_gentoo",
	"bootloader",
	"umount",
	"finished",
}

// JobModuleNames lists the Python job modules shipped under modules/.
var JobModuleNames = []string{
	"downloadstage3",
	"gentoopkg",
	"dracut_gentoo",
}

// Entry is one file to install, fully resolved against a variable set.
type Entry struct {
	// Name is a stable identifier used in logs and status output.
	Name string
	// SourceRel is the source path relative to its root, for reporting.
	SourceRel string
	// Root names which source root SourceRel is under.
	Root SourceRoot
	// Source is the resolved source path. Never DESTDIR-prefixed.
	Source string
	// Target is the resolved destination, DESTDIR included.
	Target string
	// Mode the target is created with.
	Mode fs.FileMode
	// Required entries abort the install when their source is missing;
	// optional ones are skipped with a warning.
	Required bool
}

// Plan is a resolved manifest: entries in install order plus the
// calamares-owned directories clean prunes, deepest first. Shared system
// directories (bin, applications, metainfo, pixmaps) are never listed.
type Plan struct {
	Entries   []Entry
	PruneDirs []string
}

// Build resolves the manifest against p.
func Build(p paths.Paths) *Plan {
	var entries []Entry

	add := func(name, rel string, root SourceRoot, target string, mode fs.FileMode, required bool) {
		var source string
		switch root {
		case RootArtwork:
			source = p.ArtworkSource(rel)
		case RootLivecd:
			source = p.LivecdSource(rel)
		default:
			source = p.Source(rel)
		}
		entries = append(entries, Entry{
			Name:      name,
			SourceRel: rel,
			Root:      root,
			Source:    source,
			Target:    p.Staged(target),
			Mode:      mode,
			Required:  required,
		})
	}

	add("settings", SettingsFile, RootPackage,
		filepath.Join(p.ConfigDir(), SettingsFile), ModeFile, true)

	for _, name := range ModuleConfNames {
		add("conf:"+name, filepath.Join("config", name+".conf"), RootPackage,
			filepath.Join(p.ModulesConfDir(), name+".conf"), ModeFile, true)
	}

	for _, name := range JobModuleNames {
		add("job:"+name+"/desc", filepath.Join("modules", name, ModuleDescFile), RootPackage,
			filepath.Join(p.JobModulesDir(), name, ModuleDescFile), ModeFile, true)
		add("job:"+name+"/main", filepath.Join("modules", name, ModuleMainFile), RootPackage,
			filepath.Join(p.JobModulesDir(), name, ModuleMainFile), ModeFile, true)
	}

	add("helper", HelperFile, RootPackage,
		filepath.Join(p.BinDir(), HelperFile), ModeExec, true)

	add("desktop", DesktopFile, RootPackage,
		filepath.Join(p.ApplicationsDir(), DesktopFile), ModeFile, true)

	add("metainfo", MetainfoFile, RootPackage,
		filepath.Join(p.MetainfoDir(), MetainfoFile), ModeFile, true)

	add("icon", IconSource, RootArtwork,
		filepath.Join(p.PixmapsDir(), IconTarget), ModeFile, false)

	add("branding:desc", filepath.Join("branding", paths.BrandingName, BrandingDescFile), RootPackage,
		filepath.Join(p.BrandingDir(), BrandingDescFile), ModeFile, true)
	add("branding:show", filepath.Join("branding", paths.BrandingName, BrandingShowFile), RootPackage,
		filepath.Join(p.BrandingDir(), BrandingShowFile), ModeFile, true)

	// The slideshow wants distinct numbered images; until real slides exist
	// the one wallpaper is replicated across all of them.
	for i := 1; i <= SlideCount; i++ {
		add(fmt.Sprintf("slide:%d", i), BackgroundSource, RootLivecd,
			filepath.Join(p.BrandingDir(), fmt.Sprintf("%d.png", i)), ModeFile, false)
	}
	add("slide:languages", BackgroundSource, RootLivecd,
		filepath.Join(p.BrandingDir(), LanguagesImage), ModeFile, false)

	return &Plan{
		Entries:   entries,
		PruneDirs: pruneDirs(p),
	}
}

// pruneDirs returns the directories the install creates and clean may
// remove, deepest first so emptiness checks see children before parents.
func pruneDirs(p paths.Paths) []string {
	dirs := []string{
		p.BrandingDir(),
		filepath.Dir(p.BrandingDir()),
		p.ModulesConfDir(),
		p.ConfigDir(),
	}
	for _, name := range JobModuleNames {
		dirs = append(dirs, filepath.Join(p.JobModulesDir(), name))
	}
	dirs = append(dirs,
		p.JobModulesDir(),
		filepath.Dir(p.JobModulesDir()),
	)

	staged := make([]string, len(dirs))
	for i, d := range dirs {
		staged[i] = p.Staged(d)
	}
	return staged
}

// SourceFiles returns the package-root payload paths, relative to SRCDIR.
// Tests use it to synthesize a complete checkout.
func SourceFiles() []string {
	var files []string
	files = append(files, SettingsFile)
	for _, name := range ModuleConfNames {
		files = append(files, filepath.Join("config", name+".conf"))
	}
	for _, name := range JobModuleNames {
		files = append(files, filepath.Join("modules", name, ModuleDescFile))
		files = append(files, filepath.Join("modules", name, ModuleMainFile))
	}
	files = append(files,
		HelperFile,
		DesktopFile,
		MetainfoFile,
		filepath.Join("branding", paths.BrandingName, BrandingDescFile),
		filepath.Join("branding", paths.BrandingName, BrandingShowFile),
	)
	return files
}

// Lookup returns the entry with the given name, or false.
func (pl *Plan) Lookup(name string) (Entry, bool) {
	for _, e := range pl.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
