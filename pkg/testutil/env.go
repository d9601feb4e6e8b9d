package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gentoo-livegui/calstage/pkg/manifest"
	"github.com/gentoo-livegui/calstage/pkg/paths"
)

// Env is a throwaway staging ground under one temp root: a populated package
// checkout, the two optional asset bundles, and an install destination.
type Env struct {
	Root       string
	SrcDir     string
	DestDir    string
	ArtworkDir string
	LivecdDir  string
}

// NewEnv creates an Env with a complete package checkout. The asset bundles
// start empty; use WriteArtwork and WriteLivecd to populate them.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	root := t.TempDir()
	e := &Env{
		Root:       root,
		SrcDir:     filepath.Join(root, "src"),
		DestDir:    filepath.Join(root, "dest"),
		ArtworkDir: filepath.Join(root, "artwork"),
		LivecdDir:  filepath.Join(root, "livecd"),
	}

	for _, rel := range manifest.SourceFiles() {
		WriteFile(t, filepath.Join(e.SrcDir, rel), "test payload: "+rel+"\n")
	}
	for _, dir := range []string{e.DestDir, e.ArtworkDir, e.LivecdDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}

	return e
}

// Vars returns the variable set pointing at this environment.
func (e *Env) Vars() paths.Variables {
	return paths.Variables{
		DestDir:    e.DestDir,
		SrcDir:     e.SrcDir,
		ArtworkDir: e.ArtworkDir,
		LivecdDir:  e.LivecdDir,
	}
}

// Paths resolves the environment's variable set.
func (e *Env) Paths() paths.Paths {
	return paths.New(e.Vars())
}

// WriteArtwork drops the Calamares icon into the artwork bundle.
func (e *Env) WriteArtwork(t *testing.T) {
	t.Helper()
	WriteFile(t, filepath.Join(e.ArtworkDir, manifest.IconSource), FakePNG("icon"))
}

// WriteLivecd drops the LiveCD wallpaper into the background bundle.
func (e *Env) WriteLivecd(t *testing.T) {
	t.Helper()
	WriteFile(t, filepath.Join(e.LivecdDir, manifest.BackgroundSource), FakePNG("background"))
}

// RemoveSource deletes one payload file from the checkout, for
// missing-source scenarios.
func (e *Env) RemoveSource(t *testing.T, rel string) {
	t.Helper()
	if err := os.Remove(filepath.Join(e.SrcDir, rel)); err != nil {
		t.Fatalf("removing source %s: %v", rel, err)
	}
}

// WriteFile writes content, creating parent directories as needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// ReadFile returns the file's content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FakePNG returns distinguishable bytes with a PNG signature, good enough
// for copy tests that compare content.
func FakePNG(label string) string {
	return "\x89PNG\r\n\x1a\n" + label
}
