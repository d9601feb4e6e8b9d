// Package check validates the payload before it is installed: the YAML
// configuration parses, the desktop entry and AppStream metainfo are sound,
// the pkexec helper is a script and the job modules expose the entry point
// Calamares calls. A required payload problem fails the command; findings on
// optional assets are informational.
package check

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	"gopkg.in/yaml.v3"

	"github.com/gentoo-livegui/calstage/pkg/config"
	"github.com/gentoo-livegui/calstage/pkg/filesystem"
	"github.com/gentoo-livegui/calstage/pkg/logging"
	"github.com/gentoo-livegui/calstage/pkg/manifest"
	"github.com/gentoo-livegui/calstage/pkg/paths"
	"github.com/gentoo-livegui/calstage/pkg/types"
)

// Options defines the options for the check command.
type Options struct {
	// Config is the merged variable configuration.
	Config *config.Config

	// FileSystem to use (defaults to the OS filesystem).
	FileSystem types.FS
}

// Finding is one problem discovered in the payload.
type Finding struct {
	// Path of the file the finding is about.
	Path string
	// Required findings fail the check; the rest are informational.
	Required bool
	Message  string
}

// Result is the outcome of a payload check.
type Result struct {
	// Checked counts the distinct files inspected.
	Checked  int
	Findings []Finding
}

// Failed reports whether any required payload has a finding.
func (r *Result) Failed() bool {
	for _, f := range r.Findings {
		if f.Required {
			return true
		}
	}
	return false
}

type checker struct {
	fs     types.FS
	result *Result
	seen   map[string]bool
}

// Run inspects every payload source the manifest references, plus the
// package config file when one was loaded.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.check")

	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}

	plan := manifest.Build(opts.Config.Paths())
	c := &checker{
		fs:     opts.FileSystem,
		result: &Result{},
		seen:   make(map[string]bool),
	}

	for _, entry := range plan.Entries {
		c.checkEntry(entry)
	}

	if opts.Config.File != "" {
		c.result.Checked++
		if err := config.ValidateFile(opts.Config.File); err != nil {
			c.add(opts.Config.File, true, err.Error())
		}
	}

	logger.Info().
		Int("checked", c.result.Checked).
		Int("findings", len(c.result.Findings)).
		Bool("failed", c.result.Failed()).
		Msg("Check finished")
	return c.result, nil
}

func (c *checker) add(path string, required bool, format string, args ...interface{}) {
	c.result.Findings = append(c.result.Findings, Finding{
		Path:     path,
		Required: required,
		Message:  fmt.Sprintf(format, args...),
	})
}

// checkEntry dispatches on the entry name. Slides share one source file, so
// each distinct source is inspected once.
func (c *checker) checkEntry(entry manifest.Entry) {
	if c.seen[entry.Source] {
		return
	}
	c.seen[entry.Source] = true
	c.result.Checked++

	data, err := c.fs.ReadFile(entry.Source)
	if err != nil {
		if os.IsNotExist(err) {
			if entry.Required {
				c.add(entry.Source, true, "required payload is missing")
			} else {
				c.add(entry.Source, false, "optional asset is missing")
			}
		} else {
			c.add(entry.Source, entry.Required, "cannot read: %v", err)
		}
		return
	}

	switch {
	case entry.Name == "settings":
		c.checkSettings(entry.Source, data)
	case strings.HasPrefix(entry.Name, "conf:"):
		c.checkYAML(entry.Source, data)
	case strings.HasSuffix(entry.Name, "/desc"):
		c.checkModuleDesc(entry.Source, data)
	case strings.HasSuffix(entry.Name, "/main"):
		c.checkJobScript(entry.Source, data)
	case entry.Name == "helper":
		c.checkHelper(entry.Source, data)
	case entry.Name == "desktop":
		c.checkDesktop(entry.Source, data)
	case entry.Name == "metainfo":
		c.checkMetainfo(entry.Source, data)
	case entry.Name == "branding:desc":
		c.checkBrandingDesc(entry.Source, data)
	case entry.Name == "branding:show":
		if len(bytes.TrimSpace(data)) == 0 {
			c.add(entry.Source, true, "slideshow QML is empty")
		}
	default:
		// Image assets: presence was the check.
	}
}

// yamlMapping parses data and returns the top-level mapping. A nil map with
// ok=true means an empty document, which is legal for module snippets.
func (c *checker) yamlMapping(path string, data []byte, required bool) (map[string]interface{}, bool) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		c.add(path, required, "not valid YAML: %v", err)
		return nil, false
	}
	if doc == nil {
		return nil, true
	}
	m, ok := doc.(map[string]interface{})
	if !ok {
		c.add(path, required, "top level must be a YAML mapping")
		return nil, false
	}
	return m, true
}

func (c *checker) checkYAML(path string, data []byte) {
	c.yamlMapping(path, data, true)
}

func (c *checker) checkSettings(path string, data []byte) {
	m, ok := c.yamlMapping(path, data, true)
	if !ok || m == nil {
		if ok {
			c.add(path, true, "settings must not be empty")
		}
		return
	}
	if _, found := m["sequence"]; !found {
		c.add(path, true, "missing the sequence key Calamares runs from")
	}
}

// checkModuleDesc enforces the keys Calamares needs to load a Python job.
func (c *checker) checkModuleDesc(path string, data []byte) {
	m, ok := c.yamlMapping(path, data, true)
	if !ok {
		return
	}
	for _, key := range []string{"type", "name", "interface", "script"} {
		if _, found := m[key]; !found {
			c.add(path, true, "missing key %q", key)
		}
	}
}

func (c *checker) checkJobScript(path string, data []byte) {
	if len(bytes.TrimSpace(data)) == 0 {
		c.add(path, true, "job script is empty")
		return
	}
	if !bytes.Contains(data, []byte("def run(")) {
		c.add(path, true, "no run() entry point for Calamares to call")
	}
}

func (c *checker) checkHelper(path string, data []byte) {
	if !bytes.HasPrefix(data, []byte("#!")) {
		c.add(path, true, "helper does not start with a shebang")
	}
}

// checkDesktop verifies the [Desktop Entry] group and its mandatory keys.
func (c *checker) checkDesktop(path string, data []byte) {
	inEntry := false
	sawEntry := false
	keys := make(map[string]bool)

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inEntry = line == "[Desktop Entry]"
			sawEntry = sawEntry || inEntry
			continue
		}
		if !inEntry {
			continue
		}
		if key, _, found := strings.Cut(line, "="); found {
			keys[strings.TrimSpace(key)] = true
		}
	}

	if !sawEntry {
		c.add(path, true, "missing [Desktop Entry] group")
		return
	}
	for _, key := range []string{"Name", "Exec", "Type"} {
		if !keys[key] {
			c.add(path, true, "missing key %q", key)
		}
	}
}

// checkMetainfo verifies the AppStream component is well formed and carries
// the identity elements software centers need.
func (c *checker) checkMetainfo(path string, data []byte) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		c.add(path, true, "not well-formed XML: %v", err)
		return
	}
	root := doc.Root()
	if root == nil || root.Tag != "component" {
		c.add(path, true, "root element must be <component>")
		return
	}
	for _, tag := range []string{"id", "name", "summary"} {
		el := root.SelectElement(tag)
		if el == nil || strings.TrimSpace(el.Text()) == "" {
			c.add(path, true, "missing <%s>", tag)
		}
	}
}

// checkBrandingDesc verifies componentName matches the branding directory;
// Calamares resolves the component by that name.
func (c *checker) checkBrandingDesc(path string, data []byte) {
	m, ok := c.yamlMapping(path, data, true)
	if !ok || m == nil {
		if ok {
			c.add(path, true, "branding descriptor must not be empty")
		}
		return
	}
	name, _ := m["componentName"].(string)
	switch {
	case name == "":
		c.add(path, true, "missing componentName")
	case name != paths.BrandingName:
		c.add(path, true, "componentName %q must be %q", name, paths.BrandingName)
	}
}
