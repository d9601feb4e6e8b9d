// Package vars implements the vars command: every recognized variable with
// its effective value and the layer that supplied it.
package vars

import (
	"github.com/gentoo-livegui/calstage/pkg/config"
	"github.com/gentoo-livegui/calstage/pkg/logging"
	"github.com/gentoo-livegui/calstage/pkg/paths"
)

// Options defines the options for the vars command.
type Options struct {
	// Config is the merged variable configuration.
	Config *config.Config
}

// Variable is one resolved variable for display.
type Variable struct {
	Name   string
	Value  string
	Origin config.Origin
}

// Result lists the resolved variables in canonical order.
type Result struct {
	Variables []Variable

	// File is the config file that contributed values, if any.
	File string
}

// Run resolves the variable set. Derived values (LIBDIR following PREFIX,
// asset bundles following WORKDIR) show their effective paths with origin
// "default".
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.vars")

	effective := opts.Config.Paths().Variables()
	result := &Result{File: opts.Config.File}
	for _, name := range paths.VarNames() {
		result.Variables = append(result.Variables, Variable{
			Name:   name,
			Value:  effective[name],
			Origin: opts.Config.Origin(name),
		})
	}

	logger.Debug().
		Int("variables", len(result.Variables)).
		Str("file", result.File).
		Msg("Resolved variable set")
	return result, nil
}
