// Package clean implements the clean command, the install command's inverse.
// The target set is recomputed from the same manifest, so whatever install
// would have staged is exactly what clean removes. There is no install
// database to consult, which keeps the command safe to run on any tree.
package clean

import (
	"time"

	"github.com/gentoo-livegui/calstage/pkg/config"
	"github.com/gentoo-livegui/calstage/pkg/executor"
	"github.com/gentoo-livegui/calstage/pkg/filesystem"
	"github.com/gentoo-livegui/calstage/pkg/logging"
	"github.com/gentoo-livegui/calstage/pkg/manifest"
	"github.com/gentoo-livegui/calstage/pkg/types"
)

// Options defines the options for the clean command.
type Options struct {
	// Config is the merged variable configuration.
	Config *config.Config

	// DryRun reports what would be removed without touching the tree.
	DryRun bool

	// FileSystem to use (defaults to the OS filesystem).
	FileSystem types.FS
}

// Result pairs the resolved plan with the executor's report.
type Result struct {
	Plan  *manifest.Plan
	Clean *executor.CleanResult
}

// Run removes the staged payload and prunes the directories the install
// created. Removal is best effort; problems surface as warnings in the
// result, never as an error.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.clean")
	defer logging.LogDuration(time.Now(), "clean")

	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}

	p := opts.Config.Paths()
	plan := manifest.Build(p)
	logger.Debug().
		Str("destdir", p.DestDir()).
		Int("entries", len(plan.Entries)).
		Bool("dryRun", opts.DryRun).
		Msg("Starting clean command")

	exec := executor.New(executor.Options{
		FS:     opts.FileSystem,
		DryRun: opts.DryRun,
	})

	res, err := exec.Clean(plan)
	return &Result{Plan: plan, Clean: res}, err
}
