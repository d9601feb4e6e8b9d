// Package install implements the install command: resolve the configured
// variables, build the plan and stage the Calamares payload.
package install

import (
	"context"
	"time"

	"github.com/gentoo-livegui/calstage/pkg/config"
	"github.com/gentoo-livegui/calstage/pkg/executor"
	"github.com/gentoo-livegui/calstage/pkg/filesystem"
	"github.com/gentoo-livegui/calstage/pkg/logging"
	"github.com/gentoo-livegui/calstage/pkg/manifest"
	"github.com/gentoo-livegui/calstage/pkg/types"
)

// Options defines the options for the install command.
type Options struct {
	// Config is the merged variable configuration.
	Config *config.Config

	// DryRun reports what would be staged without touching the tree.
	DryRun bool

	// FileSystem to use (defaults to the OS filesystem).
	FileSystem types.FS
}

// Result pairs the resolved plan with the executor's report.
type Result struct {
	Plan    *manifest.Plan
	Install *executor.InstallResult
}

// Run stages every present manifest entry into the configured tree.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.install")
	defer logging.LogDuration(time.Now(), "install")

	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}

	p := opts.Config.Paths()
	plan := manifest.Build(p)
	logger.Debug().
		Str("srcdir", p.SrcDir()).
		Str("destdir", p.DestDir()).
		Int("entries", len(plan.Entries)).
		Bool("dryRun", opts.DryRun).
		Msg("Starting install command")

	exec := executor.New(executor.Options{
		FS:       opts.FileSystem,
		DryRun:   opts.DryRun,
		Rollback: opts.Config.Install.Rollback,
	})

	res, err := exec.Install(ctx, plan)
	return &Result{Plan: plan, Install: res}, err
}
