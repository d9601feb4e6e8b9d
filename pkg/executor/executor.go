// Package executor applies a resolved install plan to the filesystem and
// reverses it again. Install batches all file creation through a synthfs
// pipeline after preflighting every source; clean is a best-effort walk that
// removes targets in reverse order and prunes the directories the install
// created, leaving shared system directories alone.
package executor

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gentoo-livegui/calstage/pkg/logging"
	"github.com/gentoo-livegui/calstage/pkg/manifest"
	"github.com/gentoo-livegui/calstage/pkg/types"
)

// Options configures an Executor.
type Options struct {
	// FS used for preflight checks, pre-removal and clean. Install file
	// creation itself goes through synthfs against the OS.
	FS types.FS

	// DryRun logs what would happen without touching the filesystem.
	DryRun bool

	// Rollback undoes applied operations when the install pipeline fails
	// partway.
	Rollback bool
}

// Executor stages and unstages the Calamares payload.
type Executor struct {
	logger   zerolog.Logger
	fs       types.FS
	dryRun   bool
	rollback bool
}

// New creates an Executor.
func New(opts Options) *Executor {
	return &Executor{
		logger:   logging.GetLogger("executor"),
		fs:       opts.FS,
		dryRun:   opts.DryRun,
		rollback: opts.Rollback,
	}
}

// EntryStatus is the outcome of one manifest entry.
type EntryStatus string

const (
	StatusInstalled    EntryStatus = "installed"
	StatusSkipped      EntryStatus = "skipped"
	StatusRemoved      EntryStatus = "removed"
	StatusAbsent       EntryStatus = "absent"
	StatusFailed       EntryStatus = "failed"
	StatusWouldInstall EntryStatus = "would-install"
	StatusWouldRemove  EntryStatus = "would-remove"
)

// EntryResult pairs a manifest entry with its outcome.
type EntryResult struct {
	Entry  manifest.Entry
	Status EntryStatus
	Err    error
}

// InstallResult reports an install run.
type InstallResult struct {
	Entries  []EntryResult
	Warnings []string
	DryRun   bool
	Duration time.Duration
}

// Installed counts entries that were (or would be) staged.
func (r *InstallResult) Installed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == StatusInstalled || e.Status == StatusWouldInstall {
			n++
		}
	}
	return n
}

// Skipped counts optional entries whose source was missing.
func (r *InstallResult) Skipped() int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == StatusSkipped {
			n++
		}
	}
	return n
}

// CleanResult reports a clean run.
type CleanResult struct {
	Entries    []EntryResult
	PrunedDirs []string
	Warnings   []string
	DryRun     bool
	Duration   time.Duration
}

// Removed counts entries that were (or would be) removed.
func (r *CleanResult) Removed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == StatusRemoved || e.Status == StatusWouldRemove {
			n++
		}
	}
	return n
}
