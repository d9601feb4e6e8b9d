package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gentoo-livegui/calstage/pkg/manifest"
)

// Clean removes the plan's targets in reverse install order, then prunes the
// directories the install created. It is best effort: individual failures
// become warnings, never errors, and an already absent target is a no-op.
// Shared system directories survive because only the calamares-owned
// directories are ever prune candidates, and only when empty.
func (e *Executor) Clean(plan *manifest.Plan) (*CleanResult, error) {
	start := time.Now()
	result := &CleanResult{DryRun: e.dryRun}

	// Targets gone after this run; dry-run pruning judges emptiness
	// against this set.
	removed := make(map[string]bool)

	for i := len(plan.Entries) - 1; i >= 0; i-- {
		entry := plan.Entries[i]

		if e.dryRun {
			if _, err := e.fs.Stat(entry.Target); err == nil {
				e.logger.Info().Str("target", entry.Target).Msg("Would remove")
				result.Entries = append(result.Entries, EntryResult{Entry: entry, Status: StatusWouldRemove})
				removed[entry.Target] = true
			} else {
				result.Entries = append(result.Entries, EntryResult{Entry: entry, Status: StatusAbsent})
			}
			continue
		}

		err := e.fs.Remove(entry.Target)
		switch {
		case err == nil:
			e.logger.Debug().Str("target", entry.Target).Msg("Removed")
			result.Entries = append(result.Entries, EntryResult{Entry: entry, Status: StatusRemoved})
			removed[entry.Target] = true
		case os.IsNotExist(err):
			result.Entries = append(result.Entries, EntryResult{Entry: entry, Status: StatusAbsent})
		default:
			e.logger.Warn().Err(err).Str("target", entry.Target).Msg("Could not remove target")
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("could not remove %s: %v", entry.Target, err))
			result.Entries = append(result.Entries, EntryResult{Entry: entry, Status: StatusFailed, Err: err})
		}
	}

	pruned := make(map[string]bool)
	for _, dir := range plan.PruneDirs {
		if e.pruneDir(dir, removed, pruned) {
			result.PrunedDirs = append(result.PrunedDirs, dir)
			pruned[dir] = true
		}
	}

	result.Duration = time.Since(start)
	e.logger.Info().
		Int("removed", result.Removed()).
		Int("prunedDirs", len(result.PrunedDirs)).
		Dur("duration", result.Duration).
		Msg("Clean finished")
	return result, nil
}

// pruneDir removes dir when nothing but this run's removals lived in it.
// Absent directories and directories holding foreign files are skipped
// silently; that is the contract, not an error.
func (e *Executor) pruneDir(dir string, removed, pruned map[string]bool) bool {
	children, err := e.fs.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			e.logger.Debug().Err(err).Str("dir", dir).Msg("Skipping prune")
		}
		return false
	}

	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		if removed[path] || pruned[path] {
			continue
		}
		return false
	}

	if e.dryRun {
		e.logger.Info().Str("dir", dir).Msg("Would remove directory")
		return true
	}

	if err := e.fs.Remove(dir); err != nil {
		e.logger.Debug().Err(err).Str("dir", dir).Msg("Directory not removed")
		return false
	}
	e.logger.Debug().Str("dir", dir).Msg("Removed directory")
	return true
}
