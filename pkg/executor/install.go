package executor

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"

	"github.com/gentoo-livegui/calstage/pkg/errors"
	"github.com/gentoo-livegui/calstage/pkg/manifest"
)

// sourced is a manifest entry whose source passed preflight, with the
// content to stage.
type sourced struct {
	entry   manifest.Entry
	content []byte
}

// Install stages every present entry of the plan. The sources are checked
// and read before anything is mutated: a missing required source fails the
// run with nothing copied.
func (e *Executor) Install(ctx context.Context, plan *manifest.Plan) (*InstallResult, error) {
	start := time.Now()
	result := &InstallResult{DryRun: e.dryRun}

	present, err := e.preflight(plan, result)
	if err != nil {
		return result, err
	}

	if e.dryRun {
		for _, s := range present {
			e.logger.Info().
				Str("source", s.entry.Source).
				Str("target", s.entry.Target).
				Str("mode", s.entry.Mode.String()).
				Msg("Would install")
			result.Entries = append(result.Entries, EntryResult{Entry: s.entry, Status: StatusWouldInstall})
		}
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := e.checkTargetAccess(present); err != nil {
		return result, err
	}

	if err := e.createTargetDirs(present); err != nil {
		return result, err
	}

	// Existing targets are removed first so re-installs refresh content and
	// mode, and so creation never trips over a leftover file.
	for _, s := range present {
		if err := e.fs.Remove(s.entry.Target); err != nil && !os.IsNotExist(err) {
			e.logger.Warn().Err(err).Str("target", s.entry.Target).
				Msg("Could not remove existing target before overwrite")
		}
	}

	sfs := synthfs.New()
	ops := make([]synthfs.Operation, 0, len(present))
	byID := make(map[synthfs.OperationID]manifest.Entry, len(present))
	for _, s := range present {
		op := sfs.CreateFileWithID("install-"+s.entry.Name, s.entry.Target, s.content, s.entry.Mode)
		ops = append(ops, op)
		byID[op.ID()] = s.entry
	}

	osfs := filesystem.NewOSFileSystem("/")
	pathFS := synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = e.rollback

	e.logger.Info().
		Int("files", len(ops)).
		Bool("rollback", e.rollback).
		Msg("Staging payload")

	runResult, runErr := synthfs.RunWithOptions(ctx, pathFS, options, ops...)
	result.Entries = append(result.Entries, convertRun(runResult, byID)...)
	result.Duration = time.Since(start)

	if runErr != nil {
		return result, errors.Wrap(runErr, errors.ErrFileCopy, "failed to stage payload")
	}

	e.logger.Info().
		Int("installed", result.Installed()).
		Int("skipped", result.Skipped()).
		Dur("duration", result.Duration).
		Msg("Install finished")
	return result, nil
}

// preflight stats every source. Optional entries with missing sources are
// recorded as skipped with a user-visible warning; a missing required source
// aborts. Present sources are read up front, one read per distinct file.
func (e *Executor) preflight(plan *manifest.Plan, result *InstallResult) ([]sourced, error) {
	var present []sourced
	contents := make(map[string][]byte)

	for _, entry := range plan.Entries {
		if _, err := e.fs.Stat(entry.Source); err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, errors.ErrSourceRead,
					"cannot access source %s", entry.Source).
					WithDetail("entry", entry.Name)
			}
			if entry.Required {
				return nil, errors.Newf(errors.ErrMissingSource,
					"required source %s is missing", entry.Source).
					WithDetail("entry", entry.Name).
					WithDetail("path", entry.Source)
			}
			e.logger.Warn().
				Str("path", entry.Source).
				Str("entry", entry.Name).
				Msg("Optional source missing, skipping")
			result.Warnings = append(result.Warnings,
				"missing optional source: "+entry.Source)
			result.Entries = append(result.Entries, EntryResult{Entry: entry, Status: StatusSkipped})
			continue
		}

		content, ok := contents[entry.Source]
		if !ok {
			var err error
			content, err = e.fs.ReadFile(entry.Source)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrSourceRead,
					"cannot read source %s", entry.Source).
					WithDetail("entry", entry.Name)
			}
			contents[entry.Source] = content
		}
		present = append(present, sourced{entry: entry, content: content})
	}

	return present, nil
}

// createTargetDirs makes every needed parent directory. MkdirAll tolerates
// directories that already exist, so shared roots are safe.
func (e *Executor) createTargetDirs(present []sourced) error {
	seen := make(map[string]bool)
	var dirs []string
	for _, s := range present {
		dir := filepath.Dir(s.entry.Target)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		if err := e.fs.MkdirAll(dir, manifest.ModeDir); err != nil {
			if os.IsPermission(err) {
				return errors.Wrapf(err, errors.ErrPermission,
					"cannot create directory %s", dir)
			}
			return errors.Wrapf(err, errors.ErrDirCreate,
				"cannot create directory %s", dir)
		}
		e.logger.Debug().Str("dir", dir).Msg("Ensured directory")
	}
	return nil
}

// convertRun maps synthfs operation results back onto manifest entries.
func convertRun(runResult *synthfs.Result, byID map[synthfs.OperationID]manifest.Entry) []EntryResult {
	if runResult == nil {
		return nil
	}

	var entries []EntryResult
	for _, opResult := range runResult.GetOperations() {
		sr, ok := opResult.(synthfs.OperationResult)
		if !ok {
			continue
		}
		entry, ok := byID[sr.OperationID]
		if !ok {
			continue
		}
		switch sr.Status {
		case synthfs.StatusSuccess:
			entries = append(entries, EntryResult{Entry: entry, Status: StatusInstalled})
		default:
			entries = append(entries, EntryResult{Entry: entry, Status: StatusFailed, Err: sr.Error})
		}
	}
	return entries
}
