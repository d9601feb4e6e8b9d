// Package status reports the deployment state of the Calamares payload.
//
// The command is read only. For every manifest entry it answers whether the
// target is installed, drifted from its source, or missing, so it is the
// quick way to tell a staged tree apart from a pristine or a hand-edited
// one.
package status

import (
	"os"

	"github.com/gentoo-livegui/calstage/pkg/config"
	"github.com/gentoo-livegui/calstage/pkg/filesystem"
	"github.com/gentoo-livegui/calstage/pkg/internal/hashutil"
	"github.com/gentoo-livegui/calstage/pkg/logging"
	"github.com/gentoo-livegui/calstage/pkg/manifest"
	"github.com/gentoo-livegui/calstage/pkg/types"
)

// State classifies one manifest entry's deployment state.
type State string

const (
	// StateInstalled means the target exists and matches its source.
	StateInstalled State = "installed"
	// StateModified means the target exists but content or mode drifted.
	StateModified State = "modified"
	// StateMissing means the source exists but the target does not.
	StateMissing State = "missing"
	// StateSourceMissing means the source itself is absent.
	StateSourceMissing State = "source-missing"
	// StateUnknown means an IO error prevented the comparison.
	StateUnknown State = "unknown"
)

// EntryStatus is the state of one manifest entry.
type EntryStatus struct {
	Entry manifest.Entry
	State State
	Err   error
}

// Options defines the options for the status command.
type Options struct {
	// Config is the merged variable configuration.
	Config *config.Config

	// FileSystem to use (defaults to the OS filesystem).
	FileSystem types.FS
}

// Result is the per-entry state of the whole plan.
type Result struct {
	Plan    *manifest.Plan
	Entries []EntryStatus
}

// Count returns how many entries are in the given state.
func (r *Result) Count(s State) int {
	n := 0
	for _, e := range r.Entries {
		if e.State == s {
			n++
		}
	}
	return n
}

// Run inspects every manifest entry against the configured tree.
func Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.status")

	if opts.FileSystem == nil {
		opts.FileSystem = filesystem.NewOS()
	}

	plan := manifest.Build(opts.Config.Paths())
	result := &Result{Plan: plan}
	for _, entry := range plan.Entries {
		result.Entries = append(result.Entries, inspect(opts.FileSystem, entry))
	}

	logger.Info().
		Int("installed", result.Count(StateInstalled)).
		Int("modified", result.Count(StateModified)).
		Int("missing", result.Count(StateMissing)).
		Int("sourceMissing", result.Count(StateSourceMissing)).
		Msg("Status computed")
	return result, nil
}

func inspect(fsys types.FS, entry manifest.Entry) EntryStatus {
	st := EntryStatus{Entry: entry}

	if _, err := fsys.Stat(entry.Source); err != nil {
		if os.IsNotExist(err) {
			st.State = StateSourceMissing
		} else {
			st.State = StateUnknown
			st.Err = err
		}
		return st
	}

	info, err := fsys.Stat(entry.Target)
	if err != nil {
		if os.IsNotExist(err) {
			st.State = StateMissing
		} else {
			st.State = StateUnknown
			st.Err = err
		}
		return st
	}

	same, err := hashutil.SameContent(fsys, entry.Source, entry.Target)
	switch {
	case err != nil:
		st.State = StateUnknown
		st.Err = err
	case !same:
		st.State = StateModified
	case info.Mode().Perm() != entry.Mode:
		// Content matches but the mode drifted, e.g. a helper that lost
		// its executable bit.
		st.State = StateModified
	default:
		st.State = StateInstalled
	}
	return st
}
