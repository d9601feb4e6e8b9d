//go:build unix

package executor

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/gentoo-livegui/calstage/pkg/errors"
)

// checkTargetAccess verifies the nearest existing ancestor of every target
// directory is writable, so permission problems surface before anything is
// mutated.
func (e *Executor) checkTargetAccess(present []sourced) error {
	checked := make(map[string]bool)
	for _, s := range present {
		dir := nearestExisting(filepath.Dir(s.entry.Target))
		if dir == "" || checked[dir] {
			continue
		}
		checked[dir] = true
		if err := unix.Access(dir, unix.W_OK); err != nil {
			return errors.Wrapf(err, errors.ErrTargetAccess,
				"destination %s is not writable", dir)
		}
	}
	return nil
}

func nearestExisting(dir string) string {
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
