// Package hashutil computes content checksums for staged-file comparison.
package hashutil

import (
	"crypto/sha256"
	"fmt"

	"github.com/gentoo-livegui/calstage/pkg/types"
)

// FileChecksum calculates the SHA256 checksum of a file as "sha256:<hex>".
func FileChecksum(fsys types.FS, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data)), nil
}

// SameContent reports whether two files have identical content.
func SameContent(fsys types.FS, a, b string) (bool, error) {
	ca, err := FileChecksum(fsys, a)
	if err != nil {
		return false, err
	}
	cb, err := FileChecksum(fsys, b)
	if err != nil {
		return false, err
	}
	return ca == cb, nil
}
