package types

import "io/fs"

// FS abstracts the filesystem operations staging needs. Implementations live
// in pkg/filesystem.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Remove fails on non-empty directories, which directory pruning
	// relies on.
	Remove(name string) error
}
