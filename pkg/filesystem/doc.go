// Package filesystem provides implementations of the types.FS interface:
// the standard OS filesystem for production use and an afero-backed
// filesystem for tests.
package filesystem
