// Package types defines the small set of interfaces shared across calstage
// packages, chiefly the filesystem abstraction that lets staging logic run
// against the real OS in production and an in-memory filesystem in tests.
package types
