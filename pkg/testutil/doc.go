// Package testutil provides shared helpers for calstage tests: an in-memory
// filesystem and builders for throwaway staging environments with a complete
// package checkout.
package testutil
