//go:build !unix

package executor

// checkTargetAccess is a no-op where access(2) is unavailable; permission
// errors surface from the pipeline instead.
func (e *Executor) checkTargetAccess(present []sourced) error {
	return nil
}
