package feedback

import "errors"

var (
	// ErrPersistFailed indicates the snapshot could not be written.
	ErrPersistFailed = errors.New("persist feedback memory")

	// ErrRestoreFailed indicates the snapshot could not be read or decoded.
	// The in-memory state is left untouched.
	ErrRestoreFailed = errors.New("restore feedback memory")

	// ErrInvalidRate indicates a learning or exploration rate outside [0,1].
	ErrInvalidRate = errors.New("rate must be between 0 and 1")
)
