package luamedia

import "errors"

// Common errors
var (
	// ErrInvalidConstruction indicates a script tried to construct a wrapper
	// directly instead of receiving one from the engine.
	ErrInvalidConstruction = errors.New("luamedia: wrappers cannot be constructed from script code")

	// ErrNotImplemented indicates a feature that is intentionally unimplemented.
	ErrNotImplemented = errors.New("luamedia: not implemented")

	// ErrLoopClosed indicates the script loop has been shut down.
	ErrLoopClosed = errors.New("luamedia: script loop closed")
)
