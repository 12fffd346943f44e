package builder

import "errors"

// Sequencing errors. Builder methods wrap them with the failing call.
var (
	ErrModuleNotEmpty  = errors.New("module is not empty")
	ErrModuleNotBegun  = errors.New("module not begun")
	ErrModuleNotEnded  = errors.New("module not ended")
	ErrModuleEnded     = errors.New("module already ended")
	ErrFunctionActive  = errors.New("a function is already under construction")
	ErrNoFunction      = errors.New("no function under construction")
	ErrUnknownLabel    = errors.New("unknown basic block label")
	ErrNoInsertPoint   = errors.New("no insertion point")
	ErrBlockTerminated = errors.New("basic block already terminated")
	ErrInvalidProfile  = errors.New("invalid shader profile")
)
