package params

import "errors"

// Domain errors for parameter validation and lookup.
var (
	// ErrConflict indicates two or more aliases of the same physical
	// quantity were supplied together.
	ErrConflict = errors.New("params: conflicting parameters")

	// ErrUnknown indicates a requested parameter has no definition and
	// no caller-supplied default.
	ErrUnknown = errors.New("params: parameter not found")
)
