package ncdm

import "errors"

// Domain errors for neutrino phase-space calculations.
var (
	// ErrUnphysical indicates an input outside the physically allowed range.
	ErrUnphysical = errors.New("ncdm: unphysical input")

	// ErrNoConvergence indicates a Newton iteration failed to converge
	// within its step budget.
	ErrNoConvergence = errors.New("ncdm: iteration did not converge")
)
