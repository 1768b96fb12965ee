package ncdm

import (
	"fmt"
	"math"

	"github.com/san-kum/cosmolab/internal/constants"
)

const (
	// densityTol is the absolute tolerance on the density fraction for
	// the mass-density Newton inversion.
	densityTol = 1e-15

	// massPerOmega is the first-guess conversion m ~ 93.14 * omega h^2 eV,
	// exact for the standard T_ncdm temperature ratio.
	massPerOmega = 93.14

	maxNewtonIter = 100
)

// OmegaFromMass returns the density fraction omega = Omega h^2
// contributed today by one species of rest mass m (eV) at effective
// temperature tEff (K).
func OmegaFromMass(tEff, m float64) (float64, error) {
	rho, err := Momenta(tEff, m, 0, DefaultEpsRel, Rho)
	if err != nil {
		return 0, err
	}
	return rho / constants.RhoCritMsunPerMpc3, nil
}

// SolveMass inverts OmegaFromMass: it returns the rest mass in eV whose
// present-day energy density matches the target omega = Omega h^2 to
// within an absolute tolerance of 1e-15, by Newton iteration on the
// analytic mass derivative of the phase-space integral.
func SolveMass(omega, tEff float64) (float64, error) {
	if omega == 0 {
		return 0, nil
	}
	if omega < 0 {
		return 0, fmt.Errorf("%w: negative density fraction %g", ErrUnphysical, omega)
	}

	m := omega * massPerOmega
	check, err := OmegaFromMass(tEff, m)
	if err != nil {
		return 0, err
	}

	for i := 0; i < maxNewtonIter; i++ {
		if math.Abs(omega-check) <= densityTol {
			return m, nil
		}
		drho, err := Momenta(tEff, m, 0, DefaultEpsRel, DRhoDM)
		if err != nil {
			return 0, err
		}
		domega := drho / constants.RhoCritMsunPerMpc3
		if domega == 0 || math.IsNaN(domega) {
			return 0, fmt.Errorf("%w: singular derivative at m=%g eV", ErrNoConvergence, m)
		}
		m += (omega - check) / domega
		check, err = OmegaFromMass(tEff, m)
		if err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("%w: mass-density inversion for omega=%g", ErrNoConvergence, omega)
}
