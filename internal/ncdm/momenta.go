// Package ncdm implements the phase-space mathematics of massive relic
// neutrinos (non-cold dark matter species): energy density, pressure and
// their mass derivative from the frozen Fermi-Dirac distribution, the
// Newton inversion between rest mass and density fraction, the splitting
// of a summed mass across the three species of a named mass hierarchy,
// and the bookkeeping between N_eff and the ultra-relativistic count.
package ncdm

import (
	"fmt"
	"math"

	"github.com/san-kum/cosmolab/internal/constants"
	"github.com/san-kum/cosmolab/internal/quad"
)

// Quantity selects which moment of the phase-space distribution to compute.
type Quantity int

const (
	// Rho is the energy density.
	Rho Quantity = iota
	// DRhoDM is the derivative of the energy density with respect to mass.
	DRhoDM
	// Pressure is the pressure.
	Pressure
)

// Species is one massive relic species: rest mass in eV and temperature
// as a ratio to the CMB temperature.
type Species struct {
	Mass   float64
	TRatio float64
}

// qMax truncates the dimensionless momentum integral; the integrand
// decays like exp(-q), so 100 leaves ~1e-16 relative truncation error.
const qMax = 100.0

// DefaultEpsRel is the default relative precision of the momentum integral.
const DefaultEpsRel = 1e-7

// Momenta returns a moment of a single relic species whose momentum
// distribution froze out as a Fermi-Dirac distribution with one
// massless-equivalent degree of freedom and no chemical potential.
// tEff is the present-day effective temperature in K (typically
// T_cmb * T_ncdm), m the rest mass in eV, z the redshift.
//
// Energy density and pressure come back in units of 1e10 Msun / Mpc^3;
// the mass derivative in the same units per eV.
func Momenta(tEff, m, z, epsrel float64, out Quantity) (float64, error) {
	a := 1 / (1 + z)
	t := tEff / a
	overT := constants.ElectronVolt / (constants.Boltzmann * t)
	m2OverT2 := (m * overT) * (m * overT)
	mOverT2 := m * overT * overT

	var integrand func(q float64) float64
	switch out {
	case Rho:
		integrand = func(q float64) float64 {
			return q * q * math.Sqrt(q*q+m2OverT2) / (1 + math.Exp(q))
		}
	case DRhoDM:
		integrand = func(q float64) float64 {
			if q == 0 && m == 0 {
				return 0
			}
			return mOverT2 * q * q / math.Sqrt(q*q+m2OverT2) / (1 + math.Exp(q))
		}
	case Pressure:
		integrand = func(q float64) float64 {
			if q == 0 && m == 0 {
				return 0
			}
			return q * q * q * q / 3 / math.Sqrt(q*q+m2OverT2) / (1 + math.Exp(q))
		}
	default:
		return 0, fmt.Errorf("ncdm: unknown phase-space quantity %d", out)
	}

	v, err := quad.Integrate(integrand, 0, qMax, epsrel)
	if err != nil {
		return 0, err
	}
	// Normalize by the massless moment, then restore physical units.
	v /= 7 * math.Pow(math.Pi, 4) / 120
	rho := 7.0 / 8 * 4 / (constants.SpeedOfLight * constants.SpeedOfLight * constants.SpeedOfLight) *
		constants.StefanBoltzmann * t * t * t * t * v
	return rho / (1e10 * constants.SolarMass) *
		constants.Megaparsec * constants.Megaparsec * constants.Megaparsec, nil
}

// RhoTotal sums the energy density of all species at redshift z, in
// 1e10 Msun / Mpc^3 (callers divide by h^2 for the /h convention).
func RhoTotal(tCMB float64, species []Species, z, epsrel float64) (float64, error) {
	total := 0.0
	for _, s := range species {
		rho, err := Momenta(tCMB*s.TRatio, s.Mass, z, epsrel, Rho)
		if err != nil {
			return 0, err
		}
		total += rho
	}
	return total, nil
}

// PressureTotal sums the pressure of all species at redshift z, in
// 1e10 Msun / Mpc^3.
func PressureTotal(tCMB float64, species []Species, z, epsrel float64) (float64, error) {
	total := 0.0
	for _, s := range species {
		p, err := Momenta(tCMB*s.TRatio, s.Mass, z, epsrel, Pressure)
		if err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}
