// Package background evaluates homogeneous-expansion quantities
// (Hubble rate, density parameters, comoving densities) from a
// compiled canonical parameter set. All densities follow the
// 1e10 Msun/h / (Mpc/h)^3 convention.
package background

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/cosmolab/internal/constants"
	"github.com/san-kum/cosmolab/internal/ncdm"
	"github.com/san-kum/cosmolab/internal/params"
)

// ErrOutOfRange indicates a redshift outside a tabulated range.
var ErrOutOfRange = errors.New("background: redshift outside tabulated range")

// Background answers expansion-history queries for one compiled
// cosmology. The dimensionless Hubble rate comes from a strategy set at
// construction: closed-form Friedmann for the analytic flavor, table
// interpolation for the tabulated one. Everything else derives from it
// and the frozen present-day fractions, so a Background is safe for
// concurrent readers.
type Background struct {
	h       float64
	tCMB0   float64
	species []ncdm.Species

	omegaG      float64
	omegaUR     float64
	omegaB      float64
	omegaCDM    float64
	omegaK      float64
	omegaNCDM   float64
	omegaLambda float64
	omegaFld    float64
	w0, wa      float64

	efunc func(z float64) (float64, error)
}

func fromParams(p *params.Params) (*Background, error) {
	b := &Background{species: p.NeutrinoSpecies()}

	scalars := []struct {
		name string
		dst  *float64
	}{
		{"h", &b.h},
		{"T_cmb", &b.tCMB0},
		{"Omega_g", &b.omegaG},
		{"Omega_ur", &b.omegaUR},
		{"Omega_b", &b.omegaB},
		{"Omega_cdm", &b.omegaCDM},
		{"Omega_k", &b.omegaK},
		{"Omega_ncdm", &b.omegaNCDM},
	}
	for _, s := range scalars {
		v, err := p.Float(s.name)
		if err != nil {
			return nil, err
		}
		*s.dst = v
	}

	if p.Has("Omega_fld") {
		var err error
		if b.omegaFld, err = p.Float("Omega_fld"); err != nil {
			return nil, err
		}
		if b.w0, err = p.Float("w0_fld"); err != nil {
			return nil, err
		}
		if b.wa, err = p.Float("wa_fld"); err != nil {
			return nil, err
		}
	}

	// Dark energy closes the budget unless given explicitly.
	if p.Has("Omega_Lambda") {
		var err error
		if b.omegaLambda, err = p.Float("Omega_Lambda"); err != nil {
			return nil, err
		}
	} else {
		b.omegaLambda = 1 - b.omegaG - b.omegaUR - b.omegaB - b.omegaCDM -
			b.omegaK - b.omegaNCDM - b.omegaFld
	}
	return b, nil
}

// NewAnalytic builds a Background whose expansion rate follows the
// Friedmann equation over the compiled density fractions, with the
// massive-neutrino term integrated exactly at every redshift.
func NewAnalytic(p *params.Params) (*Background, error) {
	b, err := fromParams(p)
	if err != nil {
		return nil, err
	}
	b.efunc = func(z float64) (float64, error) {
		a := 1 + z
		e2 := (b.omegaG+b.omegaUR)*a*a*a*a +
			(b.omegaB+b.omegaCDM)*a*a*a +
			b.omegaK*a*a +
			b.omegaLambda
		if b.omegaFld != 0 {
			e2 += b.omegaFld * math.Pow(a, 3*(1+b.w0+b.wa)) * math.Exp(-3*b.wa*z/a)
		}
		if len(b.species) > 0 {
			rho, err := b.RhoNCDM(z)
			if err != nil {
				return 0, err
			}
			e2 += rho / constants.RhoCritMsunPerMpc3
		}
		return math.Sqrt(e2), nil
	}
	return b, nil
}

// NewTabulated builds a Background whose expansion rate linearly
// interpolates a tabulated E(z); zs must be strictly increasing and
// queries outside its span fail with ErrOutOfRange.
func NewTabulated(p *params.Params, zs, efuncs []float64) (*Background, error) {
	if len(zs) != len(efuncs) {
		return nil, fmt.Errorf("background: %d redshifts but %d tabulated values", len(zs), len(efuncs))
	}
	if len(zs) < 2 {
		return nil, fmt.Errorf("background: tabulated E(z) needs at least two rows, got %d", len(zs))
	}
	for i := 1; i < len(zs); i++ {
		if zs[i] <= zs[i-1] {
			return nil, fmt.Errorf("background: tabulated redshifts must be strictly increasing (row %d)", i)
		}
	}
	b, err := fromParams(p)
	if err != nil {
		return nil, err
	}
	b.efunc = func(z float64) (float64, error) {
		if z < zs[0] || z > zs[len(zs)-1] {
			return 0, fmt.Errorf("%w: z=%g not in [%g, %g]", ErrOutOfRange, z, zs[0], zs[len(zs)-1])
		}
		i := 1
		for i < len(zs)-1 && zs[i] < z {
			i++
		}
		t := (z - zs[i-1]) / (zs[i] - zs[i-1])
		return efuncs[i-1] + t*(efuncs[i]-efuncs[i-1]), nil
	}
	return b, nil
}

// Efunc returns the dimensionless Hubble rate E(z) = H(z)/H0.
func (b *Background) Efunc(z float64) (float64, error) {
	return b.efunc(z)
}

// Hubble returns H(z) in km/s/Mpc.
func (b *Background) Hubble(z float64) (float64, error) {
	e, err := b.efunc(z)
	if err != nil {
		return 0, err
	}
	return e * b.h * 100, nil
}

// RhoCrit returns the comoving critical density 3H(z)^2/(8 pi G).
func (b *Background) RhoCrit(z float64) (float64, error) {
	e, err := b.efunc(z)
	if err != nil {
		return 0, err
	}
	return e * e * constants.RhoCritMsunPerMpc3, nil
}

// TCMB returns the CMB temperature at redshift z, in K.
func (b *Background) TCMB(z float64) float64 {
	return b.tCMB0 * (1 + z)
}

// H0 returns the present-day Hubble rate in km/s/Mpc.
func (b *Background) H0() float64 { return b.h * 100 }

func (b *Background) scaled(omega0, power, z float64) (float64, error) {
	e, err := b.efunc(z)
	if err != nil {
		return 0, err
	}
	return omega0 * math.Pow(1+z, power) / (e * e), nil
}

// OmegaG returns the photon density parameter at redshift z.
func (b *Background) OmegaG(z float64) (float64, error) { return b.scaled(b.omegaG, 4, z) }

// OmegaUR returns the massless-neutrino density parameter at redshift z.
func (b *Background) OmegaUR(z float64) (float64, error) { return b.scaled(b.omegaUR, 4, z) }

// OmegaB returns the baryon density parameter at redshift z.
func (b *Background) OmegaB(z float64) (float64, error) { return b.scaled(b.omegaB, 3, z) }

// OmegaCDM returns the cold dark matter density parameter at redshift z.
func (b *Background) OmegaCDM(z float64) (float64, error) { return b.scaled(b.omegaCDM, 3, z) }

// OmegaK returns the curvature density parameter at redshift z.
func (b *Background) OmegaK(z float64) (float64, error) { return b.scaled(b.omegaK, 2, z) }

// OmegaLambda returns the cosmological-constant density parameter at
// redshift z.
func (b *Background) OmegaLambda(z float64) (float64, error) { return b.scaled(b.omegaLambda, 0, z) }

// RhoNCDM returns the comoving massive-neutrino energy density at
// redshift z.
func (b *Background) RhoNCDM(z float64) (float64, error) {
	if len(b.species) == 0 {
		return 0, nil
	}
	rho, err := ncdm.RhoTotal(b.tCMB0, b.species, z, ncdm.DefaultEpsRel)
	if err != nil {
		return 0, err
	}
	return rho / (b.h * b.h), nil
}

// PNCDM returns the comoving massive-neutrino pressure at redshift z.
func (b *Background) PNCDM(z float64) (float64, error) {
	if len(b.species) == 0 {
		return 0, nil
	}
	p, err := ncdm.PressureTotal(b.tCMB0, b.species, z, ncdm.DefaultEpsRel)
	if err != nil {
		return 0, err
	}
	return p / (b.h * b.h), nil
}

// OmegaNCDM returns the massive-neutrino density parameter at redshift
// z, relativistic part included.
func (b *Background) OmegaNCDM(z float64) (float64, error) {
	rho, err := b.RhoNCDM(z)
	if err != nil {
		return 0, err
	}
	crit, err := b.RhoCrit(z)
	if err != nil {
		return 0, err
	}
	return rho / crit, nil
}

// OmegaR returns the density parameter of everything radiation-like at
// redshift z: photons, massless neutrinos and the relativistic part of
// the massive ones (three times their pressure).
func (b *Background) OmegaR(z float64) (float64, error) {
	og, err := b.OmegaG(z)
	if err != nil {
		return 0, err
	}
	our, err := b.OmegaUR(z)
	if err != nil {
		return 0, err
	}
	p, err := b.PNCDM(z)
	if err != nil {
		return 0, err
	}
	crit, err := b.RhoCrit(z)
	if err != nil {
		return 0, err
	}
	return og + our + 3*p/crit, nil
}

// OmegaM returns the density parameter of everything matter-like at
// redshift z: baryons, cold dark matter and the non-relativistic part
// of the massive neutrinos.
func (b *Background) OmegaM(z float64) (float64, error) {
	ob, err := b.OmegaB(z)
	if err != nil {
		return 0, err
	}
	ocdm, err := b.OmegaCDM(z)
	if err != nil {
		return 0, err
	}
	oncdm, err := b.OmegaNCDM(z)
	if err != nil {
		return 0, err
	}
	p, err := b.PNCDM(z)
	if err != nil {
		return 0, err
	}
	crit, err := b.RhoCrit(z)
	if err != nil {
		return 0, err
	}
	return ob + ocdm + oncdm - 3*p/crit, nil
}
