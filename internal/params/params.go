// Package params normalizes a redundant, physicist-friendly set of
// cosmological parameter names into one canonical, internally
// consistent mapping: it detects aliases of the same physical quantity
// supplied together, converts accepted aliases to canonical names, and
// reconciles the massive-neutrino content (masses, density fractions,
// hierarchy, effective species counts) through the phase-space
// mathematics of the ncdm package.
package params

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/cosmolab/internal/constants"
	"github.com/san-kum/cosmolab/internal/ncdm"
)

// Params is a compiled, canonical parameter mapping. It is immutable
// after compilation: derived quantities are either answered from fixed
// canonical values or were computed eagerly by Compile, so concurrent
// readers need no synchronization.
type Params struct {
	values map[string]any

	// omegaNcdm is rho_ncdm(z=0)/rho_crit, fixed at compile time.
	omegaNcdm float64
}

// Has reports whether name is stored directly in the canonical mapping.
func (p *Params) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Get returns a canonical parameter, or one of the quantities easily
// derived from canonical values (H0, omega_*, Omega_g, Omega_ur,
// Omega_r, Omega_ncdm, Omega_m, T_ur, N_ncdm, N_eff, ln10^{10}A_s).
func (p *Params) Get(name string) (any, error) {
	if v, ok := p.values[name]; ok {
		return v, nil
	}
	h := p.mustFloat("h")
	switch {
	case strings.HasPrefix(name, "omega"):
		v, err := p.Get("O" + name[1:])
		if err != nil {
			return nil, err
		}
		if vs, ok := asFloats(v); ok && !isScalar(v) {
			scaled := make([]float64, len(vs))
			for i, x := range vs {
				scaled[i] = x * h * h
			}
			return scaled, nil
		}
		x, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("params: %s is not numeric", "O"+name[1:])
		}
		return x * h * h, nil
	case name == "H0":
		return h * 100, nil
	case name == "ln10^{10}A_s":
		as, err := p.Float("A_s")
		if err != nil {
			return nil, err
		}
		return math.Log(1e10 * as), nil
	case name == "Omega_g":
		t := p.mustFloat("T_cmb")
		rho := t * t * t * t * radiationDensity
		return rho / (h * h * constants.RhoCritKgPerM3), nil
	case name == "T_ur":
		return p.mustFloat("T_cmb") * math.Cbrt(4.0/11.0), nil
	case name == "Omega_ur":
		tur, _ := p.Float("T_ur")
		rho := p.mustFloat("N_ur") * 7.0 / 8 * tur * tur * tur * tur * radiationDensity
		return rho / (h * h * constants.RhoCritKgPerM3), nil
	case name == "Omega_r":
		t := p.mustFloat("T_cmb")
		tur, _ := p.Float("T_ur")
		rho := (t*t*t*t + p.mustFloat("N_ur")*7.0/8*tur*tur*tur*tur) * radiationDensity
		return rho / (h * h * constants.RhoCritKgPerM3), nil
	case name == "Omega_ncdm":
		return p.omegaNcdm, nil
	case name == "Omega_m":
		ob := p.mustFloat("Omega_b")
		ocdm := p.mustFloat("Omega_cdm")
		return ob + ocdm + p.omegaNcdm, nil
	case name == "N_ncdm":
		return len(p.mustFloats("m_ncdm")), nil
	case name == "N_eff":
		neff := p.mustFloat("N_ur")
		for _, t := range p.mustFloats("T_ncdm") {
			neff += math.Pow(t, 4) * math.Pow(4.0/11.0, -4.0/3.0)
		}
		return neff, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
}

// GetDefault is Get with a fallback for names that have no definition.
func (p *Params) GetDefault(name string, fallback any) any {
	v, err := p.Get(name)
	if err != nil {
		return fallback
	}
	return v
}

// Float returns a parameter coerced to float64.
func (p *Params) Float(name string) (float64, error) {
	v, err := p.Get(name)
	if err != nil {
		return 0, err
	}
	f, ok := asFloat(v)
	if !ok {
		return 0, fmt.Errorf("params: %s is not numeric (got %T)", name, v)
	}
	return f, nil
}

// Floats returns a parameter coerced to a float64 slice.
func (p *Params) Floats(name string) ([]float64, error) {
	v, err := p.Get(name)
	if err != nil {
		return nil, err
	}
	fs, ok := asFloats(v)
	if !ok {
		return nil, fmt.Errorf("params: %s is not a numeric list (got %T)", name, v)
	}
	return fs, nil
}

// String returns a parameter coerced to a string.
func (p *Params) String(name string) (string, error) {
	v, err := p.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("params: %s is not a string (got %T)", name, v)
	}
	return s, nil
}

// Strings returns a parameter coerced to a string slice.
func (p *Params) Strings(name string) ([]string, error) {
	v, err := p.Get(name)
	if err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case []string:
		return s, nil
	case string:
		return []string{s}, nil
	case []any:
		out := make([]string, len(s))
		for i, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("params: %s is not a string list (got %T)", name, e)
			}
			out[i] = str
		}
		return out, nil
	}
	return nil, fmt.Errorf("params: %s is not a string list (got %T)", name, v)
}

// Bool returns a parameter coerced to bool.
func (p *Params) Bool(name string) (bool, error) {
	v, err := p.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("params: %s is not a bool (got %T)", name, v)
	}
	return b, nil
}

// NeutrinoSpecies returns the massive relic species as (mass,
// temperature-ratio) pairs. The returned slice is fresh on every call.
func (p *Params) NeutrinoSpecies() []ncdm.Species {
	masses := p.mustFloats("m_ncdm")
	ratios := p.mustFloats("T_ncdm")
	species := make([]ncdm.Species, len(masses))
	for i := range masses {
		species[i] = ncdm.Species{Mass: masses[i], TRatio: ratios[i]}
	}
	return species
}

// RhoNCDM returns the total massive-neutrino energy density at redshift
// z, in 1e10 Msun/h / (Mpc/h)^3.
func (p *Params) RhoNCDM(z float64) (float64, error) {
	h := p.mustFloat("h")
	rho, err := ncdm.RhoTotal(p.mustFloat("T_cmb"), p.NeutrinoSpecies(), z, ncdm.DefaultEpsRel)
	if err != nil {
		return 0, err
	}
	return rho / (h * h), nil
}

// PNCDM returns the total massive-neutrino pressure at redshift z, in
// 1e10 Msun/h / (Mpc/h)^3.
func (p *Params) PNCDM(z float64) (float64, error) {
	h := p.mustFloat("h")
	pr, err := ncdm.PressureTotal(p.mustFloat("T_cmb"), p.NeutrinoSpecies(), z, ncdm.DefaultEpsRel)
	if err != nil {
		return 0, err
	}
	return pr / (h * h), nil
}

// ASFid returns the primordial amplitude A_s, or the standard
// sigma8-based first guess when only sigma8 backs the amplitude.
func (p *Params) ASFid() (float64, error) {
	if as, ok := p.values["A_s"]; ok {
		f, _ := asFloat(as)
		return f, nil
	}
	s8, err := p.Float("sigma8")
	if err != nil {
		return 0, err
	}
	return 2.43e-9 * (s8 / 0.87659) * (s8 / 0.87659), nil
}

// Map returns a copy of the canonical mapping; slice values are copied
// so the caller cannot alias compiled state.
func (p *Params) Map() map[string]any {
	return cloneValues(p.values)
}

// radiationDensity is 4 sigma_SB / c^3: photon energy density per T^4,
// in kg/m^3/K^4.
const radiationDensity = 4 / (constants.SpeedOfLight * constants.SpeedOfLight * constants.SpeedOfLight) *
	constants.StefanBoltzmann

func (p *Params) mustFloat(name string) float64 {
	f, ok := asFloat(p.values[name])
	if !ok {
		return math.NaN()
	}
	return f
}

func (p *Params) mustFloats(name string) []float64 {
	fs, ok := asFloats(p.values[name])
	if !ok {
		return nil
	}
	return fs
}

// asFloat coerces the numeric types that YAML and JSON decoding
// produce for scalars.
func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// asFloats coerces numeric list shapes; a scalar coerces to a
// one-element list.
func asFloats(v any) ([]float64, bool) {
	switch xs := v.(type) {
	case []float64:
		return xs, true
	case []any:
		out := make([]float64, len(xs))
		for i, e := range xs {
			f, ok := asFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	case []int:
		out := make([]float64, len(xs))
		for i, e := range xs {
			out[i] = float64(e)
		}
		return out, true
	}
	if f, ok := asFloat(v); ok {
		return []float64{f}, true
	}
	return nil, false
}

// isScalar reports whether v is a single numeric value rather than a list.
func isScalar(v any) bool {
	_, ok := asFloat(v)
	return ok
}

func cloneValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, value := range values {
		switch xs := value.(type) {
		case []float64:
			out[name] = append([]float64(nil), xs...)
		case []string:
			out[name] = append([]string(nil), xs...)
		case []any:
			out[name] = append([]any(nil), xs...)
		default:
			out[name] = value
		}
	}
	return out
}
