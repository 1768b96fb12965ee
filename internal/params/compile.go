package params

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/cosmolab/internal/constants"
	"github.com/san-kum/cosmolab/internal/ncdm"
)

// setAliases maps accepted one-to-one spellings onto canonical names.
var setAliases = [][2]string{
	{"T_cmb", "T0_cmb"},
	{"Omega_m", "Omega0_m"},
	{"Omega_cdm", "Omega0_cdm"},
	{"Omega_cdm", "Omega_c"},
	{"Omega_ncdm", "Omega0_ncdm"},
	{"Omega_b", "Omega0_b"},
	{"Omega_k", "Omega0_k"},
	{"Omega_ur", "Omega0_ur"},
	{"Omega_Lambda", "Omega_lambda"},
	{"Omega_Lambda", "Omega0_lambda"},
	{"Omega_Lambda", "Omega0_Lambda"},
	{"Omega_fld", "Omega0_fld"},
	{"Omega_g", "Omega0_g"},
}

// Compile turns a raw, conflict-free parameter mapping into the
// canonical one: it normalizes aliases (H0 to h, omega_X to Omega_X),
// resolves the neutrino content into per-species masses and
// temperature ratios, reconciles N_eff against the massive species to
// fix N_ur, backs out Omega_cdm when a total matter fraction was given,
// and guarantees the output-redshift list contains z=0. The input is
// not modified; compilation either fully succeeds or returns an error
// with nothing observable changed.
func Compile(raw map[string]any) (*Params, error) {
	values := cloneValues(raw)

	if v, ok := values["H0"]; ok {
		h0, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("params: H0 is not numeric (got %T)", v)
		}
		delete(values, "H0")
		values["h"] = h0 / 100
	}
	h, ok := asFloat(values["h"])
	if !ok {
		return nil, fmt.Errorf("%w: h", ErrUnknown)
	}
	if h <= 0 {
		return nil, fmt.Errorf("%w: h must be positive, got %g", ncdm.ErrUnphysical, h)
	}
	values["h"] = h

	// omega_X = Omega_X h^2, scalar or per-species list.
	for _, name := range keysWithPrefix(values, "omega") {
		v := values[name]
		delete(values, name)
		canonical := "O" + name[1:]
		if fs, ok := asFloats(v); ok && !isScalar(v) {
			scaled := make([]float64, len(fs))
			for i, f := range fs {
				scaled[i] = f / (h * h)
			}
			values[canonical] = scaled
			continue
		}
		f, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("params: %s is not numeric (got %T)", name, v)
		}
		values[canonical] = f / (h * h)
	}

	for _, alias := range setAliases {
		if v, ok := values[alias[1]]; ok {
			delete(values, alias[1])
			values[alias[0]] = v
		}
	}

	if v, ok := values["ln10^{10}A_s"]; ok {
		ln, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("params: ln10^{10}A_s is not numeric (got %T)", v)
		}
		delete(values, "ln10^{10}A_s")
		values["A_s"] = math.Exp(ln) * 1e-10
	}

	// An explicit photon fraction fixes the CMB temperature instead.
	if v, ok := values["Omega_g"]; ok {
		og, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("params: Omega_g is not numeric (got %T)", v)
		}
		delete(values, "Omega_g")
		values["T_cmb"] = math.Pow(og*h*h*constants.RhoCritKgPerM3/radiationDensity, 0.25)
	}

	tCMB, ok := asFloat(values["T_cmb"])
	if !ok {
		tCMB = constants.TCMB
		values["T_cmb"] = tCMB
	}

	ratios := []float64{constants.TNCDM}
	if v, present := values["T_ncdm"]; present && v != nil {
		fs, ok := asFloats(v)
		if !ok {
			return nil, fmt.Errorf("params: T_ncdm is not numeric (got %T)", v)
		}
		ratios = fs
	}

	// Resolve the massive content: explicit masses, density fractions
	// inverted per species, or none.
	var masses []float64
	singleNcdm := false
	switch {
	case values["m_ncdm"] != nil:
		v := values["m_ncdm"]
		delete(values, "m_ncdm")
		singleNcdm = isScalar(v)
		masses, ok = asFloats(v)
		if !ok {
			return nil, fmt.Errorf("params: m_ncdm is not numeric (got %T)", v)
		}

	case values["Omega_ncdm"] != nil:
		v := values["Omega_ncdm"]
		delete(values, "Omega_ncdm")
		singleNcdm = isScalar(v)
		omegas, ok := asFloats(v)
		if !ok {
			return nil, fmt.Errorf("params: Omega_ncdm is not numeric (got %T)", v)
		}
		if len(ratios) == 1 && len(omegas) > 1 {
			ratios = broadcast(ratios[0], len(omegas))
		}
		if len(ratios) != len(omegas) {
			return nil, fmt.Errorf("%w: T_ncdm and Omega_ncdm must be of same length (%d != %d)",
				ncdm.ErrUnphysical, len(ratios), len(omegas))
		}
		masses = make([]float64, len(omegas))
		for i, omega := range omegas {
			m, err := ncdm.SolveMass(omega*h*h, tCMB*ratios[i])
			if err != nil {
				return nil, err
			}
			masses[i] = m
		}

	default:
		delete(values, "m_ncdm")
		delete(values, "Omega_ncdm")
		masses = []float64{}
	}

	if len(ratios) == 1 && len(masses) != 1 {
		ratios = broadcast(ratios[0], len(masses))
	}
	if len(ratios) != len(masses) {
		return nil, fmt.Errorf("%w: T_ncdm and m_ncdm must be of same length (%d != %d)",
			ncdm.ErrUnphysical, len(ratios), len(masses))
	}

	hierarchy := ncdm.HierarchyNone
	if v, ok := values["neutrino_hierarchy"]; ok {
		delete(values, "neutrino_hierarchy")
		if v != nil {
			name, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("params: neutrino_hierarchy is not a string (got %T)", v)
			}
			parsed, err := ncdm.ParseHierarchy(name)
			if err != nil {
				return nil, err
			}
			hierarchy = parsed
		}
	}
	if hierarchy != ncdm.HierarchyNone {
		if !singleNcdm {
			return nil, fmt.Errorf("%w: neutrino_hierarchy %q cannot be combined with a mass list, only with a sum",
				ncdm.ErrUnphysical, hierarchy)
		}
		var err error
		masses, err = ncdm.SplitMass(masses[0], hierarchy)
		if err != nil {
			return nil, err
		}
		ratios = broadcast(ratios[0], len(masses))
	} else {
		for _, m := range masses {
			if m < 0 {
				return nil, fmt.Errorf("%w: negative neutrino mass %g eV", ncdm.ErrUnphysical, m)
			}
		}
	}

	// Fix N_ur: directly, from an explicit ultra-relativistic density
	// fraction, or by removing the massive species from N_eff.
	nur, haveNur := 0.0, false
	if v, ok := values["N_ur"]; ok {
		nur, ok = asFloat(v)
		if !ok {
			return nil, fmt.Errorf("params: N_ur is not numeric (got %T)", v)
		}
		haveNur = true
	}
	if v, ok := values["Omega_ur"]; ok {
		our, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("params: Omega_ur is not numeric (got %T)", v)
		}
		delete(values, "Omega_ur")
		tur := tCMB * math.Cbrt(4.0/11.0)
		rho := 7.0 / 8 * tur * tur * tur * tur * radiationDensity
		nur = our / (rho / (h * h * constants.RhoCritKgPerM3))
		haveNur = true
	}
	if haveNur {
		delete(values, "N_eff")
		if nur < 0 {
			return nil, fmt.Errorf("%w: N_ur must not be negative, got %g", ncdm.ErrUnphysical, nur)
		}
	} else {
		nEff := constants.NEFF
		if v, ok := values["N_eff"]; ok {
			nEff, ok = asFloat(v)
			if !ok {
				return nil, fmt.Errorf("params: N_eff is not numeric (got %T)", v)
			}
			delete(values, "N_eff")
		}
		species := make([]ncdm.Species, len(masses))
		for i := range masses {
			species[i] = ncdm.Species{Mass: masses[i], TRatio: ratios[i]}
		}
		var kept []ncdm.Species
		var err error
		nur, kept, err = ncdm.UltraRelativistic(nEff, species)
		if err != nil {
			return nil, err
		}
		masses = make([]float64, len(kept))
		ratios = make([]float64, len(kept))
		for i, s := range kept {
			masses[i] = s.Mass
			ratios[i] = s.TRatio
		}
	}

	values["N_ur"] = nur
	values["m_ncdm"] = masses
	values["T_ncdm"] = ratios

	// z=0 anchors the power-spectrum amplitude normalization.
	zpk, ok := asFloats(values["z_pk"])
	if !ok {
		zpk = []float64{0}
	}
	hasZero := false
	for _, z := range zpk {
		if z == 0 {
			hasZero = true
			break
		}
	}
	if !hasZero {
		zpk = append(zpk, 0)
	}
	values["z_pk"] = zpk

	p := &Params{values: values}
	if _, ok := values["modes"]; !ok {
		values["modes"] = "s"
	}
	modes, err := p.Strings("modes")
	if err != nil {
		return nil, err
	}
	values["modes"] = modes

	// A total matter fraction fixes Omega_cdm after subtracting baryons
	// and the non-relativistic neutrino part (rho - 3p).
	if v, ok := values["Omega_m"]; ok {
		om, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("params: Omega_m is not numeric (got %T)", v)
		}
		delete(values, "Omega_m")
		ob, ok := asFloat(values["Omega_b"])
		if !ok {
			return nil, fmt.Errorf("%w: Omega_b", ErrUnknown)
		}
		rho, err := p.RhoNCDM(0)
		if err != nil {
			return nil, err
		}
		pr, err := p.PNCDM(0)
		if err != nil {
			return nil, err
		}
		nonrel := (rho - 3*pr) / constants.RhoCritMsunPerMpc3
		values["Omega_cdm"] = om - ob - nonrel
	}

	// Eager so concurrent readers never race on a lazy cache.
	rho, err := p.RhoNCDM(0)
	if err != nil {
		return nil, err
	}
	p.omegaNcdm = rho / constants.RhoCritMsunPerMpc3
	return p, nil
}

func keysWithPrefix(values map[string]any, prefix string) []string {
	var names []string
	for name := range values {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}

func broadcast(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
