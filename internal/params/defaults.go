package params

import "github.com/san-kum/cosmolab/internal/constants"

// DefaultCosmology returns the fiducial cosmological parameters used to
// fill in whatever the caller leaves unspecified. The amplitude default
// is sigma8 rather than A_s; supplying either drops the other during
// merging.
func DefaultCosmology() map[string]any {
	return map[string]any{
		"h":                  0.7,
		"Omega_cdm":          0.25,
		"Omega_b":            0.05,
		"Omega_k":            0.0,
		"sigma8":             0.8,
		"k_pivot":            0.05,
		"n_s":                0.96,
		"alpha_s":            0.0,
		"r":                  0.0,
		"T_cmb":              constants.TCMB,
		"T_ncdm":             constants.TNCDM,
		"N_eff":              constants.NEFF,
		"tau_reio":           0.06,
		"reionization_width": 0.5,
		"A_L":                1.0,
		"w0_fld":             -1.0,
		"wa_fld":             0.0,
		"cs2_fld":            1.0,
	}
}

// DefaultCalculation returns the default calculation settings.
func DefaultCalculation() map[string]any {
	return map[string]any{
		"non_linear": "",
		"modes":      "s",
		"lensing":    false,
		"kmax_pk":    10.0,
		"ellmax_cl":  2500,
	}
}

// Defaults returns the combined cosmological and calculation defaults.
func Defaults() map[string]any {
	merged := DefaultCosmology()
	for name, value := range DefaultCalculation() {
		merged[name] = value
	}
	return merged
}
