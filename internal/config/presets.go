package config

// Presets are well-known parameter sets. Values are raw inputs, not
// canonical ones; compilation resolves the aliases.
var Presets = map[string]*Config{
	"planck18": {
		Engine: "analytic",
		Params: map[string]any{
			"omega_b":      0.02237,
			"omega_cdm":    0.1200,
			"h":            0.6736,
			"ln10^{10}A_s": 3.044,
			"n_s":          0.9649,
			"tau_reio":     0.0544,
			"m_ncdm":       0.06,
		},
	},
	"wmap9": {
		Engine: "analytic",
		Params: map[string]any{
			"Omega_b":   0.0463,
			"Omega_cdm": 0.233,
			"h":         0.693,
			"sigma8":    0.821,
			"n_s":       0.972,
			"tau_reio":  0.089,
		},
	},
	"eds": {
		// Einstein-de Sitter: flat, matter only, radiation negligible.
		Engine: "analytic",
		Params: map[string]any{
			"Omega_b":   0.05,
			"Omega_cdm": 0.95,
			"h":         0.7,
			"N_eff":     0.0,
			"T_cmb":     1e-6,
		},
	},
	"massive-nu": {
		// Three massive species split from a 0.1 eV sum.
		Engine: "analytic",
		Params: map[string]any{
			"omega_b":            0.02237,
			"omega_cdm":          0.1200,
			"h":                  0.6736,
			"m_ncdm":             0.1,
			"neutrino_hierarchy": "normal",
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
