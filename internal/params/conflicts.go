package params

import (
	"fmt"
	"sort"
	"strings"
)

// conflictGroups partitions the recognized alias namespace: every group
// lists input names that describe the same physical quantity in
// different units or forms, so at most one per group may be supplied.
var conflictGroups = [][]string{
	{"h", "H0"},
	{"T_cmb", "Omega_g", "omega_g", "Omega0_g"},
	{"Omega_b", "omega_b", "Omega0_b"},
	{"N_ur", "Omega_ur", "omega_ur", "Omega0_ur", "N_eff"},
	{"Omega_cdm", "omega_cdm", "Omega0_cdm", "Omega_c", "omega_c"},
	{"m_ncdm", "Omega_ncdm", "omega_ncdm", "Omega0_ncdm"},
	{"A_s", "ln10^{10}A_s", "sigma8"},
	{"tau_reio", "z_reio"},
}

// FindConflicts returns every name mutually exclusive with the given
// one, the name itself included, or nil for unrecognized names.
func FindConflicts(name string) []string {
	for _, group := range conflictGroups {
		for _, n := range group {
			if n == name {
				return group
			}
		}
	}
	return nil
}

// Check rejects a raw parameter mapping that carries two or more names
// from the same conflict group, listing every clashing name found.
func Check(raw map[string]any) error {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		clash := []string{name}
		for _, eq := range FindConflicts(name) {
			if eq == name {
				continue
			}
			if _, ok := raw[eq]; ok {
				clash = append(clash, eq)
			}
		}
		if len(clash) > 1 {
			return fmt.Errorf("%w: %s", ErrConflict, strings.Join(clash, ", "))
		}
	}
	return nil
}

// Merge overlays override onto base and returns a new mapping, leaving
// both inputs untouched. Every base name conflicting with any override
// name is dropped first, so overrides win on a conflict-group basis,
// not just a name basis.
func Merge(base, override map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(override))
	for name, value := range base {
		merged[name] = value
	}
	for name := range override {
		for _, eq := range FindConflicts(name) {
			delete(merged, eq)
		}
	}
	for name, value := range override {
		merged[name] = value
	}
	return merged
}
