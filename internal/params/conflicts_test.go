package params

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckConflict(t *testing.T) {
	err := Check(map[string]any{"h": 0.7, "H0": 70.0})
	if err == nil {
		t.Fatal("expected a conflict error for h together with H0")
	}
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	for _, name := range []string{"h", "H0"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected error to name %q, got %q", name, err.Error())
		}
	}
}

func TestCheckCleanInput(t *testing.T) {
	raw := map[string]any{
		"h":       0.7,
		"omega_b": 0.022,
		"m_ncdm":  0.06,
		"n_s":     0.96,
	}
	if err := Check(raw); err != nil {
		t.Errorf("expected no conflict, got %v", err)
	}
}

func TestFindConflicts(t *testing.T) {
	group := FindConflicts("omega_cdm")
	found := false
	for _, name := range group {
		if name == "Omega_c" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected omega_cdm group to contain Omega_c, got %v", group)
	}
	if FindConflicts("n_s") != nil {
		t.Errorf("expected no group for n_s, got %v", FindConflicts("n_s"))
	}
}

func TestMergeDropsConflictGroup(t *testing.T) {
	base := map[string]any{"H0": 70.0, "Omega_b": 0.05}
	override := map[string]any{"h": 0.72}

	merged := Merge(base, override)

	if _, ok := merged["H0"]; ok {
		t.Error("expected H0 to be dropped when h overrides it")
	}
	if merged["h"] != 0.72 {
		t.Errorf("expected h=0.72, got %v", merged["h"])
	}
	if merged["Omega_b"] != 0.05 {
		t.Errorf("expected Omega_b to survive, got %v", merged["Omega_b"])
	}
	if _, ok := base["h"]; ok {
		t.Error("expected base to be left untouched")
	}
	if base["H0"] != 70.0 {
		t.Error("expected base H0 to be left untouched")
	}
}
