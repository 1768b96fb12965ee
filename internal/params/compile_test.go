package params

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/cosmolab/internal/constants"
	"github.com/san-kum/cosmolab/internal/ncdm"
)

func compile(t *testing.T, raw map[string]any) *Params {
	t.Helper()
	if err := Check(raw); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	p, err := Compile(Merge(Defaults(), raw))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return p
}

func wantFloat(t *testing.T, p *Params, name string, want, tol float64) {
	t.Helper()
	got, err := p.Float(name)
	if err != nil {
		t.Fatalf("get %s failed: %v", name, err)
	}
	if math.Abs(got-want) > tol {
		t.Errorf("expected %s=%.10g, got %.10g", name, want, got)
	}
}

func TestCompileAliases(t *testing.T) {
	p := compile(t, map[string]any{
		"H0":        67.36,
		"omega_b":   0.02237,
		"Omega0_k":  0.01,
		"Omega_c":   0.26,
		"T0_cmb":    2.7,
	})

	h := 0.6736
	wantFloat(t, p, "h", h, 1e-12)
	wantFloat(t, p, "Omega_b", 0.02237/(h*h), 1e-12)
	wantFloat(t, p, "Omega_k", 0.01, 1e-12)
	wantFloat(t, p, "Omega_cdm", 0.26, 1e-12)
	wantFloat(t, p, "T_cmb", 2.7, 1e-12)
	if p.Has("H0") || p.Has("omega_b") || p.Has("Omega_c") {
		t.Error("expected aliases to be removed from the canonical mapping")
	}
	// derived lookups
	wantFloat(t, p, "H0", 67.36, 1e-10)
	wantFloat(t, p, "omega_b", 0.02237, 1e-12)
}

func TestCompileLnAmplitude(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "ln10^{10}A_s": 3.044})
	wantFloat(t, p, "A_s", math.Exp(3.044)*1e-10, 1e-22)
	wantFloat(t, p, "ln10^{10}A_s", 3.044, 1e-12)
	if p.Has("sigma8") {
		t.Error("expected sigma8 default to be dropped by A_s form")
	}
}

func TestCompilePhotonFractionFixesTemperature(t *testing.T) {
	base := compile(t, map[string]any{"h": 0.7})
	og, err := base.Float("Omega_g")
	if err != nil {
		t.Fatalf("get Omega_g failed: %v", err)
	}
	p := compile(t, map[string]any{"h": 0.7, "Omega_g": og})
	wantFloat(t, p, "T_cmb", constants.TCMB, 1e-9)
}

func TestCompileRejectsNonPositiveHubble(t *testing.T) {
	_, err := Compile(Merge(Defaults(), map[string]any{"h": -0.7}))
	if !errors.Is(err, ncdm.ErrUnphysical) {
		t.Errorf("expected an unphysical-input error, got %v", err)
	}
}

func TestCompileMassFromDensity(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "Omega_ncdm": 0.0014})
	masses, err := p.Floats("m_ncdm")
	if err != nil {
		t.Fatalf("get m_ncdm failed: %v", err)
	}
	if len(masses) != 1 {
		t.Fatalf("expected one species, got %d", len(masses))
	}
	// back through the integrator
	omega, err := p.Float("Omega_ncdm")
	if err != nil {
		t.Fatalf("get Omega_ncdm failed: %v", err)
	}
	if math.Abs(omega-0.0014) > 1e-10 {
		t.Errorf("expected Omega_ncdm=0.0014 back, got %.12g", omega)
	}
}

func TestCompileHierarchySplitsSum(t *testing.T) {
	p := compile(t, map[string]any{
		"h":                  0.7,
		"m_ncdm":             0.1,
		"neutrino_hierarchy": "normal",
	})
	masses, err := p.Floats("m_ncdm")
	if err != nil {
		t.Fatalf("get m_ncdm failed: %v", err)
	}
	if len(masses) != 3 {
		t.Fatalf("expected three species, got %d", len(masses))
	}
	sum := masses[0] + masses[1] + masses[2]
	if math.Abs(sum-0.1) > 1e-10 {
		t.Errorf("expected masses to sum to 0.1, got %.12g", sum)
	}
	ratios, err := p.Floats("T_ncdm")
	if err != nil {
		t.Fatalf("get T_ncdm failed: %v", err)
	}
	if len(ratios) != len(masses) {
		t.Errorf("expected %d temperature ratios, got %d", len(masses), len(ratios))
	}
}

func TestCompileHierarchyRejectsMassList(t *testing.T) {
	raw := Merge(Defaults(), map[string]any{
		"h":                  0.7,
		"m_ncdm":             []float64{0.02, 0.02, 0.02},
		"neutrino_hierarchy": "normal",
	})
	_, err := Compile(raw)
	if !errors.Is(err, ncdm.ErrUnphysical) {
		t.Errorf("expected an unphysical-input error, got %v", err)
	}
}

func TestCompileRejectsLengthMismatch(t *testing.T) {
	raw := Merge(Defaults(), map[string]any{
		"h":      0.7,
		"m_ncdm": []float64{0.02, 0.02},
		"T_ncdm": []float64{0.7, 0.7, 0.7},
	})
	_, err := Compile(raw)
	if !errors.Is(err, ncdm.ErrUnphysical) {
		t.Errorf("expected an unphysical-input error, got %v", err)
	}
}

func TestCompileRejectsNonNumericTemperatureRatio(t *testing.T) {
	raw := Merge(Defaults(), map[string]any{
		"h":      0.7,
		"T_ncdm": "warm",
		"m_ncdm": 0.06,
	})
	if _, err := Compile(raw); err == nil {
		t.Error("expected a type error for a non-numeric T_ncdm")
	}
}

func TestCompileRejectsNegativeMass(t *testing.T) {
	raw := Merge(Defaults(), map[string]any{"h": 0.7, "m_ncdm": -0.06})
	_, err := Compile(raw)
	if !errors.Is(err, ncdm.ErrUnphysical) {
		t.Errorf("expected an unphysical-input error, got %v", err)
	}
}

func TestCompileDerivesUltraRelativisticCount(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "m_ncdm": 0.06})
	want := constants.NEFF - math.Pow(constants.TNCDM, 4)*math.Pow(4.0/11.0, -4.0/3.0)
	wantFloat(t, p, "N_ur", want, 1e-12)
	// N_eff reconstructs from N_ur plus the massive species
	wantFloat(t, p, "N_eff", constants.NEFF, 1e-12)
}

func TestCompileKeepsExplicitNur(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "N_ur": 2.0, "m_ncdm": 0.06})
	wantFloat(t, p, "N_ur", 2.0, 0)
}

func TestCompileDropsSubThresholdSpecies(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "m_ncdm": 0.0001})
	masses, err := p.Floats("m_ncdm")
	if err != nil {
		t.Fatalf("get m_ncdm failed: %v", err)
	}
	if len(masses) != 0 {
		t.Errorf("expected the sub-threshold species to fold into N_ur, got %v", masses)
	}
	ratios, _ := p.Floats("T_ncdm")
	if len(ratios) != 0 {
		t.Errorf("expected temperature ratios to be filtered with the masses, got %v", ratios)
	}
	wantFloat(t, p, "N_ur", constants.NEFF, 1e-12)
}

func TestCompileMatterBackout(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "Omega_m": 0.3, "Omega_b": 0.05})
	ocdm, err := p.Float("Omega_cdm")
	if err != nil {
		t.Fatalf("get Omega_cdm failed: %v", err)
	}
	if math.Abs(ocdm-0.25) > 1e-12 {
		t.Errorf("expected Omega_cdm=0.25 with no massive neutrinos, got %.12g", ocdm)
	}
	if p.Has("Omega_m") {
		t.Error("expected Omega_m to leave the canonical mapping")
	}
}

func TestCompileRedshiftListAnchorsZero(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "z_pk": []float64{1, 2}})
	zpk, err := p.Floats("z_pk")
	if err != nil {
		t.Fatalf("get z_pk failed: %v", err)
	}
	found := false
	for _, z := range zpk {
		if z == 0 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected z_pk to contain 0, got %v", zpk)
	}

	p = compile(t, map[string]any{"h": 0.7})
	zpk, _ = p.Floats("z_pk")
	if len(zpk) != 1 || zpk[0] != 0 {
		t.Errorf("expected default z_pk=[0], got %v", zpk)
	}
}

func TestGetUnknownParameter(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7})
	if _, err := p.Get("Omega_quintessence"); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
	if v := p.GetDefault("Omega_quintessence", 0.1); v != 0.1 {
		t.Errorf("expected fallback 0.1, got %v", v)
	}
}

func TestASFid(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "sigma8": 0.87659})
	as, err := p.ASFid()
	if err != nil {
		t.Fatalf("ASFid failed: %v", err)
	}
	if math.Abs(as-2.43e-9) > 1e-20 {
		t.Errorf("expected fiducial A_s=2.43e-9 at the pivot sigma8, got %g", as)
	}

	p = compile(t, map[string]any{"h": 0.7, "A_s": 2.1e-9})
	as, _ = p.ASFid()
	if as != 2.1e-9 {
		t.Errorf("expected the explicit A_s back, got %g", as)
	}
}

func TestMapCopies(t *testing.T) {
	p := compile(t, map[string]any{"h": 0.7, "m_ncdm": 0.06})
	m := p.Map()
	if masses, ok := m["m_ncdm"].([]float64); ok && len(masses) > 0 {
		masses[0] = 99
	}
	fresh, _ := p.Floats("m_ncdm")
	if len(fresh) > 0 && fresh[0] == 99 {
		t.Error("expected Map to copy slice values")
	}
}
