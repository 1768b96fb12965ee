package cosmology

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/cosmolab/internal/params"
)

func TestNewRejectsConflicts(t *testing.T) {
	_, err := New(map[string]any{"h": 0.7, "H0": 70.0})
	if !errors.Is(err, params.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestInputsWinOverDefaults(t *testing.T) {
	c, err := New(map[string]any{"H0": 70.0})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	h, err := c.Params().Float("h")
	if err != nil {
		t.Fatalf("get h failed: %v", err)
	}
	if math.Abs(h-0.7) > 1e-12 {
		t.Errorf("expected h=0.7 from H0=70, got %.12g", h)
	}
}

func TestClonePrecedence(t *testing.T) {
	base, err := New(map[string]any{"H0": 70.0})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	clone, err := base.Clone(map[string]any{"h": 0.72})
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	h, err := clone.Params().Float("h")
	if err != nil {
		t.Fatalf("get h failed: %v", err)
	}
	if h != 0.72 {
		t.Errorf("expected clone h=0.72, got %g", h)
	}
	if clone.Params().Has("H0") {
		t.Error("expected no H0 entry after the clone override")
	}

	// base stays what it was
	h, _ = base.Params().Float("h")
	if math.Abs(h-0.7) > 1e-12 {
		t.Errorf("expected base h=0.7 untouched, got %.12g", h)
	}
}

func TestBackgroundDefaultsToAnalytic(t *testing.T) {
	c, err := New(map[string]any{"h": 0.7})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	bg, err := c.Background()
	if err != nil {
		t.Fatalf("background failed: %v", err)
	}
	e, err := bg.Efunc(0)
	if err != nil {
		t.Fatalf("efunc failed: %v", err)
	}
	if math.Abs(e-1) > 1e-10 {
		t.Errorf("expected E(0)=1, got %.12g", e)
	}
	if c.Engine() == nil || c.Engine().Name() != "analytic" {
		t.Error("expected the analytic engine to be attached on demand")
	}
}

func TestStateRoundTrip(t *testing.T) {
	c, err := New(map[string]any{"h": 0.6736, "omega_b": 0.02237, "m_ncdm": 0.06})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if err := c.SetEngine("analytic", nil); err != nil {
		t.Fatalf("set engine failed: %v", err)
	}

	restored, err := FromState(c.State())
	if err != nil {
		t.Fatalf("from state failed: %v", err)
	}

	for _, name := range []string{"h", "Omega_b", "N_ur", "Omega_ncdm"} {
		want, err := c.Params().Float(name)
		if err != nil {
			t.Fatalf("get %s failed: %v", name, err)
		}
		got, err := restored.Params().Float(name)
		if err != nil {
			t.Fatalf("restored get %s failed: %v", name, err)
		}
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("%s: expected %.12g after the round trip, got %.12g", name, want, got)
		}
	}
	if restored.Engine() == nil || restored.Engine().Name() != "analytic" {
		t.Error("expected the engine to be re-attached from the state")
	}
}
