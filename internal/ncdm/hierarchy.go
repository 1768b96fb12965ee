package ncdm

import (
	"fmt"
	"math"
)

// Hierarchy names the assumed ordering of the three neutrino mass states.
type Hierarchy string

const (
	HierarchyNone       Hierarchy = ""
	HierarchyNormal     Hierarchy = "normal"
	HierarchyInverted   Hierarchy = "inverted"
	HierarchyDegenerate Hierarchy = "degenerate"
)

// ParseHierarchy validates a hierarchy name.
func ParseHierarchy(s string) (Hierarchy, error) {
	switch h := Hierarchy(s); h {
	case HierarchyNone, HierarchyNormal, HierarchyInverted, HierarchyDegenerate:
		return h, nil
	default:
		return HierarchyNone, fmt.Errorf("%w: unknown neutrino hierarchy %q", ErrUnphysical, s)
	}
}

// Squared mass splittings from oscillation measurements
// (Lesgourgues & Pastor 2012).
const (
	deltaM21Sq         = 7.62e-5
	deltaM31SqNormal   = 2.55e-3
	deltaM31SqInverted = -2.43e-3

	// minSumInverted is the smallest summed mass the inverted ordering
	// can accommodate, in eV.
	minSumInverted = 0.0978

	sumTol = 1e-15
)

// SplitMass distributes a summed neutrino mass (eV) over three species
// according to the named hierarchy. The returned masses satisfy the
// oscillation mass-squared splittings and sum to the input.
func SplitMass(sum float64, h Hierarchy) ([]float64, error) {
	if sum < 0 {
		return nil, fmt.Errorf("%w: sum of neutrino masses must be positive, got %g", ErrUnphysical, sum)
	}

	switch h {
	case HierarchyDegenerate:
		return []float64{sum / 3, sum / 3, sum / 3}, nil

	case HierarchyNormal:
		if sum*sum < deltaM21Sq+deltaM31SqNormal {
			return nil, fmt.Errorf("%w: normal hierarchy requires a summed mass above ~0.0592 eV, got %g",
				ErrUnphysical, sum)
		}
		// m1 < m2 < m3; m2 and m3 follow from m1 through the splittings.
		m := []float64{0, math.Sqrt(deltaM21Sq), math.Sqrt(deltaM31SqNormal)}
		return solveSplit(sum, m, func(m1 float64) (float64, float64) {
			return math.Sqrt(m1*m1 + deltaM21Sq), math.Sqrt(m1*m1 + deltaM31SqNormal)
		})

	case HierarchyInverted:
		if sum < minSumInverted {
			return nil, fmt.Errorf("%w: inverted hierarchy requires a summed mass above ~0.0978 eV, got %g",
				ErrUnphysical, sum)
		}
		// Two near-degenerate heavy states m1 < m2, light third state m3.
		m1 := math.Sqrt(-deltaM31SqInverted - deltaM21Sq)
		m := []float64{m1, math.Sqrt(m1*m1 + deltaM21Sq), 1e-5}
		return solveSplit(sum, m, func(m1 float64) (float64, float64) {
			m2 := math.Sqrt(m1*m1 + deltaM21Sq)
			// The radicand vanishes at the minimum summed mass; clamp so
			// the boundary iterates stay real.
			r := m1*m1 + deltaM21Sq + deltaM31SqInverted
			if r < 0 {
				r = 0
			}
			return m2, math.Sqrt(r)
		})

	default:
		return nil, fmt.Errorf("%w: unknown neutrino hierarchy %q", ErrUnphysical, string(h))
	}
}

// solveSplit runs Newton iteration on the lowest independent mass:
// s = m1 + m2(m1) + m3(m1), with ds/dm1 = 1 + m1/m2 + m1/m3.
func solveSplit(sum float64, m []float64, next func(m1 float64) (float64, float64)) ([]float64, error) {
	for i := 0; i < maxNewtonIter; i++ {
		total := m[0] + m[1] + m[2]
		if math.Abs(sum-total) <= sumTol {
			return m, nil
		}
		d := 1 + m[0]/m[1]
		if m[2] > 0 {
			d += m[0] / m[2]
		}
		m[0] += (sum - total) / d
		m[1], m[2] = next(m[0])
		if math.IsNaN(m[1]) || math.IsNaN(m[2]) {
			return nil, fmt.Errorf("%w: hierarchy split for sum=%g", ErrNoConvergence, sum)
		}
	}
	return nil, fmt.Errorf("%w: hierarchy split for sum=%g", ErrNoConvergence, sum)
}
