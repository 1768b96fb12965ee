package ncdm

import (
	"fmt"
	"math"
)

// NonRelativisticMass is the rest mass in eV above which a species is
// counted as massive rather than ultra-relativistic today
// (Lesgourgues et al. 2012).
const NonRelativisticMass = 0.00017

// UltraRelativistic derives the number of massless species N_ur from the
// total effective number N_eff by removing the relativistic contribution
// of every species above the non-relativistic mass threshold. Species at
// or below the threshold fold back into N_ur and are dropped from the
// returned list.
func UltraRelativistic(nEff float64, species []Species) (float64, []Species, error) {
	nur := nEff
	kept := make([]Species, 0, len(species))
	for _, s := range species {
		if s.Mass > NonRelativisticMass {
			// arXiv:1812.05995 eq. 84
			nur -= math.Pow(s.TRatio, 4) * math.Pow(4.0/11.0, -4.0/3.0)
			kept = append(kept, s)
		}
	}
	if nur < 0 {
		return 0, nil, fmt.Errorf("%w: N_eff=%g leaves a negative number of relativistic species (N_ur=%g)",
			ErrUnphysical, nEff, nur)
	}
	return nur, kept, nil
}
