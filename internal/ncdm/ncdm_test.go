package ncdm_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cosmolab/internal/constants"
	"github.com/san-kum/cosmolab/internal/ncdm"
)

var _ = Describe("Momenta", func() {
	tEff := constants.TCMB * constants.TNCDM

	It("scales as T^4 for a massless species", func() {
		rho1, err := ncdm.Momenta(tEff, 0, 0, 1e-9, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		rho2, err := ncdm.Momenta(2*tEff, 0, 0, 1e-9, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		Expect(rho2 / rho1).To(BeNumerically("~", 16, 1e-6))
	})

	It("redshifts a massless species as (1+z)^4", func() {
		rho0, err := ncdm.Momenta(tEff, 0, 0, 1e-9, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		rho3, err := ncdm.Momenta(tEff, 0, 3, 1e-9, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		Expect(rho3 / rho0).To(BeNumerically("~", 256, 1e-6))
	})

	It("gives radiation pressure rho/3 at zero mass", func() {
		rho, err := ncdm.Momenta(tEff, 0, 0, 1e-9, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		p, err := ncdm.Momenta(tEff, 0, 0, 1e-9, ncdm.Pressure)
		Expect(err).NotTo(HaveOccurred())
		Expect(3 * p / rho).To(BeNumerically("~", 1, 1e-8))
	})

	It("increases the energy density with mass", func() {
		rho0, err := ncdm.Momenta(tEff, 0, 0, 1e-9, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		rho, err := ncdm.Momenta(tEff, 0.06, 0, 1e-9, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		Expect(rho).To(BeNumerically(">", rho0))
	})

	It("matches a finite difference of the density in the mass derivative", func() {
		const m, dm = 0.06, 1e-5
		hi, err := ncdm.Momenta(tEff, m+dm, 0, 1e-10, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		lo, err := ncdm.Momenta(tEff, m-dm, 0, 1e-10, ncdm.Rho)
		Expect(err).NotTo(HaveOccurred())
		want := (hi - lo) / (2 * dm)
		got, err := ncdm.Momenta(tEff, m, 0, 1e-10, ncdm.DRhoDM)
		Expect(err).NotTo(HaveOccurred())
		Expect(got / want).To(BeNumerically("~", 1, 1e-4))
	})
})

var _ = Describe("SolveMass", func() {
	tEff := constants.TCMB * constants.TNCDM

	It("returns zero mass for zero density without iterating", func() {
		m, err := ncdm.SolveMass(0, tEff)
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(0.0))
	})

	It("rejects a negative density fraction", func() {
		_, err := ncdm.SolveMass(-1e-4, tEff)
		Expect(err).To(MatchError(ncdm.ErrUnphysical))
	})

	It("recovers the 93.14 eV per omega rule of thumb", func() {
		const m = 0.06
		omega, err := ncdm.OmegaFromMass(tEff, m)
		Expect(err).NotTo(HaveOccurred())
		Expect(omega * 93.14 / m).To(BeNumerically("~", 1, 0.01))
	})

	It("round-trips density to mass to density", func() {
		for _, omega := range []float64{1e-4, 6.4e-4, 5e-3, 0.1} {
			m, err := ncdm.SolveMass(omega, tEff)
			Expect(err).NotTo(HaveOccurred())
			check, err := ncdm.OmegaFromMass(tEff, m)
			Expect(err).NotTo(HaveOccurred())
			Expect(check / omega).To(BeNumerically("~", 1, 1e-10))
		}
	})
})

var _ = Describe("SplitMass", func() {
	It("rejects an unknown hierarchy name", func() {
		_, err := ncdm.ParseHierarchy("sideways")
		Expect(err).To(MatchError(ncdm.ErrUnphysical))
	})

	It("rejects a negative summed mass", func() {
		_, err := ncdm.SplitMass(-0.1, ncdm.HierarchyNormal)
		Expect(err).To(MatchError(ncdm.ErrUnphysical))
	})

	It("splits a degenerate sum into equal thirds", func() {
		masses, err := ncdm.SplitMass(0.06, ncdm.HierarchyDegenerate)
		Expect(err).NotTo(HaveOccurred())
		Expect(masses).To(HaveLen(3))
		for _, m := range masses {
			Expect(m).To(BeNumerically("~", 0.02, 1e-15))
		}
	})

	It("honors the normal-hierarchy splittings and sum", func() {
		const sum = 0.1
		masses, err := ncdm.SplitMass(sum, ncdm.HierarchyNormal)
		Expect(err).NotTo(HaveOccurred())
		Expect(masses).To(HaveLen(3))
		Expect(masses[0] + masses[1] + masses[2]).To(BeNumerically("~", sum, 1e-10))
		Expect(masses[0]).To(BeNumerically("<", masses[1]))
		Expect(masses[1]).To(BeNumerically("<", masses[2]))
		Expect(masses[1]*masses[1] - masses[0]*masses[0]).To(BeNumerically("~", 7.62e-5, 1e-12))
		Expect(masses[2]*masses[2] - masses[0]*masses[0]).To(BeNumerically("~", 2.55e-3, 1e-12))
	})

	It("accepts the normal-hierarchy boundary sum", func() {
		masses, err := ncdm.SplitMass(0.0592, ncdm.HierarchyNormal)
		Expect(err).NotTo(HaveOccurred())
		Expect(masses[0] + masses[1] + masses[2]).To(BeNumerically("~", 0.0592, 1e-10))
	})

	It("rejects a sum too small for the normal hierarchy", func() {
		_, err := ncdm.SplitMass(0.05, ncdm.HierarchyNormal)
		Expect(err).To(MatchError(ncdm.ErrUnphysical))
	})

	It("honors the inverted-hierarchy splittings and sum", func() {
		const sum = 0.15
		masses, err := ncdm.SplitMass(sum, ncdm.HierarchyInverted)
		Expect(err).NotTo(HaveOccurred())
		Expect(masses).To(HaveLen(3))
		Expect(masses[0] + masses[1] + masses[2]).To(BeNumerically("~", sum, 1e-10))
		Expect(masses[2]).To(BeNumerically("<", masses[0]))
		Expect(masses[0]).To(BeNumerically("<", masses[1]))
		Expect(masses[1]*masses[1] - masses[0]*masses[0]).To(BeNumerically("~", 7.62e-5, 1e-12))
	})

	It("accepts the inverted-hierarchy boundary sum", func() {
		masses, err := ncdm.SplitMass(0.0978, ncdm.HierarchyInverted)
		Expect(err).NotTo(HaveOccurred())
		Expect(masses[0] + masses[1] + masses[2]).To(BeNumerically("~", 0.0978, 1e-10))
	})

	It("rejects a sum too small for the inverted hierarchy", func() {
		_, err := ncdm.SplitMass(0.09, ncdm.HierarchyInverted)
		Expect(err).To(MatchError(ncdm.ErrUnphysical))
	})
})

var _ = Describe("UltraRelativistic", func() {
	relTerm := func(tRatio float64) float64 {
		return math.Pow(tRatio, 4) * math.Pow(4.0/11.0, -4.0/3.0)
	}

	It("subtracts species above the non-relativistic threshold", func() {
		species := []ncdm.Species{{Mass: 0.06, TRatio: constants.TNCDM}}
		nur, kept, err := ncdm.UltraRelativistic(constants.NEFF, species)
		Expect(err).NotTo(HaveOccurred())
		Expect(kept).To(HaveLen(1))
		Expect(nur).To(BeNumerically("~", constants.NEFF-relTerm(constants.TNCDM), 1e-12))
	})

	It("folds species below the threshold back into N_ur", func() {
		species := []ncdm.Species{{Mass: 0.0001, TRatio: constants.TNCDM}}
		nur, kept, err := ncdm.UltraRelativistic(constants.NEFF, species)
		Expect(err).NotTo(HaveOccurred())
		Expect(kept).To(BeEmpty())
		Expect(nur).To(Equal(constants.NEFF))
	})

	It("rejects massive content exceeding the total effective number", func() {
		species := []ncdm.Species{
			{Mass: 0.06, TRatio: constants.TNCDM},
			{Mass: 0.06, TRatio: constants.TNCDM},
			{Mass: 0.06, TRatio: constants.TNCDM},
		}
		_, _, err := ncdm.UltraRelativistic(1.0, species)
		Expect(err).To(MatchError(ncdm.ErrUnphysical))
	})
})
