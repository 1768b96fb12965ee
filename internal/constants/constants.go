// Package constants collects the physical constants used throughout
// cosmolab. SI values follow CODATA 2018; astronomical values follow
// the IAU definitions.
package constants

import "math"

const (
	// SpeedOfLight in m/s.
	SpeedOfLight = 299792458.0

	// Boltzmann constant in J/K.
	Boltzmann = 1.380649e-23

	// ElectronVolt in J.
	ElectronVolt = 1.602176634e-19

	// StefanBoltzmann constant in W/m^2/K^4.
	StefanBoltzmann = 5.670374419e-8

	// Gravitational constant in m^3/kg/s^2.
	Gravitational = 6.67430e-11

	// SolarMass in kg.
	SolarMass = 1.98847e30

	// Megaparsec in m.
	Megaparsec = 3.0856775814913673e22
)

const (
	// TCMB is the present-day CMB temperature in K (Fixsen 2009).
	TCMB = 2.7255

	// TNCDM is the default neutrino to photon temperature ratio,
	// chosen so that m/omega = 93.14 eV (CLASS convention).
	TNCDM = 0.71611

	// NEFF is the standard-model effective number of neutrino species.
	NEFF = 3.044
)

// hundredKmPerSPerMpc is H = 100 km/s/Mpc expressed in 1/s.
const hundredKmPerSPerMpc = 1e5 / Megaparsec

const (
	// RhoCritKgPerM3 is the critical density 3 H^2 / (8 pi G) for
	// H = 100 km/s/Mpc, in kg/m^3. Multiply by h^2 for a given cosmology.
	RhoCritKgPerM3 = 3 * hundredKmPerSPerMpc * hundredKmPerSPerMpc / (8 * math.Pi * Gravitational)

	// RhoCritMsunPerMpc3 is the same critical density in
	// 1e10 Msun/h / (Mpc/h)^3 (the h factors cancel, so no h^2 here).
	RhoCritMsunPerMpc3 = RhoCritKgPerM3 * Megaparsec * Megaparsec * Megaparsec / (1e10 * SolarMass)
)
