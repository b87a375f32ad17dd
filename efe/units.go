package efe

import (
	"math"

	"github.com/Dttination/EinsteinFieldEquationSolution/utils"
)

/*
Geometrized units, meters everywhere:
	1 = c m/s            => 1 s = 299792458 m
	1 = G m^3/(kg s^2)   => 1 kg = G/c^2 m
Mass density then carries units of 1/m^2; a gauss is sqrt(.1 G)/c 1/m.
*/
const (
	SpeedOfLight = 299792458.    // m/s
	Gravity      = 6.67384e-11   // m^3 / (kg s^2)
)

// MassToMeters converts a mass in kg to geometrized meters.
func MassToMeters(kg float64) float64 {
	return kg * Gravity / (SpeedOfLight * SpeedOfLight)
}

// GaussToGeometrized converts a magnetic field in gauss to 1/m.
func GaussToGeometrized(gauss float64) float64 {
	return gauss * math.Sqrt(.1*Gravity) / SpeedOfLight
}

// DensityScale rescales a constraint component in 1/m^2 to g/cm^3, the
// human-readable density-equivalent residual metric.
func DensityScale(r float64) float64 {
	return r / (8. * math.Pi) * SpeedOfLight * SpeedOfLight / Gravity / 1000.
}

func sphereVolume(r float64) float64 {
	return 4. / 3. * math.Pi * utils.POW(r, 3)
}
