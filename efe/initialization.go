package efe

import (
	"fmt"
	"math"

	"github.com/Dttination/EinsteinFieldEquationSolution/grid"
	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
	"github.com/Dttination/EinsteinFieldEquationSolution/utils"
)

// BodyType selects the source distribution the stress-energy primitives are
// filled from.
type BodyType uint8

const (
	EARTH BodyType = iota
	SUN
	EM_FIELD
	EM_LINE
)

var bodyNames = map[string]BodyType{
	"earth":    EARTH,
	"sun":      SUN,
	"em_field": EM_FIELD,
	"em_line":  EM_LINE,
}

func NewBodyType(label string) (b BodyType, err error) {
	b, ok := bodyNames[label]
	if !ok {
		err = fmt.Errorf("couldn't find body named %q", label)
	}
	return
}

func (b BodyType) Print() string {
	for name, bb := range bodyNames {
		if bb == b {
			return name
		}
	}
	return "unknown"
}

func (b BodyType) IsSpherical() bool {
	return b == EARTH || b == SUN
}

// SetParameters fills the body constants, geometrized. The EM bodies reuse
// the earth radius as the domain length scale and carry the earth surface
// magnetic field of .45 gauss.
func (b BodyType) SetParameters(c *EFE) {
	const (
		earthRadius = 6.37101e+6 // m
		earthMassKg = 5.9736e+24 // kg
		sunRadius   = 6.960e+8   // m
		sunMassKg   = 1.9891e+30 // kg
	)
	switch b {
	case SUN:
		c.Radius = sunRadius
		c.Mass = MassToMeters(sunMassKg)
	default:
		c.Radius = earthRadius
		c.Mass = MassToMeters(earthMassKg)
	}
	c.Density = c.Mass / sphereVolume(c.Radius) // 1/m^2
	c.SurfaceB = GaussToGeometrized(.45)        // 1/m
}

// InitStressEnergy fills the read-only source grid. The vacuum hints UseV
// and UseEM let the stress-energy stage skip work where sources vanish.
func (b BodyType) InitStressEnergy(c *EFE) {
	grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
		var (
			sep = c.StressEnergy.At(i)
			xi  = *c.Xs.At(i)
			r   = math.Sqrt(xi.Dot(xi))
		)
		*sep = StressEnergyPrims{}
		switch b {
		case EARTH, SUN:
			if r < c.Radius {
				sep.Rho = c.Density
			}
		case EM_FIELD:
			// uniform magnetic field along z, filling the domain
			sep.B[2] = c.SurfaceB
			sep.UseEM = true
		case EM_LINE:
			// line source along z: B falls off as 1/s around the axis.
			// s is floored at half a cell so the axis cells stay finite.
			var (
				s    = math.Sqrt(xi[0]*xi[0] + xi[1]*xi[1])
				sMin = .5 * c.Dx[0]
			)
			if s < sMin {
				s = sMin
			}
			mag := c.SurfaceB * c.Radius / s
			sep.B[0] = -xi[1] / s * mag
			sep.B[1] = xi[0] / s * mag
			sep.UseEM = true
		}
	})
}

// InitCondType selects the initial guess for the metric primitives.
type InitCondType uint8

const (
	FLAT InitCondType = iota
	STELLAR_SCHWARZSCHILD
	STELLAR_KERR_NEWMAN
	EM_FIELD_COND
	EM_LINE_COND
)

var initCondNames = map[string]InitCondType{
	"flat":                  FLAT,
	"stellar_schwarzschild": STELLAR_SCHWARZSCHILD,
	"stellar_kerr_newman":   STELLAR_KERR_NEWMAN,
	"em_field":              EM_FIELD_COND,
	"em_line":               EM_LINE_COND,
}

func NewInitCondType(label string) (ic InitCondType, err error) {
	ic, ok := initCondNames[label]
	if !ok {
		err = fmt.Errorf("couldn't find initial condition named %q", label)
	}
	return
}

func (ic InitCondType) Print() string {
	for name, icc := range initCondNames {
		if icc == ic {
			return name
		}
	}
	return "unknown"
}

func (ic InitCondType) RequiresSphericalBody() bool {
	return ic == STELLAR_SCHWARZSCHILD || ic == STELLAR_KERR_NEWMAN
}

// Initialize fills the metric primitive grid. The time-derivative grid stays
// zero: the slice starts stationary.
func (ic InitCondType) Initialize(c *EFE) {
	grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
		var mp MetricPrims
		switch ic {
		case STELLAR_SCHWARZSCHILD:
			mp = stellarSchwarzschild(c, *c.Xs.At(i))
		case STELLAR_KERR_NEWMAN:
			mp = stellarKerrNewman(c, *c.Xs.At(i))
		default:
			// flat, and the EM conditions: the metric starts flat and the
			// body supplies the source
			mp = flatPrims()
		}
		c.MetricPrims.Set(idx, mp)
	})
}

func flatPrims() (mp MetricPrims) {
	mp.Alpha = 1
	for j := 0; j < 3; j++ {
		mp.GammaLL.Set(j, j, 1)
	}
	return
}

/*
stellarSchwarzschild: lapse per MTW box 23.2 eqn 6,

	alpha = sqrt(1 - 2M/r)                                   for r > R
	alpha = 3/2 sqrt(1 - 2M/R) - 1/2 sqrt(1 - 2M r^2/R^3)    for r < R

with the cartesian spatial metric gamma_ij = delta_ij + x^i x^j / r^2 *
2m(r)/(r - 2m(r)), m(r) the mass enclosed within r.
*/
func stellarSchwarzschild(c *EFE, xi tensor.Vec3) (mp MetricPrims) {
	var (
		r            = math.Sqrt(xi.Dot(xi))
		matterRadius = math.Min(r, c.Radius)
		m            = c.Density * sphereVolume(matterRadius)
	)
	if r > c.Radius {
		mp.Alpha = math.Sqrt(1. - 2.*c.Mass/r)
	} else {
		mp.Alpha = 1.5*math.Sqrt(1.-2.*c.Mass/c.Radius) -
			.5*math.Sqrt(1.-2.*c.Mass*r*r/utils.POW(c.Radius, 3))
	}
	for j := 0; j < 3; j++ {
		for k := 0; k <= j; k++ {
			var diag float64
			if j == k {
				diag = 1
			}
			mp.GammaLL.Set(j, k, diag+xi[j]/r*xi[k]/r*2.*m/(r-2.*m))
		}
	}
	return
}

/*
stellarKerrNewman: Kerr-Schild form, 3.4.33 through 3.4.35 of Alcubierre
"Introduction to 3+1 Numerical Relativity", uncharged, with the angular
momentum of a uniform sphere spinning once per day.
*/
func stellarKerrNewman(c *EFE, xi tensor.Vec3) (mp MetricPrims) {
	var (
		x, y, z = xi[0], xi[1], xi[2]

		angularVelocity = 2. * math.Pi / (60. * 60. * 24.) / SpeedOfLight // 1/m
		inertia         = 2. / 5. * c.Mass * c.Radius * c.Radius          // m^3
		a               = inertia * angularVelocity / c.Mass              // m
	)
	// r solves (x^2 + y^2)/(r^2 + a^2) + z^2/r^2 = 1; use the positive root
	RSqMinusASq := x*x + y*y + z*z - a*a
	r := math.Sqrt((RSqMinusASq + math.Sqrt(RSqMinusASq*RSqMinusASq+4.*a*a*z*z)) / 2.)

	var (
		matterRadius = math.Min(r, c.Radius)
		m            = c.Density * sphereVolume(matterRadius)
		Q            = 0. // charge
		H            = (r*m - Q*Q/2.) / (r*r + a*a*z*z/(r*r))
	)
	mp.Alpha = math.Sqrt(1. - 2.*H/(1.+2.*H))
	l := tensor.Vec3{(r*x + a*y) / (r*r + a*a), (r*y - a*x) / (r*r + a*a), z / r}
	for j := 0; j < 3; j++ {
		mp.BetaU[j] = 2. * H * l[j] / (1. + 2.*H)
		for k := 0; k <= j; k++ {
			var diag float64
			if j == k {
				diag = 1
			}
			mp.GammaLL.Set(j, k, diag+2.*H*l[j]*l[k])
		}
	}
	return
}
