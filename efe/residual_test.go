package efe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearSources(c *EFE) {
	for idx := range c.StressEnergy.Cells {
		c.StressEnergy.Cells[idx] = StressEnergyPrims{}
	}
}

func TestResidualFlatVacuum(t *testing.T) {
	// All derivatives of a constant metric vanish, so the constraint must be
	// zero to machine precision
	c := newTestEFE(t, 4, "earth", "flat", 2)
	clearSources(c)
	y := make([]float64, c.N())
	c.ConstraintMap(y, c.MetricPrims.Data)
	for i := range y {
		assert.LessOrEqual(t, math.Abs(y[i]), 1e-12)
	}
}

func TestResidualDeterminism(t *testing.T) {
	c := newTestEFE(t, 4, "earth", "stellar_schwarzschild", 2)
	var (
		y1 = make([]float64, c.N())
		y2 = make([]float64, c.N())
	)
	c.ConstraintMap(y1, c.MetricPrims.Data)
	c.ConstraintMap(y2, c.MetricPrims.Data)
	for i := range y1 {
		assert.Equal(t, y1[i], y2[i])
	}
}

func TestResidualExteriorSchwarzschild(t *testing.T) {
	// Exterior Schwarzschild is Ricci-flat: away from the body surface and
	// the clamped boundary cells, the density-equivalent constraint must sit
	// near zero
	var (
		c      = newTestEFE(t, 16, "earth", "stellar_schwarzschild", 8)
		y      = make([]float64, c.N())
		margin  = 4 // stencil half-width of the order-8 operator
		worst   float64
		checked int
	)
	c.ConstraintMap(y, c.MetricPrims.Data)
	for idx := 0; idx < c.L.Volume(); idx++ {
		i := c.L.Coord(idx)
		interior := true
		for d := 0; d < 3; d++ {
			if i[d] < margin || i[d] >= c.L.Size[d]-margin {
				interior = false
			}
		}
		if !interior {
			continue
		}
		xi := *c.Xs.At(i)
		if math.Sqrt(xi.Dot(xi)) <= 1.4*c.Radius {
			continue
		}
		checked++
		for k := 0; k < PrimsPerCell; k++ {
			v := math.Abs(DensityScale(y[idx*PrimsPerCell+k]))
			if v > worst {
				worst = v
			}
		}
	}
	require.Greater(t, checked, 0, "no fully exterior cells to check")
	assert.Less(t, worst, 2e-2, "worst exterior constraint, g/cm^3")
}

func TestEinsteinRecoversInteriorDensity(t *testing.T) {
	// Deep inside the body the tt Einstein component, rescaled to g/cm^3,
	// must reproduce the matter density within the known error floor of the
	// cartesian interior guess
	var (
		c       = newTestEFE(t, 8, "earth", "stellar_schwarzschild", 2)
		rhoCgs  = DensityScale(8 * math.Pi * c.Density)
		checked int
	)
	c.CalcMetricTensors(c.MetricPrims)
	c.CalcConnections()
	for idx := 0; idx < c.L.Volume(); idx++ {
		i := c.L.Coord(idx)
		xi := *c.Xs.At(i)
		if math.Sqrt(xi.Dot(xi)) > .5*c.Radius {
			continue
		}
		G := c.EinsteinAt(i)
		assert.InDelta(t, rhoCgs, DensityScale(G.At(0, 0)), 2.,
			"cell %v, expected about %g g/cm^3", i, rhoCgs)
		checked++
	}
	require.Greater(t, checked, 0, "no cells deep inside the body")
	// sanity on the density itself: Earth averages about 5.5 g/cm^3
	assert.InDelta(t, 5.51, rhoCgs, .1)
}

func TestResidualEMField(t *testing.T) {
	// With a flat metric G_ab is exactly zero, so the constraint must equal
	// minus the EM stress-energy, component for component
	c := newTestEFE(t, 4, "em_field", "em_field", 2)
	y := make([]float64, c.N())
	c.ConstraintMap(y, c.MetricPrims.Data)
	for idx := 0; idx < c.L.Volume(); idx++ {
		var (
			i   = c.L.Coord(idx)
			sep = *c.StressEnergy.At(i)
			T8  = c.Calc8PiT(c.MetricPrims.At(idx), *c.GLL.At(i), sep)
		)
		require.True(t, sep.UseEM)
		assert.Equal(t, 0., sep.Rho)
		for k := 0; k < PrimsPerCell; k++ {
			assert.InDelta(t, -T8[k], y[idx*PrimsPerCell+k], 1e-12*math.Abs(T8[k])+1e-300)
		}
		// the field energy density is positive
		assert.Greater(t, T8.At(0, 0), 0.)
	}
}

func TestStressEnergyMatterAtRest(t *testing.T) {
	// u_a = g_a0 when the velocity hint is off: for a flat metric the only
	// nonzero component is T_tt = rho
	c := newTestEFE(t, 4, "earth", "flat", 2)
	c.CalcMetricTensors(c.MetricPrims)
	var (
		sep = StressEnergyPrims{Rho: 2}
		T8  = c.Calc8PiT(c.MetricPrims.At(0), *c.GLL.At([3]int{0, 0, 0}), sep)
	)
	assert.InDelta(t, 8*math.Pi*2, T8.At(0, 0), 1e-12)
	for a := 0; a < 4; a++ {
		for b := 0; b <= a; b++ {
			if a == 0 && b == 0 {
				continue
			}
			assert.Equal(t, 0., T8.At(a, b))
		}
	}
}

func TestStressEnergyPressure(t *testing.T) {
	// T_ab = (rho(1+eInt)+P) u_a u_b + P g_ab on a flat metric:
	// T_tt = rho(1+eInt), T_ii = P
	c := newTestEFE(t, 4, "earth", "flat", 2)
	c.CalcMetricTensors(c.MetricPrims)
	var (
		sep = StressEnergyPrims{Rho: 3, EInt: .5, P: .25}
		T8  = c.Calc8PiT(c.MetricPrims.At(0), *c.GLL.At([3]int{0, 0, 0}), sep)
		pi8 = 8 * math.Pi
	)
	// u_a = (-1,0,0,0): u_t u_t (rho(1+eInt)+P) + P g_tt = rho(1+eInt)
	assert.InDelta(t, pi8*3*1.5, T8.At(0, 0), 1e-12)
	for j := 1; j < 4; j++ {
		assert.InDelta(t, pi8*.25, T8.At(j, j), 1e-12)
	}
}

func TestLorentzFactorQuirk(t *testing.T) {
	// The moving-matter branch takes W = 1/sqrt(1 - |v|), not 1 - |v|^2;
	// pin that behavior down so a change is deliberate
	c := newTestEFE(t, 4, "earth", "flat", 2)
	c.CalcMetricTensors(c.MetricPrims)
	var (
		v   = .25
		sep = StressEnergyPrims{Rho: 1, UseV: true}
	)
	sep.V[0] = v
	var (
		T8 = c.Calc8PiT(c.MetricPrims.At(0), *c.GLL.At([3]int{0, 0, 0}), sep)
		W  = 1 / math.Sqrt(1-v) // |v|_gamma = v on the flat metric
	)
	// u_t = -W on a flat metric, so T_tt = W^2 rho
	assert.InDelta(t, 8*math.Pi*W*W, T8.At(0, 0), 1e-12)
}
