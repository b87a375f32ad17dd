package efe

import (
	"fmt"

	"github.com/Dttination/EinsteinFieldEquationSolution/grid"
	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
)

/*
CalcMetricTensors rebuilds g_ab, g^ab and g_ab,t from the metric primitives
and their time derivatives at every cell:

	g_tt = -alpha^2 + beta^2, g_ti = beta_i, g_ij = gamma_ij
	g^tt = -1/alpha^2, g^ti = beta^i/alpha^2, g^ij = gamma^ij - beta^i beta^j/alpha^2

The lapse must not vanish and gamma must stay positive definite; either is a
bug in an initial-condition generator or a diverged solve, so both abort.
*/
func (c *EFE) CalcMetricTensors(prims PrimGrid) {
	grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
		var (
			mp      = prims.At(idx)
			alpha   = mp.Alpha
			betaU   = mp.BetaU
			gammaLL = mp.GammaLL
			dtmp    = c.DtMetricPrims.At(idx)
		)
		if alpha == 0 {
			panic(fmt.Sprintf("lapse vanished at cell %d %v", idx, i))
		}
		alphaSq := alpha * alpha

		var betaL tensor.Vec3
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				betaL[j] += betaU[k] * gammaLL.At(j, k)
			}
		}
		betaSq := betaL.Dot(betaU)

		gLL := c.GLL.At(i)
		gLL.Set(0, 0, -alphaSq+betaSq)
		for j := 0; j < 3; j++ {
			gLL.Set(j+1, 0, betaL[j])
			for k := 0; k <= j; k++ {
				gLL.Set(j+1, k+1, gammaLL.At(j, k))
			}
		}

		// g_tt,t = -2 alpha alpha,t + 2 beta^i_,t beta_i + beta^i beta^j gamma_ij,t
		dtgLL := c.DtGLL.At(i)
		dtg00 := -2. * alpha * dtmp.Alpha
		for j := 0; j < 3; j++ {
			dtg00 += 2. * dtmp.BetaU[j] * betaL[j]
			for k := 0; k < 3; k++ {
				dtg00 += betaU[j] * betaU[k] * dtmp.GammaLL.At(j, k)
			}
		}
		dtgLL.Set(0, 0, dtg00)
		// g_ti,t = beta^j_,t gamma_ij + beta^j gamma_ij,t
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += dtmp.BetaU[k]*gammaLL.At(j, k) + betaU[k]*dtmp.GammaLL.At(j, k)
			}
			dtgLL.Set(j+1, 0, sum)
		}
		// g_ij,t = gamma_ij,t
		for j := 0; j < 3; j++ {
			for k := 0; k <= j; k++ {
				dtgLL.Set(j+1, k+1, dtmp.GammaLL.At(j, k))
			}
		}

		det := gammaLL.Det()
		if det == 0 {
			panic(fmt.Sprintf("spatial metric is singular at cell %d %v", idx, i))
		}
		gammaUU := gammaLL.Inverse(det)

		gUU := c.GUU.At(i)
		gUU.Set(0, 0, -1./alphaSq)
		for j := 0; j < 3; j++ {
			gUU.Set(j+1, 0, betaU[j]/alphaSq)
			for k := 0; k <= j; k++ {
				gUU.Set(j+1, k+1, gammaUU.At(j, k)-betaU[j]*betaU[k]/alphaSq)
			}
		}

		if Debug {
			assertFinite("g_ab", idx, gLL[:]...)
			assertFinite("g^ab", idx, gUU[:]...)
			assertFinite("g_ab,t", idx, dtgLL[:]...)
		}
	})
}
