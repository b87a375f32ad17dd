package efe

import (
	"github.com/Dttination/EinsteinFieldEquationSolution/grid"
	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
)

/*
EinsteinAt computes G_ab at one cell from the connection grid via the direct
Ricci contraction, which halves the arithmetic of building the full Riemann
tensor first:

	R_ab = Gamma^c_ab,c - Gamma^c_ac,b + Gamma^c_ab Gamma^d_dc - Gamma^d_ac Gamma^c_bd
	G_ab = R_ab - 1/2 R g_ab

The time component of the connection derivative is zero: the slice is
stationary. Only the upper triangle is computed; the packed storage mirrors
it. Requires CalcMetricTensors and CalcConnections.
*/
func (c *EFE) EinsteinAt(i [3]int) (G tensor.Sym4) {
	var (
		dConn3 = grid.Partial(c.Conns, c.Order, c.Dx, i)
		conn   = c.Conns.At(i)
	)
	// Gamma^c_ab,d; d == 0 vanishes under the stationary assumption
	dGamma := func(d, a, b, e int) float64 {
		if d == 0 {
			return 0
		}
		return dConn3[d-1].At(e, a, b)
	}

	// trace vector Gamma^d_dc
	var trace tensor.Vec4
	for e := 0; e < 4; e++ {
		for d := 0; d < 4; d++ {
			trace[e] += conn.At(d, d, e)
		}
	}

	var ricci tensor.Sym4
	for a := 0; a < 4; a++ {
		for b := 0; b <= a; b++ {
			var t1, t2, t3, t4 float64
			for d := 0; d < 4; d++ {
				t1 += dGamma(d, a, b, d)
				t2 += dGamma(b, a, d, d)
				t3 += conn.At(d, a, b) * trace[d]
				for e := 0; e < 4; e++ {
					t4 += conn.At(e, a, d) * conn.At(d, b, e)
				}
			}
			ricci.Set(a, b, t1-t2+t3-t4)
		}
	}

	var (
		gUU = c.GUU.At(i)
		gLL = c.GLL.At(i)
		R   float64
	)
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			R += gUU.At(a, b) * ricci.At(a, b)
		}
	}

	for a := 0; a < 4; a++ {
		for b := 0; b <= a; b++ {
			G.Set(a, b, ricci.At(a, b)-.5*R*gLL.At(a, b))
		}
	}
	return
}
