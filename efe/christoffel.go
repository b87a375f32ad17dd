package efe

import (
	"github.com/Dttination/EinsteinFieldEquationSolution/grid"
	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
)

/*
CalcConnections computes the connection coefficients at every cell:

	Gamma_abc = 1/2 (g_ab,c + g_ac,b - g_bc,a)
	Gamma^a_bc = g^ad Gamma_dbc

Spatial metric derivatives come from the centered stencil over the g_ab grid;
the time derivative is the precomputed g_ab,t. Requires CalcMetricTensors.
*/
func (c *EFE) CalcConnections() {
	grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
		var (
			dg3 = grid.Partial(c.GLL, c.Order, c.Dx, i)
			// dg[d] holds g_ab,d; index 0 is the time derivative
			dg [4]tensor.Sym4
		)
		dg[0] = *c.DtGLL.At(i)
		for k := 0; k < 3; k++ {
			dg[k+1] = dg3[k]
		}

		var connLLL [4]tensor.Sym4 // first index lower, symmetric in the last two
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				for d := 0; d <= b; d++ {
					connLLL[a].Set(b, d, .5*(dg[d].At(a, b)+dg[b].At(a, d)-dg[a].At(b, d)))
				}
			}
		}

		var (
			gUU  = c.GUU.At(i)
			conn = c.Conns.At(i)
		)
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				for d := 0; d <= b; d++ {
					var sum float64
					for e := 0; e < 4; e++ {
						sum += gUU.At(a, e) * connLLL[e].At(b, d)
					}
					conn.Set(a, b, d, sum)
				}
			}
		}

		if Debug {
			for a := 0; a < 4; a++ {
				assertFinite("Gamma^a_bc", idx, conn[a][:]...)
			}
		}
	})
}
