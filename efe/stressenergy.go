package efe

import (
	"math"

	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
)

/*
Calc8PiT assembles 8 pi T_ab at one cell from the matter and electromagnetic
source primitives combined with the current metric. The stress-energy depends
on g_ab, which is being solved for, so this runs inside every residual
evaluation.
*/
func (c *EFE) Calc8PiT(mp MetricPrims, gLL tensor.Sym4, sep StressEnergyPrims) (T8 tensor.Sym4) {
	var (
		alpha   = mp.Alpha
		alphaSq = alpha * alpha
		betaU   = mp.BetaU
		gammaLL = mp.GammaLL
	)

	// electromagnetic stress-energy, in the ADM split form, then lowered
	// twice by g
	var emLL tensor.Sym4
	if sep.UseEM {
		var (
			E          = sep.E
			B          = sep.B
			ESq, BSq   float64
			S          = tensor.Cross(E, B)
			emUU       tensor.Sym4
			em8pi      = 8. * math.Pi
		)
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				ESq += E[j] * E[k] * gammaLL.At(j, k)
				BSq += B[j] * B[k] * gammaLL.At(j, k)
			}
		}
		emUU.Set(0, 0, (ESq+BSq)/alphaSq/em8pi)
		for j := 0; j < 3; j++ {
			emUU.Set(j+1, 0, (-betaU[j]*(ESq+BSq)/alphaSq+2.*S[j]/alpha)/em8pi)
			for k := 0; k <= j; k++ {
				v := -2.*(E[j]*E[k]+B[j]*B[k]+(S[j]*B[k]+S[k]*B[j])/alpha) + betaU[j]*betaU[k]*(ESq+BSq)/alphaSq
				if j == k {
					v += ESq + BSq
				}
				emUU.Set(j+1, k+1, v/em8pi)
			}
		}
		// lower the first index, then the second
		var emLU [4][4]float64
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				var sum float64
				for w := 0; w < 4; w++ {
					sum += gLL.At(a, w) * emUU.At(w, b)
				}
				emLU[a][b] = sum
			}
		}
		for a := 0; a < 4; a++ {
			for b := 0; b <= a; b++ {
				var sum float64
				for w := 0; w < 4; w++ {
					sum += emLU[a][w] * gLL.At(w, b)
				}
				emLL.Set(a, b, sum)
			}
		}
	}

	// matter stress-energy: T_ab = (rho (1 + eInt) + P) u_a u_b + P g_ab
	var uL tensor.Vec4
	if sep.UseV {
		var vLenSq float64
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				vLenSq += sep.V[j] * sep.V[k] * gammaLL.At(j, k)
			}
		}
		// TODO shouldn't the Lorentz factor be 1/sqrt(1 - vLenSq)? This takes
		// a square root of |v|^2 first, so W = 1/sqrt(1 - |v|).
		W := 1. / math.Sqrt(1.-math.Sqrt(vLenSq))
		var uU tensor.Vec4
		uU[0] = W
		for j := 0; j < 3; j++ {
			uU[j+1] = W * sep.V[j]
		}
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				uL[a] += uU[b] * gLL.At(b, a)
			}
		}
	} else {
		// fluid at rest in the coordinate frame: u^a = (1,0,0,0)
		for a := 0; a < 4; a++ {
			uL[a] = gLL.At(a, 0)
		}
	}

	var matterLL tensor.Sym4
	rhoH := sep.Rho*(1.+sep.EInt) + sep.P
	for a := 0; a < 4; a++ {
		for b := 0; b <= a; b++ {
			matterLL.Set(a, b, uL[a]*uL[b]*rhoH+gLL.At(a, b)*sep.P)
		}
	}

	T8 = emLL.Add(matterLL).Scale(8. * math.Pi)
	return
}
