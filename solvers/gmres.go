package solvers

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// GMRES is restarted GMRES(m) on a black-box operator. The operator need not
// be symmetric. With MInv set it runs on the left-preconditioned system.
type GMRES struct {
	Krylov
	Restart int
}

func NewGMRES(n int, x, b []float64, A Func, epsilon float64, maxiter, restart int) (s *GMRES) {
	s = &GMRES{
		Krylov: Krylov{
			N:       n,
			X:       x,
			B:       b,
			A:       A,
			Epsilon: epsilon,
			MaxIter: maxiter,
		},
		Restart: restart,
	}
	if s.Restart <= 0 {
		s.Restart = 10
	}
	if s.Restart > n {
		s.Restart = n
	}
	return
}

// Solve runs restarted Arnoldi cycles until the preconditioned residual
// norm drops below Epsilon, the iteration cap is reached, the caller stops
// it, or the basis breaks down. On breakdown the solution in the subspace
// built so far is still applied and the last residual is reported.
func (s *GMRES) Solve() error {
	var (
		n = s.N
		m = s.Restart

		// Arnoldi basis and Hessenberg factor, Givens-triangularized in place
		V  = make([][]float64, m+1)
		H  = make([][]float64, m+1)
		cs = make([]float64, m)
		sn = make([]float64, m)
		g  = make([]float64, m+1)
		y  = make([]float64, m)

		r  = make([]float64, n)
		w  = make([]float64, n)
		Ax = make([]float64, n)
	)
	for i := range V {
		V[i] = make([]float64, n)
		H[i] = make([]float64, m)
	}

	for {
		// r = MInv(b - A x)
		s.A(Ax, s.X)
		copy(w, s.B)
		floats.Sub(w, Ax)
		s.applyMInv(r, w)

		beta := norm2(r)
		s.residual = beta
		if beta < s.Epsilon {
			return nil
		}
		if beta == 0 {
			return ErrBreakdown
		}

		floats.ScaleTo(V[0], 1/beta, r)
		for i := range g {
			g[i] = 0
		}
		g[0] = beta

		var j int
		for j = 0; j < m; j++ {
			s.iter++

			// w = MInv(A v_j), modified Gram-Schmidt against the basis
			s.A(Ax, V[j])
			s.applyMInv(w, Ax)
			for i := 0; i <= j; i++ {
				H[i][j] = floats.Dot(w, V[i])
				floats.AddScaled(w, -H[i][j], V[i])
			}
			H[j+1][j] = norm2(w)

			if H[j+1][j] == 0 {
				// the basis cannot grow. Rotate column j into the triangular
				// factor; a nonzero diagonal means the projected solution is
				// exact, a zero one means A v_j vanished and only the first j
				// columns are solved for
				for i := 0; i < j; i++ {
					H[i][j], H[i+1][j] = cs[i]*H[i][j]+sn[i]*H[i+1][j], -sn[i]*H[i][j]+cs[i]*H[i+1][j]
				}
				k := j
				if H[j][j] != 0 {
					k = j + 1
				}
				s.updateSolution(V, H, g, y, k)
				s.residual = math.Abs(g[k])
				return ErrBreakdown
			}
			floats.ScaleTo(V[j+1], 1/H[j+1][j], w)

			// apply the accumulated Givens rotations, then zero the new
			// subdiagonal entry with a fresh one
			for i := 0; i < j; i++ {
				H[i][j], H[i+1][j] = cs[i]*H[i][j]+sn[i]*H[i+1][j], -sn[i]*H[i][j]+cs[i]*H[i+1][j]
			}
			hyp := math.Hypot(H[j][j], H[j+1][j])
			cs[j], sn[j] = H[j][j]/hyp, H[j+1][j]/hyp
			H[j][j] = hyp
			H[j+1][j] = 0
			g[j], g[j+1] = cs[j]*g[j], -sn[j]*g[j]

			s.residual = math.Abs(g[j+1])

			if s.StopCallback != nil && s.StopCallback() {
				s.updateSolution(V, H, g, y, j+1)
				return nil
			}
			if s.checkStall() {
				s.updateSolution(V, H, g, y, j+1)
				return ErrStalled
			}
			if s.residual < s.Epsilon {
				s.updateSolution(V, H, g, y, j+1)
				return nil
			}
			if s.iter >= s.MaxIter {
				s.updateSolution(V, H, g, y, j+1)
				return ErrMaxIterations
			}
		}
		s.updateSolution(V, H, g, y, m)
	}
}

// updateSolution back-substitutes the triangularized least-squares system
// R y = g over k columns and accumulates x += V y.
func (s *GMRES) updateSolution(V, H [][]float64, g, y []float64, k int) {
	for i := k - 1; i >= 0; i-- {
		y[i] = g[i]
		for j := i + 1; j < k; j++ {
			y[i] -= H[i][j] * y[j]
		}
		y[i] /= H[i][i]
	}
	for j := 0; j < k; j++ {
		floats.AddScaled(s.X, y[j], V[j])
	}
}
