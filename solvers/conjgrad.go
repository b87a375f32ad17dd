package solvers

import (
	"gonum.org/v1/gonum/floats"
)

// ConjGrad is preconditioned conjugate gradient. It assumes the operator is
// symmetric positive definite; on the constraint system it is a diagnostic
// only, preserved because it shows how the residual map degenerates under a
// flat initial guess.
type ConjGrad struct {
	Krylov
}

func NewConjGrad(n int, x, b []float64, A Func, epsilon float64, maxiter int) (s *ConjGrad) {
	s = &ConjGrad{
		Krylov: Krylov{
			N:       n,
			X:       x,
			B:       b,
			A:       A,
			Epsilon: epsilon,
			MaxIter: maxiter,
		},
	}
	return
}

func (s *ConjGrad) Solve() error {
	var (
		n  = s.N
		r  = make([]float64, n)
		z  = make([]float64, n)
		p  = make([]float64, n)
		Ap = make([]float64, n)
	)
	// r = b - A x
	s.A(Ap, s.X)
	copy(r, s.B)
	floats.Sub(r, Ap)

	s.applyMInv(z, r)
	copy(p, z)
	rho := floats.Dot(r, z)

	for {
		s.residual = norm2(r)
		if s.StopCallback != nil && s.StopCallback() {
			return nil
		}
		if s.residual < s.Epsilon {
			return nil
		}
		if s.checkStall() {
			return ErrStalled
		}
		if s.iter >= s.MaxIter {
			return ErrMaxIterations
		}
		s.iter++

		s.A(Ap, p)
		pAp := floats.Dot(p, Ap)
		if pAp == 0 {
			return ErrBreakdown
		}
		alpha := rho / pAp
		floats.AddScaled(s.X, alpha, p)
		floats.AddScaled(r, -alpha, Ap)

		s.applyMInv(z, r)
		rhoNext := floats.Dot(r, z)
		beta := rhoNext / rho
		rho = rhoNext
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}
}
