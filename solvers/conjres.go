package solvers

import (
	"gonum.org/v1/gonum/floats"
)

// ConjRes is the conjugate residual method: like conjugate gradient but
// minimizing the residual norm, requiring only symmetry of the operator.
// Diagnostic on the constraint system, same as ConjGrad.
type ConjRes struct {
	Krylov
}

func NewConjRes(n int, x, b []float64, A Func, epsilon float64, maxiter int) (s *ConjRes) {
	s = &ConjRes{
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

func (s *ConjRes) Solve() error {
	var (
		n  = s.N
		r  = make([]float64, n)
		p  = make([]float64, n)
		Ar = make([]float64, n)
		Ap = make([]float64, n)
	)
	// r = b - A x
	s.A(Ap, s.X)
	copy(r, s.B)
	floats.Sub(r, Ap)
	copy(p, r)

	s.A(Ar, r)
	copy(Ap, Ar)
	rAr := floats.Dot(r, Ar)

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

		ApAp := floats.Dot(Ap, Ap)
		if ApAp == 0 {
			return ErrBreakdown
		}
		alpha := rAr / ApAp
		floats.AddScaled(s.X, alpha, p)
		floats.AddScaled(r, -alpha, Ap)

		s.A(Ar, r)
		rArNext := floats.Dot(r, Ar)
		if rAr == 0 {
			return ErrBreakdown
		}
		beta := rArNext / rAr
		rAr = rArNext
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		for i := range Ap {
			Ap[i] = Ar[i] + beta*Ap[i]
		}
	}
}
