/*
Package solvers implements the iterative drivers for the constraint system:
restarted GMRES, conjugate gradient and conjugate residual over a black-box
operator, and the Jacobian-free Newton-Krylov outer loop that wraps GMRES.
Operators, preconditioners and stop callbacks are plain functions; vectors
are raw []float64 aliased with the caller's storage.
*/
package solvers

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrMaxIterations: the iteration cap was reached above tolerance. Callers
	// keep the best state found; this is reported, not fatal.
	ErrMaxIterations = errors.New("solvers: iteration limit reached")

	// ErrStalled: the residual stopped moving between successive iterations
	// for longer than the system dimension.
	ErrStalled = errors.New("solvers: residual stalled")

	// ErrBreakdown: the Krylov basis degenerated (zero Arnoldi vector).
	ErrBreakdown = errors.New("solvers: krylov basis breakdown")
)

// Func applies an operator: y = A(x). y and x never alias.
type Func func(y, x []float64)

// Krylov is the state shared by the iterative linear drivers.
type Krylov struct {
	N int
	X []float64 // solution vector, aliased with the caller's storage
	B []float64 // right-hand side
	A Func

	Epsilon float64
	MaxIter int

	// MInv is an optional left preconditioner applied to residuals before
	// they enter the Krylov recurrence. Treated as a black box.
	MInv Func

	// StopCallback is invoked once per iteration; returning true requests
	// early termination with the current state.
	StopCallback func() bool

	iter     int
	residual float64

	stallCount   int
	lastResidual float64
}

func (k *Krylov) Iter() int {
	return k.iter
}

func (k *Krylov) Residual() float64 {
	return k.residual
}

func (k *Krylov) applyMInv(dst, src []float64) {
	if k.MInv == nil {
		copy(dst, src)
		return
	}
	k.MInv(dst, src)
}

// checkStall implements the self-termination contract: if the residual is
// bitwise unchanged between successive iterations for more than N
// iterations, the solve is spinning on an ill-conditioned system and must
// give up rather than loop forever.
func (k *Krylov) checkStall() bool {
	if k.residual == k.lastResidual {
		k.stallCount++
	} else {
		k.stallCount = 0
	}
	k.lastResidual = k.residual
	return k.stallCount > k.N
}

func norm2(v []float64) float64 {
	return floats.Norm(v, 2)
}
