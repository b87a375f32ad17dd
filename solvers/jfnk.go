package solvers

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrLineSearch: no step length down to MaxAlpha/2^LineSearchMaxIter reduced
// the residual. The state keeps the last accepted iterate.
var ErrLineSearch = errors.New("solvers: line search could not reduce the residual")

// LineSearchType selects how the Newton step length is chosen.
type LineSearchType uint8

const (
	LineSearchBisect LineSearchType = iota // halve from MaxAlpha until the residual drops
	LineSearchLinear                       // single full step, accepted only if it reduces
	LineSearchNone                         // single full step, unconditional
)

var lineSearchNames = map[string]LineSearchType{
	"bisect": LineSearchBisect,
	"linear": LineSearchLinear,
	"none":   LineSearchNone,
}

func NewLineSearchType(label string) (ls LineSearchType, err error) {
	ls, ok := lineSearchNames[label]
	if !ok {
		err = fmt.Errorf("couldn't find line search named %q", label)
	}
	return
}

/*
JFNK is the Jacobian-free Newton-Krylov driver. Each outer iteration solves
J(x) dx = -F(x) with an inner GMRES, where the Jacobian action is the
forward difference

	J(x) v ~= (F(x + eps_J v) - F(x)) / eps_J

so the Jacobian is never assembled, then takes a line-searched step along dx.
*/
type JFNK struct {
	N int
	X []float64 // state vector, aliased with the caller's storage
	F Func      // residual map to drive to zero

	Epsilon           float64 // outer stop tolerance, in CalcResidual units
	MaxIter           int
	JacobianEpsilon   float64
	MaxAlpha          float64
	LineSearch        LineSearchType
	LineSearchMaxIter int

	// MakeLinearSolver builds the inner solver for J dx = -F; the caller may
	// attach a preconditioner and callbacks to the returned solver. Nil gets
	// a plain GMRES with restart 10.
	MakeLinearSolver func(n int, dx, b []float64, A Func) *GMRES

	// StopCallback is invoked once per outer iteration; returning true
	// requests early termination.
	StopCallback func() bool

	// CalcResidual maps the raw residual vector and the current step scale
	// to the reported scalar. Defaults to the L2 norm.
	CalcResidual func(r []float64, alpha float64) float64

	iter     int
	alpha    float64
	residual float64
	linear   *GMRES

	f, ftmp, xtmp, dx, negf []float64
	xj, fj                  []float64 // jacobian mat-vec scratch
}

func (j *JFNK) Iter() int {
	return j.iter
}

func (j *JFNK) Alpha() float64 {
	return j.alpha
}

func (j *JFNK) Residual() float64 {
	return j.residual
}

// LinearSolver is the inner solver of the current outer iteration.
func (j *JFNK) LinearSolver() *GMRES {
	return j.linear
}

func (j *JFNK) init() {
	var n = j.N
	j.f = make([]float64, n)
	j.ftmp = make([]float64, n)
	j.xtmp = make([]float64, n)
	j.dx = make([]float64, n)
	j.negf = make([]float64, n)
	j.xj = make([]float64, n)
	j.fj = make([]float64, n)
	if j.JacobianEpsilon == 0 {
		j.JacobianEpsilon = 1e-6
	}
	if j.MaxAlpha == 0 {
		j.MaxAlpha = 1
	}
	if j.LineSearchMaxIter == 0 {
		j.LineSearchMaxIter = 20
	}
	if j.CalcResidual == nil {
		j.CalcResidual = func(r []float64, alpha float64) float64 {
			return norm2(r)
		}
	}
	if j.MakeLinearSolver == nil {
		j.MakeLinearSolver = func(n int, dx, b []float64, A Func) *GMRES {
			return NewGMRES(n, dx, b, A, 1e-7, n, 10)
		}
	}
	j.alpha = j.MaxAlpha
}

// jacobianMatVec is the forward-difference action of J(x) at the current
// state; j.f must hold F(x).
func (j *JFNK) jacobianMatVec(y, v []float64) {
	copy(j.xj, j.X)
	floats.AddScaled(j.xj, j.JacobianEpsilon, v)
	j.F(j.fj, j.xj)
	floats.SubTo(y, j.fj, j.f)
	floats.Scale(1/j.JacobianEpsilon, y)
}

func (j *JFNK) Solve() error {
	j.init()
	j.F(j.f, j.X)
	j.residual = j.CalcResidual(j.f, j.alpha)
	for {
		if j.StopCallback != nil && j.StopCallback() {
			return nil
		}
		if j.residual < j.Epsilon {
			return nil
		}
		if j.iter >= j.MaxIter {
			return ErrMaxIterations
		}
		j.iter++

		// Newton step: J dx = -F(x), dx from zero
		for i := range j.dx {
			j.dx[i] = 0
		}
		floats.ScaleTo(j.negf, -1, j.f)
		j.linear = j.MakeLinearSolver(j.N, j.dx, j.negf, j.jacobianMatVec)
		// inner non-convergence is tolerated; the line search guards the step
		_ = j.linear.Solve()

		if !j.takeStep() {
			return ErrLineSearch
		}
	}
}

// residualAt evaluates the residual at x + alpha dx into j.ftmp.
func (j *JFNK) residualAt(alpha float64) float64 {
	copy(j.xtmp, j.X)
	floats.AddScaled(j.xtmp, alpha, j.dx)
	j.F(j.ftmp, j.xtmp)
	return j.CalcResidual(j.ftmp, alpha)
}

// accept commits x + alpha dx as the new state.
func (j *JFNK) accept(alpha, residual float64) {
	floats.AddScaled(j.X, alpha, j.dx)
	copy(j.f, j.ftmp)
	j.alpha = alpha
	j.residual = residual
}

// takeStep runs the configured line search; false means the step was
// rejected and x is unchanged.
func (j *JFNK) takeStep() bool {
	switch j.LineSearch {
	case LineSearchNone:
		r := j.residualAt(j.MaxAlpha)
		j.accept(j.MaxAlpha, r)
		return true
	case LineSearchLinear:
		r := j.residualAt(j.MaxAlpha)
		if r >= j.residual {
			j.alpha = j.MaxAlpha
			return false
		}
		j.accept(j.MaxAlpha, r)
		return true
	default: // bisection
		alpha := j.MaxAlpha
		for k := 0; k <= j.LineSearchMaxIter; k++ {
			r := j.residualAt(alpha)
			if r < j.residual {
				j.accept(alpha, r)
				return true
			}
			j.alpha = alpha
			if k < j.LineSearchMaxIter {
				alpha /= 2
			}
		}
		return false
	}
}
