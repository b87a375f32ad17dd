package solvers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJFNKQuadratic(t *testing.T) {
	// F(x)_i = x_i^2 - a_i, roots sqrt(a_i)
	var (
		n = 6
		a = []float64{1, 4, 9, 16, 25, 36}
		x = make([]float64, n)
	)
	for i := range x {
		x[i] = 10
	}
	j := &JFNK{
		N: n,
		X: x,
		F: func(y, xx []float64) {
			for i := range xx {
				y[i] = xx[i]*xx[i] - a[i]
			}
		},
		Epsilon:    1e-10,
		MaxIter:    50,
		LineSearch: LineSearchBisect,
		MakeLinearSolver: func(n int, dx, b []float64, A Func) *GMRES {
			return NewGMRES(n, dx, b, A, 1e-14, 10*n, n)
		},
	}
	err := j.Solve()
	require.NoError(t, err)
	for i := range x {
		assert.InDelta(t, math.Sqrt(a[i]), x[i], 1e-8)
	}
	assert.Less(t, j.Residual(), 1e-10)
}

func TestJFNKMonotoneResidual(t *testing.T) {
	// Accepted bisection steps never increase the residual
	var (
		n         = 4
		x         = []float64{5, -3, 2, 7}
		residuals []float64
	)
	j := &JFNK{
		N: n,
		X: x,
		F: func(y, xx []float64) {
			for i := range xx {
				y[i] = math.Atan(xx[i]) // well-known newton overshoot case
			}
		},
		Epsilon:    1e-9,
		MaxIter:    100,
		LineSearch: LineSearchBisect,
		MakeLinearSolver: func(n int, dx, b []float64, A Func) *GMRES {
			return NewGMRES(n, dx, b, A, 1e-13, 10*n, n)
		},
	}
	j.StopCallback = func() bool {
		residuals = append(residuals, j.Residual())
		return false
	}
	err := j.Solve()
	require.NoError(t, err)
	for i := 1; i < len(residuals); i++ {
		assert.LessOrEqual(t, residuals[i], residuals[i-1])
	}
	for i := range x {
		assert.InDelta(t, 0, x[i], 1e-8)
	}
}

func TestJFNKMaxIterations(t *testing.T) {
	x := []float64{100}
	j := &JFNK{
		N: 1,
		X: x,
		F: func(y, xx []float64) {
			y[0] = xx[0]*xx[0]*xx[0] - 2
		},
		Epsilon:    1e-300,
		MaxIter:    2,
		LineSearch: LineSearchBisect,
	}
	err := j.Solve()
	assert.ErrorIs(t, err, ErrMaxIterations)
	assert.Equal(t, 2, j.Iter())
}

func TestJFNKStopCallback(t *testing.T) {
	var calls int
	x := []float64{3}
	j := &JFNK{
		N: 1,
		X: x,
		F: func(y, xx []float64) {
			y[0] = xx[0] - 1
		},
		Epsilon:    1e-300,
		MaxIter:    1000,
		LineSearch: LineSearchBisect,
		StopCallback: func() bool {
			calls++
			return calls >= 2
		},
	}
	err := j.Solve()
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestBisectionContract(t *testing.T) {
	// With maxAlpha = 1 and 20 halvings, the accepted step is 2^-k for some
	// k <= 20 that reduces the residual, or the step is rejected with
	// alpha = 2^-20 and x unchanged.
	newJFNK := func(f func(float64) float64) *JFNK {
		j := &JFNK{
			N:                 1,
			X:                 []float64{0},
			F:                 func(y, xx []float64) { y[0] = f(xx[0]) },
			Epsilon:           1e-12,
			MaxIter:           1,
			MaxAlpha:          1,
			LineSearch:        LineSearchBisect,
			LineSearchMaxIter: 20,
		}
		j.init()
		j.F(j.f, j.X)
		j.residual = j.CalcResidual(j.f, j.alpha)
		j.dx = []float64{1}
		return j
	}

	// |alpha - 0.3| < 0.3 first holds at alpha = 1/2
	{
		j := newJFNK(func(x float64) float64 { return x - 0.3 })
		ok := j.takeStep()
		assert.True(t, ok)
		assert.Equal(t, 0.5, j.Alpha())
		assert.Equal(t, 0.5, j.X[0])
		assert.Less(t, j.Residual(), 0.3)
	}
	// x^2 + 1 cannot be reduced along any step: rejected, x unchanged
	{
		j := newJFNK(func(x float64) float64 { return x*x + 1 })
		ok := j.takeStep()
		assert.False(t, ok)
		assert.Equal(t, math.Pow(2, -20), j.Alpha())
		assert.Equal(t, 0., j.X[0])
	}
}

func TestLineSearchTypes(t *testing.T) {
	ls, err := NewLineSearchType("bisect")
	require.NoError(t, err)
	assert.Equal(t, LineSearchBisect, ls)
	_, err = NewLineSearchType("golden")
	assert.Error(t, err)

	// LineSearchNone takes the full step even uphill
	j := &JFNK{
		N:          1,
		X:          []float64{0},
		F:          func(y, xx []float64) { y[0] = xx[0]*xx[0] + 1 },
		Epsilon:    1e-12,
		MaxIter:    1,
		LineSearch: LineSearchNone,
	}
	j.init()
	j.F(j.f, j.X)
	j.residual = j.CalcResidual(j.f, j.alpha)
	j.dx = []float64{1}
	ok := j.takeStep()
	assert.True(t, ok)
	assert.Equal(t, 1., j.X[0])
}
