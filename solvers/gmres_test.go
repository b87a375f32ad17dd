package solvers

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// matOp wraps a dense matrix as a black-box operator.
func matOp(A *mat.Dense) Func {
	return func(y, x []float64) {
		var (
			n  = len(x)
			xv = mat.NewVecDense(n, x)
			yv = mat.NewVecDense(n, y)
		)
		yv.MulVec(A, xv)
	}
}

func residualNorm(A Func, x, b []float64) float64 {
	var (
		n  = len(x)
		ax = make([]float64, n)
	)
	A(ax, x)
	var sum float64
	for i := range ax {
		d := ax[i] - b[i]
		sum += d * d
	}
	return sum
}

func randomSPD(rnd *rand.Rand, n int) (A *mat.Dense) {
	M := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			M.Set(i, j, rnd.NormFloat64())
		}
	}
	A = mat.NewDense(n, n, nil)
	A.Mul(M.T(), M)
	for i := 0; i < n; i++ {
		A.Set(i, i, A.At(i, i)+float64(n)) // diagonally dominant
	}
	return
}

func TestGMRESDiagonal(t *testing.T) {
	var (
		n = 20
		x = make([]float64, n)
		b = make([]float64, n)
	)
	A := func(y, xx []float64) {
		for i := range xx {
			y[i] = float64(i+1) * xx[i]
		}
	}
	for i := range b {
		b[i] = float64(2 * (i + 1))
	}
	s := NewGMRES(n, x, b, A, 1e-12, 10*n, 10)
	err := s.Solve()
	require.NoError(t, err)
	for i := range x {
		assert.InDelta(t, 2., x[i], 1e-9)
	}
	assert.Less(t, s.Residual(), 1e-12)
	assert.Greater(t, s.Iter(), 0)
}

func TestGMRESNonsymmetric(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(7))
		n   = 30
		x   = make([]float64, n)
		b   = make([]float64, n)
	)
	M := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			M.Set(i, j, 0.1*rnd.NormFloat64())
		}
		M.Set(i, i, 2+rnd.Float64())
		b[i] = rnd.NormFloat64()
	}
	A := matOp(M)
	s := NewGMRES(n, x, b, A, 1e-11, 20*n, 15)
	err := s.Solve()
	require.NoError(t, err)
	assert.Less(t, residualNorm(A, x, b), 1e-18)
}

func TestGMRESPreconditioned(t *testing.T) {
	// A badly scaled diagonal system; the preconditioner undoes the scale
	var (
		n = 16
		x = make([]float64, n)
		b = make([]float64, n)
	)
	A := func(y, xx []float64) {
		for i := range xx {
			y[i] = 1e6 * xx[i]
		}
	}
	for i := range b {
		b[i] = 1e6 * float64(i)
	}
	s := NewGMRES(n, x, b, A, 1e-10, 10*n, 8)
	s.MInv = func(y, xx []float64) {
		for i := range xx {
			y[i] = 1e-6 * xx[i]
		}
	}
	err := s.Solve()
	require.NoError(t, err)
	for i := range x {
		assert.InDelta(t, float64(i), x[i], 1e-8)
	}
}

func TestGMRESBreakdown(t *testing.T) {
	// The zero operator kills the Arnoldi basis on the first vector; the
	// solver must terminate gracefully and still report a residual.
	var (
		n = 8
		x = make([]float64, n)
		b = make([]float64, n)
	)
	for i := range b {
		b[i] = 1
	}
	A := func(y, xx []float64) {
		for i := range y {
			y[i] = 0
		}
	}
	s := NewGMRES(n, x, b, A, 1e-10, 100, 8)
	err := s.Solve()
	assert.ErrorIs(t, err, ErrBreakdown)
	assert.Greater(t, s.Residual(), 0.)
}

func TestGMRESStopCallback(t *testing.T) {
	var (
		n     = 12
		x     = make([]float64, n)
		b     = make([]float64, n)
		calls int
	)
	for i := range b {
		b[i] = float64(i + 1)
	}
	A := func(y, xx []float64) {
		for i := range xx {
			y[i] = float64(i+1) * xx[i]
		}
	}
	s := NewGMRES(n, x, b, A, 1e-30, 1000, 6)
	s.StopCallback = func() bool {
		calls++
		return calls >= 3
	}
	err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestConjGradSPD(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(3))
		n   = 25
		x   = make([]float64, n)
		b   = make([]float64, n)
	)
	A := matOp(randomSPD(rnd, n))
	for i := range b {
		b[i] = rnd.NormFloat64()
	}
	s := NewConjGrad(n, x, b, A, 1e-11, 10*n)
	err := s.Solve()
	require.NoError(t, err)
	assert.Less(t, residualNorm(A, x, b), 1e-16)
}

func TestConjResSPD(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(5))
		n   = 25
		x   = make([]float64, n)
		b   = make([]float64, n)
	)
	A := matOp(randomSPD(rnd, n))
	for i := range b {
		b[i] = rnd.NormFloat64()
	}
	s := NewConjRes(n, x, b, A, 1e-11, 10*n)
	err := s.Solve()
	require.NoError(t, err)
	assert.Less(t, residualNorm(A, x, b), 1e-16)
}

func TestConjGradMaxIterations(t *testing.T) {
	var (
		n = 10
		x = make([]float64, n)
		b = make([]float64, n)
	)
	A := func(y, xx []float64) {
		for i := range xx {
			y[i] = float64(i+1) * xx[i]
		}
	}
	for i := range b {
		b[i] = 1
	}
	s := NewConjGrad(n, x, b, A, 1e-300, 2)
	err := s.Solve()
	assert.ErrorIs(t, err, ErrMaxIterations)
}
