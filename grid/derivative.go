package grid

import (
	"fmt"
)

// AddScaler is the payload arithmetic the stencil needs: r = t + f*o.
type AddScaler[T any] interface {
	AddScaled(T, float64) T
}

// Centered first-derivative weights for the positive offsets s = 1..p of an
// order 2p stencil; the negative offsets carry the negated weight.
var centeredWeights = map[int][]float64{
	2: {1. / 2.},
	4: {2. / 3., -1. / 12.},
	6: {3. / 4., -3. / 20., 1. / 60.},
	8: {4. / 5., -1. / 5., 4. / 105., -1. / 280.},
}

// StencilOrders lists the supported even derivative orders.
func StencilOrders() []int {
	return []int{2, 4, 6, 8}
}

// Partial computes the first partial derivative of the cell field g along
// each of the three spatial axes at cell i, prepending one lower spatial
// index to the payload's index pattern. Edge cells sample with clamped
// indices rather than one-sided stencils, so derivatives within p cells of
// the boundary have reduced accuracy.
func Partial[T AddScaler[T]](g *Grid[T], order int, dx [3]float64, i [3]int) (d [3]T) {
	w, ok := centeredWeights[order]
	if !ok {
		panic(fmt.Sprintf("unsupported stencil order %d, supported: %v", order, StencilOrders()))
	}
	for k := 0; k < 3; k++ {
		var sum, zero T
		for s := 1; s <= len(w); s++ {
			plus, minus := i, i
			plus[k] += s
			minus[k] -= s
			sum = sum.AddScaled(g.AtClamped(plus), w[s-1])
			sum = sum.AddScaled(g.AtClamped(minus), -w[s-1])
		}
		d[k] = zero.AddScaled(sum, 1./dx[k])
	}
	return
}
