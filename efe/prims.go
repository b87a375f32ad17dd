package efe

import (
	"github.com/Dttination/EinsteinFieldEquationSolution/grid"
	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
)

// PrimsPerCell is the number of reals a metric-primitive record packs:
// alpha, beta^i x3, gamma_ij x6.
const PrimsPerCell = 10

// MetricPrims are the per-cell variables the solver adjusts: the lapse, the
// upper shift vector and the symmetric lower spatial metric.
type MetricPrims struct {
	Alpha   float64
	BetaU   tensor.Vec3
	GammaLL tensor.Sym3
}

// StressEnergyPrims are the per-cell source terms the stress-energy tensor
// is assembled from, combined with the current metric every evaluation.
type StressEnergyPrims struct {
	Rho  float64 // matter density, 1/m^2
	P    float64 // pressure
	EInt float64 // specific internal energy
	V    tensor.Vec3
	E, B tensor.Vec3
	// vacuum-region hints
	UseV  bool
	UseEM bool
}

// PrimGrid is the zero-copy view of a flat solver state vector as a lattice
// of MetricPrims. The vector is the storage; the per-cell layout is
// (alpha, beta^0, beta^1, beta^2, gamma_00, gamma_10, gamma_11, gamma_20,
// gamma_21, gamma_22), matching the packed field order of MetricPrims.
type PrimGrid struct {
	grid.Layout
	Data []float64
}

func NewPrimGrid(size [3]int) (pg PrimGrid) {
	pg.Layout = grid.NewLayout(size)
	pg.Data = make([]float64, PrimsPerCell*pg.Volume())
	return
}

func (pg PrimGrid) At(cell int) (mp MetricPrims) {
	d := pg.Data[cell*PrimsPerCell:]
	mp.Alpha = d[0]
	copy(mp.BetaU[:], d[1:4])
	copy(mp.GammaLL[:], d[4:10])
	return
}

func (pg PrimGrid) Set(cell int, mp MetricPrims) {
	d := pg.Data[cell*PrimsPerCell : cell*PrimsPerCell+PrimsPerCell]
	d[0] = mp.Alpha
	copy(d[1:4], mp.BetaU[:])
	copy(d[4:10], mp.GammaLL[:])
}

// View reinterprets an existing state vector in place; len(x) must be
// 10 x volume.
func View(l grid.Layout, x []float64) PrimGrid {
	if len(x) != PrimsPerCell*l.Volume() {
		panic("state vector length does not match the grid")
	}
	return PrimGrid{Layout: l, Data: x}
}

// ByteSize reports the storage of the underlying vector.
func (pg PrimGrid) ByteSize() int {
	return 8 * len(pg.Data)
}
