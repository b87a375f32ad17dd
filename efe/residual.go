package efe

import (
	"github.com/Dttination/EinsteinFieldEquationSolution/grid"
	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
)

/*
ConstraintMap is the residual function the nonlinear solver drives to zero:
y = G_ab(x) - 8 pi T_ab(x), ten symmetric components per cell, in the same
per-cell ordering as the primitive vector. x is reinterpreted in place as a
primitive grid; the scratch tensor grids are rewritten on every call.
*/
func (c *EFE) ConstraintMap(y, x []float64) {
	xg := View(c.L, x)
	c.CalcMetricTensors(xg)
	c.CalcConnections()
	grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
		var (
			G  = c.EinsteinAt(i)
			T8 = c.Calc8PiT(xg.At(idx), *c.GLL.At(i), *c.StressEnergy.At(i))
			e  = G.Sub(T8)
		)
		copy(y[idx*PrimsPerCell:(idx+1)*PrimsPerCell], e[:])
	})
}

// EinsteinMap evaluates y = G_ab(x) alone. The diagnostic Krylov drivers use
// it as if it were a linear operator.
func (c *EFE) EinsteinMap(y, x []float64) {
	xg := View(c.L, x)
	c.CalcMetricTensors(xg)
	c.CalcConnections()
	grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
		G := c.EinsteinAt(i)
		copy(y[idx*PrimsPerCell:(idx+1)*PrimsPerCell], G[:])
	})
}

// Calc8PiTVector fills dst with 8 pi T_ab evaluated on the current metric,
// the right-hand side the diagnostic Krylov drivers hold fixed.
// CalcMetricTensors must have run for the same primitives.
func (c *EFE) Calc8PiTVector(dst []float64, prims PrimGrid) {
	grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
		T8 := c.Calc8PiT(prims.At(idx), *c.GLL.At(i), *c.StressEnergy.At(i))
		copy(dst[idx*PrimsPerCell:(idx+1)*PrimsPerCell], T8[:])
	})
}

// ConstraintGrid evaluates the constraint into a tensor grid for reporting.
func (c *EFE) ConstraintGrid(prims PrimGrid) (efeGrid *grid.Grid[tensor.Sym4]) {
	efeGrid = grid.New[tensor.Sym4](c.L.Size)
	c.CalcMetricTensors(prims)
	c.CalcConnections()
	grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
		G := c.EinsteinAt(i)
		T8 := c.Calc8PiT(prims.At(idx), *c.GLL.At(i), *c.StressEnergy.At(i))
		*efeGrid.At(i) = G.Sub(T8)
	})
	return
}
