/*
Package efe solves the Einstein Field Equations G_ab = 8 pi T_ab for a static
spatial slice on a fixed cartesian grid. The unknowns are the ADM metric
primitives per cell; the constraint is driven to zero by a Jacobian-free
Newton-Krylov outer loop whose residual evaluation runs the full pipeline
metric -> connections -> Einstein tensor -> stress-energy every call.
*/
package efe

import (
	"fmt"
	"time"

	"github.com/Dttination/EinsteinFieldEquationSolution/InputParameters"
	"github.com/Dttination/EinsteinFieldEquationSolution/grid"
	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
	"github.com/Dttination/EinsteinFieldEquationSolution/utils"
)

// Debug enables NaN-propagation assertions around the tensor stages. They
// cost a full pass per stage, so they are off unless a test or a
// troubleshooting run turns them on.
var Debug bool

// EFE carries the problem: the grid geometry, the primitive state, the
// read-only source grids and the scratch tensor grids the pipeline rewrites
// on every residual evaluation.
type EFE struct {
	IP *InputParameters.Parameters

	Body     BodyType
	InitCond InitCondType
	Solver   SolverType

	// body parameters, geometrized meters
	Radius, Mass, Density, SurfaceB float64

	Xmin, Xmax [3]float64
	Dx         [3]float64
	L          grid.Layout
	Partitions *utils.PartitionMap
	Order      int // finite-difference stencil order

	Xs *grid.Grid[tensor.Vec3] // cell-center world coordinates

	// solver state and read-only inputs
	MetricPrims   PrimGrid
	DtMetricPrims PrimGrid
	StressEnergy  *grid.Grid[StressEnergyPrims]

	// scratch, owned by the residual evaluation; never read across calls
	GLL   *grid.Grid[tensor.Sym4]
	GUU   *grid.Grid[tensor.Sym4]
	DtGLL *grid.Grid[tensor.Sym4]
	Conns *grid.Grid[tensor.Conn]
}

// NewEFE validates the configuration, allocates every grid and initializes
// coordinates, stress-energy primitives and the metric initial condition.
func NewEFE(ip *InputParameters.Parameters) (c *EFE, err error) {
	c = &EFE{IP: ip}
	if c.Body, err = NewBodyType(ip.Body); err != nil {
		return nil, err
	}
	if c.InitCond, err = NewInitCondType(ip.InitCond); err != nil {
		return nil, err
	}
	if c.Solver, err = NewSolverType(ip.Solver); err != nil {
		return nil, err
	}
	if c.InitCond.RequiresSphericalBody() && !c.Body.IsSpherical() {
		return nil, fmt.Errorf("initial condition %q requires a spherical body, have %q", ip.InitCond, ip.Body)
	}
	switch ip.StencilOrder {
	case 2, 4, 6, 8:
		c.Order = ip.StencilOrder
	default:
		return nil, fmt.Errorf("unsupported stencil order %d, supported: %v", ip.StencilOrder, grid.StencilOrders())
	}

	c.Body.SetParameters(c)

	var (
		N    = ip.Size
		size = [3]int{N, N, N}
	)
	c.L = grid.NewLayout(size)
	for d := 0; d < 3; d++ {
		c.Xmin[d] = -ip.BodyRadii * c.Radius
		c.Xmax[d] = ip.BodyRadii * c.Radius
		c.Dx[d] = (c.Xmax[d] - c.Xmin[d]) / float64(size[d])
	}
	c.Partitions = utils.NewPartitionMap(ip.ParallelDegree, c.L.Volume())

	TimeStage("allocating", func() {
		fmt.Println()
		var total int
		report := func(name string, bytes int) {
			total += bytes
			fmt.Printf("%s: %d bytes, running total: %d\n", name, bytes, total)
		}
		c.Xs = grid.New[tensor.Vec3](size)
		report("xs", c.Xs.ByteSize())
		c.MetricPrims = NewPrimGrid(size)
		report("metricPrims", c.MetricPrims.ByteSize())
		c.DtMetricPrims = NewPrimGrid(size)
		report("dt_metricPrims", c.DtMetricPrims.ByteSize())
		c.StressEnergy = grid.New[StressEnergyPrims](size)
		report("stressEnergyPrims", c.StressEnergy.ByteSize())
		c.GLL = grid.New[tensor.Sym4](size)
		report("gLLs", c.GLL.ByteSize())
		c.GUU = grid.New[tensor.Sym4](size)
		report("gUUs", c.GUU.ByteSize())
		c.DtGLL = grid.New[tensor.Sym4](size)
		report("dt_gLLs", c.DtGLL.ByteSize())
		c.Conns = grid.New[tensor.Conn](size)
		report("connULLs", c.Conns.ByteSize())
	})

	TimeStage("calculating grid", func() {
		grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
			xi := c.Xs.At(i)
			for d := 0; d < 3; d++ {
				xi[d] = c.Xmin[d] + (float64(i[d])+.5)*c.Dx[d]
			}
		})
	})

	TimeStage("calculating stress-energy primitives", func() {
		c.Body.InitStressEnergy(c)
	})

	TimeStage("calculating metric primitives", func() {
		c.InitCond.Initialize(c)
	})
	return
}

// N is the flattened primitive vector length, 10 per cell.
func (c *EFE) N() int {
	return PrimsPerCell * c.L.Volume()
}

// TimeStage runs f and prints "name ... (1.23s)".
func TimeStage(name string, f func()) {
	fmt.Printf("%s ... ", name)
	start := time.Now()
	f()
	fmt.Printf("(%gs)\n", time.Since(start).Seconds())
}

func assertFinite(where string, idx int, vals ...float64) {
	for _, v := range vals {
		if v != v {
			panic(fmt.Sprintf("%s: NaN at cell %d", where, idx))
		}
	}
}
