package efe

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Dttination/EinsteinFieldEquationSolution/grid"
	"github.com/Dttination/EinsteinFieldEquationSolution/tensor"
	"github.com/Dttination/EinsteinFieldEquationSolution/utils"
)

// Observables are the derived quantities reported after the solve.
type Observables struct {
	EFEGrid           *grid.Grid[tensor.Sym4] // G_ab - 8 pi T_ab
	NumericalGravity  *grid.Grid[float64]     // m/s^2, from the connection
	AnalyticalGravity *grid.Grid[float64]     // m/s^2, Schwarzschild closed form
}

/*
CalcObservables reruns the tensor pipeline on the final primitives and
derives the constraint grid plus the two gravity fields.

Numerical gravity changes coordinates from Gamma^i_tt to Gamma^r_tt with
dr/dx^i = x^i/r, times c^2 for the two timelike components of the
acceleration.
*/
func (c *EFE) CalcObservables() (obs *Observables) {
	obs = &Observables{}
	TimeStage("calculating EFE constraint", func() {
		obs.EFEGrid = c.ConstraintGrid(c.MetricPrims)
	})

	obs.NumericalGravity = grid.New[float64](c.L.Size)
	TimeStage("calculating numerical gravitational force", func() {
		grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
			var (
				xi   = *c.Xs.At(i)
				r    = math.Sqrt(xi.Dot(xi))
				conn = c.Conns.At(i)
			)
			*obs.NumericalGravity.At(i) = (conn.At(1, 0, 0)*xi[0]/r +
				conn.At(2, 0, 0)*xi[1]/r +
				conn.At(3, 0, 0)*xi[2]/r) *
				SpeedOfLight * SpeedOfLight
		})
	})

	obs.AnalyticalGravity = grid.New[float64](c.L.Size)
	TimeStage("calculating analytical gravitational force", func() {
		grid.ForEachParallel(c.L, c.Partitions, func(idx int, i [3]int) {
			var (
				xi           = *c.Xs.At(i)
				r            = math.Sqrt(xi.Dot(xi))
				matterRadius = math.Min(r, c.Radius)
				m            = c.Density * sphereVolume(matterRadius)
			)
			// enclosed-mass derivative left out; with it the lapse of
			// stellarSchwarzschild no longer matches this closed form
			dmdr := 0.
			*obs.AnalyticalGravity.At(i) = (2.*m*(r-2.*m) + 2.*dmdr*r*(2.*m-r)) / (2. * utils.POW(r, 3)) *
				SpeedOfLight * SpeedOfLight
		})
	})
	return
}

// observableColumns is the output table; EinsteinAt stays valid here because
// CalcObservables leaves the scratch grids at the final primitives.
func (c *EFE) observableColumns(obs *Observables) (names []string, funcs []func(idx int, i [3]int) float64) {
	names = []string{
		"ix", "iy", "iz",
		"rho",
		"det-1",
		"alpha-1",
		"gravity",
		"analyticalGravity",
		"EFE_tt(g/cm^3)",
		"EFE_ti",
		"EFE_ij",
		"G_ab",
	}
	funcs = []func(idx int, i [3]int) float64{
		func(idx int, i [3]int) float64 { return float64(i[0]) },
		func(idx int, i [3]int) float64 { return float64(i[1]) },
		func(idx int, i [3]int) float64 { return float64(i[2]) },
		func(idx int, i [3]int) float64 { return c.StressEnergy.At(i).Rho },
		func(idx int, i [3]int) float64 { return c.MetricPrims.At(idx).GammaLL.Det() - 1 },
		func(idx int, i [3]int) float64 { return c.MetricPrims.At(idx).Alpha - 1 },
		func(idx int, i [3]int) float64 { return *obs.NumericalGravity.At(i) },
		func(idx int, i [3]int) float64 { return *obs.AnalyticalGravity.At(i) },
		func(idx int, i [3]int) float64 {
			return DensityScale(obs.EFEGrid.At(i).At(0, 0))
		},
		func(idx int, i [3]int) float64 {
			t := obs.EFEGrid.At(i)
			return math.Sqrt(t.At(0, 1)*t.At(0, 1)+t.At(0, 2)*t.At(0, 2)+t.At(0, 3)*t.At(0, 3)) * SpeedOfLight
		},
		func(idx int, i [3]int) float64 {
			t := obs.EFEGrid.At(i)
			var sum float64
			for a := 1; a < 4; a++ {
				for b := 1; b < 4; b++ {
					sum += t.At(a, b) * t.At(a, b)
				}
			}
			return math.Sqrt(sum)
		},
		func(idx int, i [3]int) float64 {
			G := c.EinsteinAt(i)
			var sum float64
			for a := 0; a < 4; a++ {
				for b := 0; b < 4; b++ {
					sum += G.At(a, b) * G.At(a, b)
				}
			}
			return math.Sqrt(sum)
		},
	}
	return
}

// WriteObservables emits the tab-separated table, one row per cell in
// lexicographic order.
func (c *EFE) WriteObservables(w io.Writer, obs *Observables) (err error) {
	names, funcs := c.observableColumns(obs)
	fmt.Fprintf(w, "#")
	for ci, name := range names {
		if ci > 0 {
			fmt.Fprintf(w, "\t")
		}
		fmt.Fprintf(w, "%s", name)
	}
	fmt.Fprintln(w)
	for idx := 0; idx < c.L.Volume(); idx++ {
		i := c.L.Coord(idx)
		for ci := range funcs {
			if ci > 0 {
				fmt.Fprintf(w, "\t")
			}
			if _, err = fmt.Fprintf(w, "%.16e", funcs[ci](idx, i)); err != nil {
				return
			}
		}
		fmt.Fprintln(w)
	}
	return
}

// WriteObservablesFile writes the table to the configured path.
func (c *EFE) WriteObservablesFile(path string, obs *Observables) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()
	var werr error
	TimeStage("outputting", func() {
		werr = c.WriteObservables(f, obs)
	})
	return werr
}

// PrintConstraintStats prints the tt-constraint range and a 256-bin
// distribution over the grid.
func (c *EFE) PrintConstraintStats(obs *Observables) {
	var (
		min = math.Inf(1)
		max = math.Inf(-1)
	)
	for idx := range obs.EFEGrid.Cells {
		v := obs.EFEGrid.Cells[idx].At(0, 0)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	fmt.Printf("EFE_tt range: %g to %g\n", min, max)
	if max == min {
		return
	}

	const bins = 256
	distr := make([]int, bins)
	for idx := range obs.EFEGrid.Cells {
		v := obs.EFEGrid.Cells[idx].At(0, 0)
		bin := int((v - min) / (max - min) * bins)
		if bin == bins {
			bin--
		}
		distr[bin]++
	}
	fmt.Println("EFE_tt:")
	for i := 0; i < bins; i++ {
		delta := max - min
		fmt.Printf("%g\t%g\t%d\n",
			delta*float64(i)/bins+min,
			delta*float64(i+1)/bins+min,
			distr[i])
	}
}
