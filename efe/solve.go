package efe

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/Dttination/EinsteinFieldEquationSolution/solvers"
)

// SolverType selects the driver for the constraint system.
type SolverType uint8

const (
	JFNK_SOLVER SolverType = iota
	GMRES_SOLVER
	CONJRES_SOLVER
	CONJGRAD_SOLVER
)

var solverNames = map[string]SolverType{
	"jfnk":     JFNK_SOLVER,
	"gmres":    GMRES_SOLVER,
	"conjres":  CONJRES_SOLVER,
	"conjgrad": CONJGRAD_SOLVER,
}

func NewSolverType(label string) (s SolverType, err error) {
	s, ok := solverNames[label]
	if !ok {
		err = fmt.Errorf("couldn't find solver named %q", label)
	}
	return
}

func (s SolverType) Print() string {
	for name, ss := range solverNames {
		if ss == s {
			return name
		}
	}
	return "unknown"
}

/*
Solve drives the constraint residual to zero with the configured driver.

JFNK is the default and the only driver that treats the problem as what it
is: nonlinear. The pure Krylov drivers feed the same residual pipeline as if
G_ab were a linear operator with 8 pi T_ab fixed at the initial metric; with
a flat initial guess G_ab(x) annihilates and their bases go singular, so
they are kept as diagnostics only.

Non-convergence is not an error: the best state found stays in the primitive
grid and the caller reports the final residual.
*/
func (c *EFE) Solve() (err error) {
	if c.IP.MaxIterations == 0 {
		return nil
	}
	var (
		n       = c.N()
		maxiter = c.IP.MaxIterations
		ip      = c.IP
	)
	if maxiter < 0 {
		maxiter = math.MaxInt32
	}

	var jfnkLog, gmresLog *os.File
	if ip.JFNKLogFile != "" {
		if jfnkLog, err = openLog(ip.JFNKLogFile, "#iter residual alpha"); err != nil {
			return err
		}
		defer jfnkLog.Close()
	}
	if ip.GMRESLogFile != "" {
		if gmresLog, err = openLog(ip.GMRESLogFile, "#jfnk_iter gmres_iter residual"); err != nil {
			return err
		}
		defer gmresLog.Close()
	}

	if c.Solver == JFNK_SOLVER {
		jfnk := &solvers.JFNK{
			N:                 n,
			X:                 c.MetricPrims.Data,
			F:                 c.ConstraintMap,
			Epsilon:           ip.NewtonTolerance,
			MaxIter:           maxiter,
			JacobianEpsilon:   ip.JacobianEpsilon,
			MaxAlpha:          1,
			LineSearchMaxIter: ip.LineSearchMaxIter,
			// residual in g/cm^3 so a human can read it against the source
			// density
			CalcResidual: func(r []float64, alpha float64) float64 {
				return DensityScale(floats.Norm(r, 2))
			},
		}
		if jfnk.LineSearch, err = solvers.NewLineSearchType(ip.LineSearch); err != nil {
			return err
		}
		jfnk.MakeLinearSolver = func(nn int, dx, b []float64, A solvers.Func) *solvers.GMRES {
			g := solvers.NewGMRES(nn, dx, b, A, ip.GMRESTolerance, nn, ip.GMRESRestart)
			// rescale the preconditioned residual into density units too;
			// without it the raw 1/m^2 components stop GMRES far too early
			g.MInv = func(y, x []float64) {
				for i := range x {
					y[i] = DensityScale(x[i])
				}
			}
			g.StopCallback = func() bool {
				fmt.Printf("gmres iter=%d residual=%.16e\n", g.Iter(), g.Residual())
				if gmresLog != nil {
					fmt.Fprintf(gmresLog, "%d\t%d\t%.16e\n", jfnk.Iter(), g.Iter(), g.Residual())
				}
				return false
			}
			return g
		}
		jfnk.StopCallback = func() bool {
			fmt.Printf("jfnk iter=%d alpha=%g residual=%.16e\n", jfnk.Iter(), jfnk.Alpha(), jfnk.Residual())
			if jfnkLog != nil {
				fmt.Fprintf(jfnkLog, "%d\t%.16e\t%g\n", jfnk.Iter(), jfnk.Residual(), jfnk.Alpha())
			}
			return false
		}
		err = jfnk.Solve()
		reportSolverExit("jfnk", err, jfnk.Residual())
		return nil
	}

	// pure Krylov drivers: b = 8 pi T_ab at the initial metric, held fixed
	b := make([]float64, n)
	c.CalcMetricTensors(c.MetricPrims)
	c.Calc8PiTVector(b, c.MetricPrims)

	var (
		name   = c.Solver.Print()
		driver interface {
			Solve() error
			Iter() int
			Residual() float64
		}
	)
	switch c.Solver {
	case GMRES_SOLVER:
		g := solvers.NewGMRES(n, c.MetricPrims.Data, b, c.EinsteinMap, ip.GMRESTolerance, maxiter, ip.GMRESRestart)
		g.StopCallback = func() bool {
			fmt.Printf("%s iter %d residual %.16e\n", name, g.Iter(), g.Residual())
			return false
		}
		driver = g
	case CONJRES_SOLVER:
		s := solvers.NewConjRes(n, c.MetricPrims.Data, b, c.EinsteinMap, ip.GMRESTolerance, maxiter)
		s.StopCallback = func() bool {
			fmt.Printf("%s iter %d residual %.16e\n", name, s.Iter(), s.Residual())
			return false
		}
		driver = s
	case CONJGRAD_SOLVER:
		s := solvers.NewConjGrad(n, c.MetricPrims.Data, b, c.EinsteinMap, ip.GMRESTolerance, maxiter)
		s.StopCallback = func() bool {
			fmt.Printf("%s iter %d residual %.16e\n", name, s.Iter(), s.Residual())
			return false
		}
		driver = s
	}
	err = driver.Solve()
	reportSolverExit(name, err, driver.Residual())
	return nil
}

func reportSolverExit(name string, err error, residual float64) {
	if err != nil {
		fmt.Printf("%s exited with %v, final residual %.16e\n", name, err, residual)
		return
	}
	fmt.Printf("%s converged, final residual %.16e\n", name, residual)
}

func openLog(path, header string) (f *os.File, err error) {
	if f, err = os.Create(path); err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	fmt.Fprintln(f, header)
	return
}
