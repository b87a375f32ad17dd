package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type Parameters struct {
	Title             string  `yaml:"Title"`
	Size              int     `yaml:"Size"`              // cubic grid edge
	BodyRadii         float64 `yaml:"BodyRadii"`         // half-edge of the domain in body radii
	MaxIterations     int     `yaml:"MaxIterations"`     // outer cap; 0 skips the solve, negative is unbounded
	Body              string  `yaml:"Body"`              // earth | sun | em_field | em_line
	InitCond          string  `yaml:"InitCond"`          // flat | stellar_schwarzschild | stellar_kerr_newman | em_field | em_line
	Solver            string  `yaml:"Solver"`            // jfnk | gmres | conjres | conjgrad
	StencilOrder      int     `yaml:"StencilOrder"`      // 2 | 4 | 6 | 8
	ParallelDegree    int     `yaml:"ParallelDegree"`    // worker pool size
	LineSearch        string  `yaml:"LineSearch"`        // bisect | linear | none
	LineSearchMaxIter int     `yaml:"LineSearchMaxIter"` // halvings before a step is rejected
	NewtonTolerance   float64 `yaml:"NewtonTolerance"`   // outer stop, g/cm^3
	GMRESTolerance    float64 `yaml:"GMRESTolerance"`
	GMRESRestart      int     `yaml:"GMRESRestart"`
	JacobianEpsilon   float64 `yaml:"JacobianEpsilon"` // forward-difference step of the Jacobian action
	OutputFilename    string  `yaml:"OutputFilename"`  // tab-separated observables table
	JFNKLogFile       string  `yaml:"JFNKLogFile"`
	GMRESLogFile      string  `yaml:"GMRESLogFile"`
}

// NewParameters returns the defaults; Parse overrides whatever the file sets.
func NewParameters() (ip *Parameters) {
	ip = &Parameters{
		Title:             "EFE constraint solve",
		Size:              16,
		BodyRadii:         2,
		MaxIterations:     -1,
		Body:              "earth",
		InitCond:          "stellar_schwarzschild",
		Solver:            "jfnk",
		StencilOrder:      8,
		ParallelDegree:    8,
		LineSearch:        "bisect",
		LineSearchMaxIter: 20,
		NewtonTolerance:   1e-7,
		GMRESTolerance:    1e-7,
		GMRESRestart:      10,
		JacobianEpsilon:   1e-6,
	}
	return
}

func (ip *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%d\t\t\t= Size\n", ip.Size)
	fmt.Printf("%8.5f\t\t= BodyRadii\n", ip.BodyRadii)
	fmt.Printf("%d\t\t\t= MaxIterations\n", ip.MaxIterations)
	fmt.Printf("[%s]\t\t\t= Body\n", ip.Body)
	fmt.Printf("[%s]\t= InitCond\n", ip.InitCond)
	fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver)
	fmt.Printf("[%d]\t\t\t= Stencil Order\n", ip.StencilOrder)
	fmt.Printf("[%d]\t\t\t= Parallel Degree\n", ip.ParallelDegree)
	fmt.Printf("[%s]\t\t= Line Search\n", ip.LineSearch)
	fmt.Printf("%8.2e\t\t= Newton Tolerance\n", ip.NewtonTolerance)
	fmt.Printf("%8.2e\t\t= GMRES Tolerance\n", ip.GMRESTolerance)
}
