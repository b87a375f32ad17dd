/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/Dttination/EinsteinFieldEquationSolution/InputParameters"
	"github.com/Dttination/EinsteinFieldEquationSolution/efe"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve the EFE constraint for the configured body and write observables",
	Long: `Solve the EFE constraint for the configured body and write observables.

All problem parameters come from a YAML input file; every key has a default,
so the file itself is optional.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err    error
			icFile string
		)
		if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		ip := processInput(icFile)
		if cmd.Flags().Changed("size") {
			ip.Size, _ = cmd.Flags().GetInt("size")
		}
		if cmd.Flags().Changed("maxIterations") {
			ip.MaxIterations, _ = cmd.Flags().GetInt("maxIterations")
		}
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			defer profile.Start().Stop()
		}
		RunSolve(ip)
	},
}

func processInput(icFile string) (ip *InputParameters.Parameters) {
	ip = InputParameters.NewParameters()
	if len(icFile) == 0 {
		return
	}
	data, err := os.ReadFile(icFile)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Earth at rest"
Size: 16
BodyRadii: 2
Body: earth            # earth, sun, em_field, em_line
InitCond: stellar_schwarzschild
Solver: jfnk           # jfnk, gmres, conjres, conjgrad
StencilOrder: 8
MaxIterations: 10
OutputFilename: out.txt
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if err = ip.Parse(data); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	return
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Size\n\t- Body\n\t- Solver")
	SolveCmd.Flags().IntP("size", "s", 16, "cubic grid edge, overrides the input file")
	SolveCmd.Flags().IntP("maxIterations", "m", -1, "outer iteration cap, overrides the input file; 0 skips the solve")
	SolveCmd.Flags().BoolP("profile", "p", false, "write a CPU profile of the solve")
}

func RunSolve(ip *InputParameters.Parameters) {
	ip.Print()

	c, err := efe.NewEFE(ip)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	volume := 4. / 3. * math.Pi * c.Radius * c.Radius * c.Radius
	fmt.Printf("mass=%g\n", c.Mass)
	fmt.Printf("radius=%g\n", c.Radius)
	fmt.Printf("volume=%g\n", volume)
	fmt.Printf("density=%g\n", c.Density)

	efe.TimeStage("solving", func() {
		err = c.Solve()
	})
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}

	obs := c.CalcObservables()
	if ip.OutputFilename != "" {
		if err = c.WriteObservablesFile(ip.OutputFilename, obs); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	}
	c.PrintConstraintStats(obs)
	fmt.Println("done!")
}
