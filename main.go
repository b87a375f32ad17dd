package main

import (
	"github.com/Dttination/EinsteinFieldEquationSolution/cmd"
)

func main() {
	cmd.Execute()
}
