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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/hydro1d/InputParameters"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/solver"
	"github.com/notargets/hydro1d/tools/convOrder"
)

// ConvergenceCmd runs one case on a sequence of grids against its exact solution
var ConvergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Grid convergence study of the density error",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip        = InputParameters.NewInputParameters1D()
			flags     = cmd.Flags()
			input, _  = flags.GetString("inputFile")
			cells, _  = flags.GetIntSlice("grids")
			csvOut, _ = flags.GetString("csvFile")
		)
		if len(input) != 0 {
			if ip, err = InputParameters.ReadFile(input); err != nil {
				return
			}
		} else {
			ip.Case = "densitywave"
			ip.FinalTime = 1
		}
		if flags.Changed("case") {
			ip.Case, _ = flags.GetString("case")
		}
		if flags.Changed("integrator") {
			ip.Integrator, _ = flags.GetString("integrator")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		cs, err := RunConvergence(ctx, ip, cells, os.Stdout)
		if err != nil || len(csvOut) == 0 {
			return
		}
		f, err := os.Create(csvOut)
		if err != nil {
			return
		}
		defer func() { _ = f.Close() }()
		return convOrder.WriteCSV(f, cs)
	},
}

func init() {
	rootCmd.AddCommand(ConvergenceCmd)
	ConvergenceCmd.Flags().StringP("inputFile", "I", "", "YAML input file, the Cells key is ignored")
	ConvergenceCmd.Flags().IntSlice("grids", []int{25, 50, 100, 200}, "Cell counts to run, increasing")
	ConvergenceCmd.Flags().StringP("case", "c", "densitywave", "Case with an exact solution")
	ConvergenceCmd.Flags().StringP("integrator", "i", "rkf45", "Butcher tableau")
	ConvergenceCmd.Flags().String("csvFile", "", "CSV file to write the error norms to")
}

func RunConvergence(ctx context.Context, ip *InputParameters.InputParameters1D, cells []int, w io.Writer) (cs *convOrder.Study, err error) {
	cs = convOrder.NewStudy(fmt.Sprintf("%s, %s, %s", ip.Case, ip.Physics, ip.Integrator))
	for _, n := range cells {
		var (
			run   = *ip
			su    *InputParameters.Setup
			sv    *solver.Solver
			res   *solver.Result
			exact []float64
		)
		run.Cells = n
		if su, err = run.Setup(); err != nil {
			return
		}
		if sv, err = solver.New(su.Config, su.InitialPrims); err != nil {
			return
		}
		if res, err = sv.Solve(ctx); err != nil {
			return
		}
		if exact, err = su.Case.ExactDensity(su.Config.Mesh, su.Config.Physics, res.Final.Time); err != nil {
			return
		}
		rho := res.Final.Field(physics.JRho)
		floats.Sub(rho, exact)
		cs.Add(n, rho)
		fmt.Fprintf(w, "%d cells done in %d iterations\n", n, res.Iterations)
	}
	cs.Print(w)
	return
}
