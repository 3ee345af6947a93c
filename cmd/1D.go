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
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/hydro1d/InputParameters"
	"github.com/notargets/hydro1d/output"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/solver"
	"github.com/notargets/hydro1d/telemetry"
)

// OneDCmd represents the 1D command
var OneDCmd = &cobra.Command{
	Use:   "1D",
	Short: "One dimensional hydrodynamics model problems",
	Long: `
Executes the finite volume solver for a set of model problems. Parameters come
from an optional YAML input file (-I), overridden by the config file, HYDRO1D_*
environment variables and finally by flags given on the command line,

hydro1d 1D -I sod.yaml --db runs.db --plot density`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m1d := &Model1D{
			InputFile:   viper.GetString("inputFile"),
			DBPath:      viper.GetString("db"),
			CSVDir:      viper.GetString("csv"),
			MetricsFile: viper.GetString("metrics"),
			PlotField:   viper.GetString("plot"),
			Profile:     viper.GetString("profile"),
			Verbose:     !viper.GetBool("quiet"),
		}
		ip := InputParameters.NewInputParameters1D()
		if len(m1d.InputFile) != 0 {
			if ip, err = InputParameters.ReadFile(m1d.InputFile); err != nil {
				return
			}
		}
		overlayFlags(ip)
		switch strings.ToLower(m1d.Profile) {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
		default:
			return fmt.Errorf("unknown profile %q, must be cpu or mem", m1d.Profile)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return Run1D(ctx, m1d, ip, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(OneDCmd)
	var (
		ip    = InputParameters.NewInputParameters1D()
		flags = OneDCmd.Flags()
	)
	flags.StringP("inputFile", "I", "", "YAML file for input parameters like:\n\t- Case\n\t- Cells\n\t- CFL")
	flags.StringP("case", "c", ip.Case, "Case to run: sod, riemann, noh, uniform, densitywave")
	flags.IntP("cells", "k", ip.Cells, "Number of interior cells")
	flags.Float64("xMin", ip.XMin, "Left edge of the domain")
	flags.Float64("xMax", ip.XMax, "Right edge of the domain")
	flags.Float64("CFL", ip.CFL, "CFL - increase for speedup, decrease for stability")
	flags.Float64("finalTime", ip.FinalTime, "FinalTime - the target end time for the sim")
	flags.Float64("tolerance", ip.Tolerance, "Relative error tolerance of the adaptive integrator")
	flags.Float64("absTolerance", ip.AbsoluteTolerance, "Absolute error tolerance of the adaptive integrator")
	flags.Float64("minDt", ip.MinDt, "Smallest step size before the run is stopped")
	flags.Float64("maxDt", ip.MaxDt, "Largest step size, 0 for no limit")
	flags.Int("maxIterations", ip.MaxIterations, "Iteration limit, 0 for no limit")
	flags.IntP("outputs", "o", ip.Outputs, "Number of evenly spaced snapshots")
	flags.String("physics", ip.Physics, "Equation of state: adiabatic or isothermal")
	flags.Float64("gamma", ip.Gamma, "Ratio of specific heats for adiabatic physics")
	flags.Float64("soundSpeed", ip.SoundSpeed, "Sound speed for isothermal physics")
	flags.StringP("integrator", "i", ip.Integrator, "Butcher tableau: rk1, rk2, rk3, rk4, heun2, rkf12, rkf45, ssprk3, ssprk5")
	flags.String("flux", ip.FluxType, "Numerical flux: hll")
	flags.String("west", "", "West boundary: outflow, reflecting, periodic")
	flags.String("east", "", "East boundary: outflow, reflecting, periodic")
	flags.Bool("validate", ip.Validate, "Stop on non-physical states")
	flags.IntP("parallel", "p", ip.ParallelDegree, "Parallel degree, 0 uses every CPU")
	flags.String("db", "", "SQLite file to archive the run in")
	flags.String("csv", "", "Directory to write CSV snapshots to")
	flags.String("metrics", "", "File to write prometheus metrics to at the end of the run")
	flags.String("plot", "density", "Field to plot at the end of the run, empty for none")
	flags.String("profile", "", "Write a cpu or mem profile to the current directory")
	flags.BoolP("quiet", "q", false, "Only report errors and the final result")
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
}

type Model1D struct {
	InputFile   string
	DBPath      string
	CSVDir      string
	MetricsFile string
	PlotField   string
	Profile     string
	Verbose     bool
}

// overlayFlags replaces input file values with those set by flag, env or
// config file.
func overlayFlags(ip *InputParameters.InputParameters1D) {
	str := func(key string, p *string) {
		if viper.IsSet(key) {
			*p = viper.GetString(key)
		}
	}
	num := func(key string, p *float64) {
		if viper.IsSet(key) {
			*p = viper.GetFloat64(key)
		}
	}
	cnt := func(key string, p *int) {
		if viper.IsSet(key) {
			*p = viper.GetInt(key)
		}
	}
	str("case", &ip.Case)
	cnt("cells", &ip.Cells)
	num("xMin", &ip.XMin)
	num("xMax", &ip.XMax)
	num("CFL", &ip.CFL)
	num("finalTime", &ip.FinalTime)
	num("tolerance", &ip.Tolerance)
	num("absTolerance", &ip.AbsoluteTolerance)
	num("minDt", &ip.MinDt)
	num("maxDt", &ip.MaxDt)
	cnt("maxIterations", &ip.MaxIterations)
	cnt("outputs", &ip.Outputs)
	str("physics", &ip.Physics)
	num("gamma", &ip.Gamma)
	num("soundSpeed", &ip.SoundSpeed)
	str("integrator", &ip.Integrator)
	str("flux", &ip.FluxType)
	cnt("parallel", &ip.ParallelDegree)
	if viper.IsSet("validate") {
		ip.Validate = viper.GetBool("validate")
	}
	for _, edge := range []string{"West", "East"} {
		if key := strings.ToLower(edge); viper.IsSet(key) {
			if ip.BCs == nil {
				ip.BCs = make(map[string]InputParameters.BCInput)
			}
			ip.BCs[edge] = InputParameters.BCInput{Type: viper.GetString(key)}
		}
	}
}

func Run1D(ctx context.Context, m1d *Model1D, ip *InputParameters.InputParameters1D, w io.Writer) (err error) {
	var (
		su      *InputParameters.Setup
		sv      *solver.Solver
		res     *solver.Result
		store   *output.Store
		metrics *telemetry.Metrics
	)
	if su, err = ip.Setup(); err != nil {
		return
	}
	if m1d.Verbose {
		ip.Print(w)
	}
	cfg := su.Config
	cfg.Verbose = m1d.Verbose
	cfg.Out = w
	if sv, err = solver.New(cfg, su.InitialPrims); err != nil {
		return
	}
	if len(m1d.CSVDir) != 0 {
		var cw *output.CSVWriter
		if cw, err = output.NewCSVWriter(m1d.CSVDir, "hydro1d"); err != nil {
			return
		}
		sv.AddObserver(cw)
	}
	if len(m1d.MetricsFile) != 0 {
		metrics = telemetry.NewMetrics()
		sv.AddObserver(metrics)
	}
	if len(m1d.DBPath) != 0 {
		if store, err = output.OpenStore(m1d.DBPath); err != nil {
			return
		}
		defer func() { _ = store.Close() }()
		var id string
		id, err = store.BeginRun(output.RunMetadata{
			Title:      ip.Title,
			Case:       su.Case.Type.Print(),
			Physics:    cfg.Physics.Name(),
			Integrator: sv.Integrator.Tableau.Name,
			Flux:       cfg.Flux.Print(),
			Cells:      cfg.Mesh.NumInterior(),
			XMin:       cfg.Mesh.XMin,
			XMax:       cfg.Mesh.XMax,
			CFL:        cfg.CFL,
			FinalTime:  cfg.FinalTime,
		})
		if err != nil {
			return
		}
		fmt.Fprintf(w, "Archiving run %s in %s\n", id, store.Path())
		sv.AddObserver(store)
	}

	res, err = sv.Solve(ctx)
	if store != nil {
		status, msg := output.RunFinished, ""
		if err != nil {
			status, msg = output.RunFailed, err.Error()
		}
		if ferr := store.FinishRun(status, msg); err == nil {
			err = ferr
		}
	}
	if metrics != nil {
		if merr := metrics.WriteToTextfile(m1d.MetricsFile); err == nil {
			err = merr
		}
	}
	if err != nil {
		var se *solver.SimulationError
		if errors.As(err, &se) && se.LastGood != nil {
			fmt.Fprintf(w, "Last good state at t = %g, iteration %d\n", se.LastGood.Time, se.LastGood.Iteration)
		}
		return
	}

	var exact []float64
	if rho, e := su.Case.ExactDensity(cfg.Mesh, cfg.Physics, res.Final.Time); e == nil {
		exact = rho
		l1 := floats.Distance(res.Final.Field(physics.JRho), exact, 1) / float64(len(exact))
		fmt.Fprintf(w, "Density L1 error vs exact = %8.5e\n", l1)
	}
	if len(m1d.PlotField) != 0 {
		var refs [][]float64
		if m1d.PlotField == res.Final.PrimitiveNames[physics.JRho] && exact != nil {
			refs = append(refs, exact)
		}
		var txt string
		if txt, err = output.Plot(res.Final, m1d.PlotField, refs...); err != nil {
			return
		}
		fmt.Fprintln(w, txt)
	}
	return
}
