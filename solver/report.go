package solver

import (
	"fmt"

	"github.com/notargets/hydro1d/physics"
)

func (sv *Solver) PrintInitialization() {
	var (
		w = sv.Out
		m = sv.Mesh
	)
	fmt.Fprintf(w, "%s in 1 Dimension\n", sv.Physics.Name())
	fmt.Fprintf(w, "Cells = %d, x = [%g, %g], dx = %8.5e\n", m.NumInterior(), m.XMin, m.XMax, m.DX)
	fmt.Fprintf(w, "Flux = %s, Integrator = %s, CFL = %8.4f, Tolerance = %8.2e, AbsoluteTolerance = %8.2e\n",
		sv.Flux.Print(), sv.Integrator.Tableau.Name, sv.CFL, sv.RelTol, sv.AbsTol)
	fmt.Fprintf(w, "BCs: West = %s, East = %s, Parallel Degree = %d\n", sv.West, sv.East, sv.pm.ParallelDegree)
	fmt.Fprintf(w, "Solving until finaltime = %8.5f\n", sv.FinalTime)
	fmt.Fprintf(w, "    iter    time          dt  limit  rejects    err_est    min_rho")
	if sv.Physics.HasPressure() {
		fmt.Fprintf(w, "      min_p")
	}
	fmt.Fprintf(w, "\n")
}

func (sv *Solver) PrintUpdate(info StepInfo) {
	format := "%11.4e"
	w := sv.Out
	fmt.Fprintf(w, "%8d%8.5f%12.4e%7s%9d", info.Iteration, info.Time, info.Dt, info.Kind, info.Outcome.Rejections)
	fmt.Fprintf(w, format, info.Outcome.ErrorEstimate)
	fmt.Fprintf(w, format, sv.State.MinPrimitive(physics.JRho))
	if sv.Physics.HasPressure() {
		fmt.Fprintf(w, format, sv.State.MinPrimitive(physics.JPressure))
	}
	fmt.Fprintf(w, "\n")
}

func (sv *Solver) PrintFinal(res *Result) {
	var (
		w      = sv.Out
		st     = res.Statistics
		cells  = sv.Mesh.NumInterior()
		totals = sv.State.Totals()
	)
	fmt.Fprintf(w, "Accepted = %d, Rejected = %d, RHS Evaluations = %d\n", st.Accepted, st.Rejected, st.RHSEvaluations)
	fmt.Fprintf(w, "Totals:")
	for n, name := range sv.Physics.ConservedNames() {
		fmt.Fprintf(w, " %s = %.8e", name, totals[n])
	}
	fmt.Fprintf(w, "\n")
	if res.Iterations > 0 {
		rate := float64(res.Elapsed.Microseconds()) / float64(cells*res.Iterations)
		fmt.Fprintf(w, "\nRate of execution = %8.5f us/(cell*iteration) over %d iterations\n", rate, res.Iterations)
	}
}
