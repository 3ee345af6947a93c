package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/boundary"
	"github.com/notargets/hydro1d/integrator"
	"github.com/notargets/hydro1d/numflux"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/rhs"
	"github.com/notargets/hydro1d/utils"
	"github.com/notargets/hydro1d/validation"
)

// Observer receives a snapshot at t0, at every output time and at the
// final time. An error from an observer stops the run.
type Observer interface {
	OnSnapshot(snap *Snapshot) error
}

// StepObserver is notified after every accepted step.
type StepObserver interface {
	OnStep(info StepInfo)
}

type DtKind uint8

const (
	DtCFL DtKind = iota
	DtMax
	DtErrorControl
	DtOutput
)

var dtKindNames = []string{"CFL", "Max", "Error", "Output"}

func (dk DtKind) String() string { return dtKindNames[dk] }

type StepInfo struct {
	Iteration int
	Time      float64 // After the step
	Dt        float64
	Kind      DtKind
	Outcome   integrator.StepOutcome
	State     *physics.State // Read only, valid until the next step
}

type Result struct {
	Final      *Snapshot
	Iterations int
	Outputs    int
	Statistics integrator.Statistics
	Elapsed    time.Duration
}

type Solver struct {
	Config
	State        *physics.State
	Integrator   *integrator.RKF
	bc           *boundary.Handler
	pm           *utils.PartitionMap
	observers    []Observer
	stepWatchers []StepObserver
	iteration    int
	dt           float64
	t0, dtOut    float64
	outputCount  int
	nextOutput   float64
}

// Initialize builds a state from primitive values. initialPrims holds either
// the interior cells only or every cell of the mesh; ghost cells are always
// filled by the boundary handler.
func Initialize(mesh *FV1D.Mesh1D, phys physics.Physics, bc *boundary.Handler,
	initialPrims mat.Matrix, pm *utils.PartitionMap) (s *physics.State, err error) {
	var (
		nr, nc = initialPrims.Dims()
		neq    = phys.NumEquations()
		offset int
	)
	switch {
	case nc != neq:
		err = fmt.Errorf("%w: %d columns, %s has %d equations", ErrInitialState, nc, phys.Name(), neq)
		return
	case nr == mesh.NumInterior():
		offset = mesh.IMin
	case nr == mesh.S:
	default:
		err = fmt.Errorf("%w: %d rows, mesh has %d interior and %d total cells",
			ErrInitialState, nr, mesh.NumInterior(), mesh.S)
		return
	}
	s = physics.NewState(mesh, phys, pm)
	for i := 0; i < nr; i++ {
		mat.Row(s.Prim.RawRowView(i+offset), i, initialPrims)
	}
	s.UpdateConserved()
	s.UpdatePrimitives()
	bc.Apply(s)
	return
}

func New(cfg Config, initialPrims mat.Matrix, observers ...Observer) (sv *Solver, err error) {
	cfg.setDefaults()
	if err = cfg.check(); err != nil {
		return
	}
	var (
		m   = cfg.Mesh
		neq = cfg.Physics.NumEquations()
		pm  = utils.NewPartitionMap(utils.ParallelDegree(cfg.ParallelDegree, m.S), m.S)
		bt  *integrator.ButcherTableau
		bc  *boundary.Handler
		nf  numflux.NumericalFlux
	)
	if bt, err = integrator.NewTableau(cfg.Tableau); err != nil {
		return
	}
	if bc, err = boundary.NewHandler(cfg.West, cfg.East, m, cfg.Physics); err != nil {
		return
	}
	if nf, err = numflux.New(cfg.Flux, cfg.Physics); err != nil {
		return
	}
	sv = &Solver{
		Config:    cfg,
		bc:        bc,
		pm:        pm,
		observers: observers,
	}
	for _, o := range observers {
		if so, ok := o.(StepObserver); ok {
			sv.stepWatchers = append(sv.stepWatchers, so)
		}
	}
	v := validation.New(cfg.Validate)
	sv.Integrator, err = integrator.New(integrator.Params{
		Tableau: bt,
		CFL:     cfg.CFL,
		RelTol:  cfg.RelTol,
		AbsTol:  cfg.AbsTol,
		DtMin:   cfg.DtMin,
		DtMax:   cfg.DtMax,
	}, bc, rhs.NewAssembler(m, nf, neq), v)
	if err != nil {
		return nil, err
	}
	if sv.State, err = Initialize(m, cfg.Physics, bc, initialPrims, pm); err != nil {
		return nil, err
	}
	if err = v.Check(sv.State); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialState, err)
	}
	sv.t0 = sv.State.Time
	sv.dtOut = (cfg.FinalTime - sv.t0) / float64(cfg.Outputs)
	sv.nextOutput = sv.outputTime(1)
	sv.dt = cfg.InitialDt
	if sv.dt == 0 {
		sv.dt = sv.Integrator.CFLTimeStep(sv.State)
	}
	return
}

// AddObserver registers an observer after construction.
func (sv *Solver) AddObserver(o Observer) {
	sv.observers = append(sv.observers, o)
	if so, ok := o.(StepObserver); ok {
		sv.stepWatchers = append(sv.stepWatchers, so)
	}
}

func (sv *Solver) Iteration() int { return sv.iteration }

// Dt is the step size that will be proposed to the integrator next.
func (sv *Solver) Dt() float64 { return sv.dt }

func (sv *Solver) Finished() bool { return sv.State.Time >= sv.FinalTime }

func (sv *Solver) outputTime(k int) float64 {
	if k >= sv.Outputs {
		return sv.FinalTime
	}
	return sv.t0 + float64(k)*sv.dtOut
}

// Solve runs the time loop until the final time. The context is checked
// between steps.
func (sv *Solver) Solve(ctx context.Context) (res *Result, err error) {
	start := time.Now()
	if sv.Verbose {
		sv.PrintInitialization()
	}
	if sv.iteration == 0 {
		if err = sv.notify(TakeSnapshot(sv.State, 0, 0)); err != nil {
			return
		}
	}
	for !sv.Finished() {
		select {
		case <-ctx.Done():
			return nil, sv.fail(Canceled, sv.dt, ctx.Err())
		default:
		}
		var info StepInfo
		if info, err = sv.Step(); err != nil {
			return
		}
		if sv.Verbose && (sv.iteration%sv.ReportFrequency == 0 || sv.Finished()) {
			sv.PrintUpdate(info)
		}
	}
	res = &Result{
		Final:      TakeSnapshot(sv.State, sv.iteration, sv.Integrator.Statistics().LastDt),
		Iterations: sv.iteration,
		Outputs:    sv.outputCount,
		Statistics: sv.Integrator.Statistics(),
		Elapsed:    time.Since(start),
	}
	if sv.Verbose {
		sv.PrintFinal(res)
	}
	return
}

// Step takes one accepted integrator step, truncated so the solution lands
// exactly on the next output time. Snapshots due at the new time are sent
// to the observers.
func (sv *Solver) Step() (info StepInfo, err error) {
	if sv.MaxIterations > 0 && sv.iteration >= sv.MaxIterations {
		err = sv.fail(FatalNumerical, sv.dt, fmt.Errorf("%w: %d iterations, t = %g",
			ErrMaxIterations, sv.iteration, sv.State.Time))
		return
	}
	var (
		target    = sv.nextOutput
		dt        = sv.dt
		truncated bool
	)
	if sv.State.Time+dt >= target {
		dt = target - sv.State.Time
		truncated = true
	}
	dtNext, out := sv.Integrator.Step(sv.State, dt)
	if out.Status == integrator.Fatal {
		err = sv.fail(classify(out.Err), dt, out.Err)
		return
	}
	sv.iteration++
	reached := truncated && (out.DtUsed == dt || sv.State.Time >= target)
	info = StepInfo{
		Iteration: sv.iteration,
		Dt:        out.DtUsed,
		Kind:      sv.dtKind(out, reached),
		Outcome:   out,
		State:     sv.State,
	}
	if reached {
		sv.State.Time = target
		// A truncated step says nothing about the size the solution supports
		sv.dt = math.Max(sv.dt, dtNext)
	} else {
		sv.dt = dtNext
	}
	info.Time = sv.State.Time
	for _, so := range sv.stepWatchers {
		so.OnStep(info)
	}
	if reached {
		sv.outputCount++
		sv.nextOutput = sv.outputTime(sv.outputCount + 1)
		err = sv.notify(TakeSnapshot(sv.State, sv.iteration, out.DtUsed))
	}
	return
}

func (sv *Solver) dtKind(out integrator.StepOutcome, reached bool) DtKind {
	switch {
	case reached:
		return DtOutput
	case out.Rejections > 0:
		return DtErrorControl
	case out.DtUsed == out.DtCFL:
		return DtCFL
	case out.DtUsed == sv.DtMax:
		return DtMax
	}
	return DtErrorControl
}

func (sv *Solver) notify(snap *Snapshot) (err error) {
	for _, o := range sv.observers {
		if err = o.OnSnapshot(snap); err != nil {
			return fmt.Errorf("solver: observer at t = %g: %w", snap.Time, err)
		}
	}
	return
}

func (sv *Solver) fail(kind ErrorKind, dt float64, err error) *SimulationError {
	return &SimulationError{
		Kind:      kind,
		Iteration: sv.iteration,
		Time:      sv.State.Time,
		Dt:        dt,
		LastGood:  TakeSnapshot(sv.State, sv.iteration, sv.Integrator.Statistics().LastDt),
		Wrapped:   err,
	}
}
