package integrator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/boundary"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/rhs"
	"github.com/notargets/hydro1d/validation"
)

type StepStatus uint8

const (
	Idle StepStatus = iota
	StageEvaluation
	ErrorCheck
	Accepted
	Rejected
	Fatal
)

var stepStatusNames = []string{"Idle", "StageEvaluation", "ErrorCheck", "Accepted", "Rejected", "Fatal"}

func (ss StepStatus) String() string { return stepStatusNames[ss] }

// Step size controller constants. After a step with scaled error err the
// step is multiplied by Safety * err^(-1/(LowOrder+1)), clamped to
// [MinShrink, MaxGrowth].
const (
	Safety    = 0.9
	MaxGrowth = 5.
	MinShrink = 0.1
)

var (
	ErrStepSizeUnderflow = errors.New("integrator: step size fell below dt_min while rejecting")
	ErrCFLUnderflow      = errors.New("integrator: CFL step size below dt_min")
	ErrInvalidStepSize   = errors.New("integrator: step size must be positive")
	ErrBadParams         = errors.New("integrator: invalid parameters")
)

type Params struct {
	Tableau *ButcherTableau
	CFL     float64 // Courant number, 0 < CFL < 1
	RelTol  float64
	AbsTol  float64
	DtMin   float64
	DtMax   float64
}

func (p Params) check() error {
	switch {
	case p.Tableau == nil:
		return fmt.Errorf("%w: no Butcher tableau", ErrBadParams)
	case !(p.CFL > 0 && p.CFL < 1):
		return fmt.Errorf("%w: CFL = %g must be in (0,1)", ErrBadParams, p.CFL)
	case !(p.DtMin > 0) || !(p.DtMax >= p.DtMin):
		return fmt.Errorf("%w: need 0 < dt_min <= dt_max, got %g, %g", ErrBadParams, p.DtMin, p.DtMax)
	case p.RelTol < 0 || p.AbsTol < 0:
		return fmt.Errorf("%w: negative tolerance", ErrBadParams)
	case p.Tableau.Embedded && p.RelTol == 0 && p.AbsTol == 0:
		return fmt.Errorf("%w: error control needs a positive tolerance", ErrBadParams)
	}
	return nil
}

// StepOutcome is the result of one call to Step. Status is Accepted or
// Fatal; Err is set only when Fatal.
type StepOutcome struct {
	Status        StepStatus
	Err           error
	DtUsed        float64
	DtCFL         float64
	ErrorEstimate float64
	Rejections    int
}

type Statistics struct {
	Accepted       int
	Rejected       int
	RHSEvaluations int
	LastDt         float64
	NextDt         float64
	LastError      float64
}

// RKF advances a state by one explicit Runge-Kutta(-Fehlberg) step. Every
// stage passes through the boundary handler before its derivative is taken.
// Rejected attempts are retried internally with a smaller step.
type RKF struct {
	Params
	bc        *boundary.Handler
	rhs       *rhs.Assembler
	validator *validation.Validator
	k         []*mat.Dense
	stage     *physics.State
	high, low *mat.Dense
	status    StepStatus
	trace     []StepStatus
	stats     Statistics
}

func New(p Params, bc *boundary.Handler, asm *rhs.Assembler, v *validation.Validator) (r *RKF, err error) {
	if err = p.check(); err != nil {
		return
	}
	r = &RKF{
		Params:    p,
		bc:        bc,
		rhs:       asm,
		validator: v,
	}
	return
}

func (r *RKF) Status() StepStatus { return r.status }

func (r *RKF) Statistics() Statistics { return r.stats }

// Trace lists the states visited during the most recent Step.
func (r *RKF) Trace() []StepStatus {
	t := make([]StepStatus, len(r.trace))
	copy(t, r.trace)
	return t
}

func (r *RKF) transition(ss StepStatus) {
	r.status = ss
	r.trace = append(r.trace, ss)
}

func (r *RKF) allocate(s *physics.State) {
	if r.stage != nil && r.stage.Mesh == s.Mesh {
		return
	}
	var (
		S, neq = s.Mesh.S, s.NumEquations()
	)
	r.stage = s.Clone()
	r.high = mat.NewDense(S, neq, nil)
	r.low = mat.NewDense(S, neq, nil)
	r.k = make([]*mat.Dense, r.Tableau.Stages())
	for q := range r.k {
		r.k[q] = mat.NewDense(S, neq, nil)
	}
}

// CFLTimeStep is CFL * dx / max|S| over the faces of s. It is +Inf for a
// state with no signal speed and NaN for a non-finite state.
func (r *RKF) CFLTimeStep(s *physics.State) float64 {
	maxSpeed := r.rhs.Flux().MaxSignalSpeed(s)
	if maxSpeed == 0 {
		return math.Inf(1)
	}
	return r.CFL * s.Mesh.DX / maxSpeed
}

// Step advances s in place by at most dt, bounded by the CFL step of s and
// DtMax. It returns the proposed size of the next step. On a Fatal outcome s
// is left exactly as it was passed in.
func (r *RKF) Step(s *physics.State, dt float64) (dtNext float64, out StepOutcome) {
	var (
		bt = r.Tableau
		h  float64
	)
	r.allocate(s)
	r.trace = r.trace[:0]
	r.transition(Idle)
	s.UpdatePrimitives()
	r.bc.Apply(s)

	out.DtCFL = r.CFLTimeStep(s)
	if !(out.DtCFL >= r.DtMin) {
		r.fatal(&out, fmt.Errorf("%w: dt_cfl = %g, dt_min = %g at t = %g",
			ErrCFLUnderflow, out.DtCFL, r.DtMin, s.Time))
		return dt, out
	}
	if !(dt > 0) {
		r.fatal(&out, fmt.Errorf("%w: dt = %g at t = %g", ErrInvalidStepSize, dt, s.Time))
		return dt, out
	}
	h = math.Min(dt, math.Min(out.DtCFL, r.DtMax))

	for {
		r.transition(StageEvaluation)
		r.evaluateStages(s, h)
		r.combine(r.high, s, h, bt.BHigh)
		var errEst float64
		if bt.Embedded {
			r.transition(ErrorCheck)
			r.combine(r.low, s, h, bt.BLow)
			errEst = r.errorNorm(s.Cons, r.high, r.low)
			out.ErrorEstimate = errEst
			if !(errEst <= 1) {
				r.transition(Rejected)
				out.Rejections++
				r.stats.Rejected++
				h *= r.scale(errEst)
				if h < r.DtMin {
					r.fatal(&out, fmt.Errorf("%w: dt = %g, dt_min = %g, error = %g at t = %g",
						ErrStepSizeUnderflow, h, r.DtMin, errEst, s.Time))
					return h, out
				}
				continue
			}
		}
		r.transition(Accepted)
		// The candidate is checked before it replaces s
		r.stage.Cons.Copy(r.high)
		r.stage.UpdatePrimitives()
		r.bc.Apply(r.stage)
		r.stage.Time = s.Time + h
		if r.validator != nil && r.validator.Enabled {
			if err := r.validator.Check(r.stage); err != nil {
				r.fatal(&out, fmt.Errorf("t = %g, dt = %g: %w", r.stage.Time, h, err))
				return h, out
			}
		}
		s.CopyFrom(r.stage)

		dtNext = r.DtMax
		if bt.Embedded {
			dtNext = math.Min(r.DtMax, h*r.scale(errEst))
		}
		out.Status = Accepted
		out.DtUsed = h
		r.stats.Accepted++
		r.stats.LastDt = h
		r.stats.NextDt = dtNext
		r.stats.LastError = errEst
		return
	}
}

func (r *RKF) fatal(out *StepOutcome, err error) {
	r.transition(Fatal)
	out.Status = Fatal
	out.Err = err
}

// scale is the step size multiplier for a scaled error estimate.
func (r *RKF) scale(errEst float64) float64 {
	switch {
	case math.IsNaN(errEst) || math.IsInf(errEst, 1):
		return MinShrink
	case errEst == 0:
		return MaxGrowth
	}
	f := Safety * math.Pow(errEst, -1./float64(r.Tableau.LowOrder+1))
	return math.Max(MinShrink, math.Min(MaxGrowth, f))
}

// evaluateStages fills k[q] = dU/dt at stage q. Stage q+1 starts only after
// stage q and its boundary update are complete.
func (r *RKF) evaluateStages(s *physics.State, h float64) {
	var (
		bt = r.Tableau
	)
	for q := 0; q < bt.Stages(); q++ {
		y := s
		if q > 0 {
			r.combine(r.stage.Cons, s, h, bt.A[q][:q])
			r.stage.UpdatePrimitives()
			r.bc.Apply(r.stage)
			y = r.stage
		}
		r.rhs.Calc(y, r.k[q])
		r.stats.RHSEvaluations++
	}
}

// combine sets dst = s.Cons + h * sum_q w[q]*k[q].
func (r *RKF) combine(dst *mat.Dense, s *physics.State, h float64, w []float64) {
	var (
		neq = s.NumEquations()
		y0D = s.Cons.RawMatrix().Data
		dD  = dst.RawMatrix().Data
	)
	s.Partitions().Apply(func(_, kMin, kMax int) {
		lo, hi := kMin*neq, kMax*neq
		copy(dD[lo:hi], y0D[lo:hi])
		for q, wq := range w {
			if wq == 0 {
				continue
			}
			var (
				hw = h * wq
				kD = r.k[q].RawMatrix().Data
			)
			for ind := lo; ind < hi; ind++ {
				dD[ind] += hw * kD[ind]
			}
		}
	})
}

// errorNorm is the RMS over interior cells and equations of
// (high - low) / (AbsTol + RelTol * max(|y0|, |high|)).
func (r *RKF) errorNorm(y0, high, low *mat.Dense) float64 {
	var (
		m      = r.stage.Mesh
		_, neq = y0.Dims()
		sum    float64
	)
	for i := m.IMin; i <= m.IMax; i++ {
		var (
			r0, rh, rl = y0.RawRowView(i), high.RawRowView(i), low.RawRowView(i)
		)
		for n := 0; n < neq; n++ {
			var (
				sc   = r.AbsTol + r.RelTol*math.Max(math.Abs(r0[n]), math.Abs(rh[n]))
				diff = rh[n] - rl[n]
			)
			if sc == 0 {
				if diff != 0 {
					return math.Inf(1)
				}
				continue
			}
			sum += (diff / sc) * (diff / sc)
		}
	}
	return math.Sqrt(sum / float64(m.NumInterior()*neq))
}
