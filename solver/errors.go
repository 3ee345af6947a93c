package solver

import (
	"errors"
	"fmt"

	"github.com/notargets/hydro1d/validation"
)

var (
	ErrMaxIterations = errors.New("solver: iteration limit reached before final time")
	ErrInitialState  = errors.New("solver: invalid initial state")
	ErrConfig        = errors.New("solver: invalid configuration")
)

type ErrorKind uint8

const (
	FatalNumerical ErrorKind = iota
	FatalPhysical
	Canceled
)

var errorKindNames = []string{"Fatal-Numerical", "Fatal-Physical", "Canceled"}

func (ek ErrorKind) String() string { return errorKindNames[ek] }

// SimulationError stops a run. LastGood is the last state that passed every
// check, taken before the failing step.
type SimulationError struct {
	Kind      ErrorKind
	Iteration int
	Time      float64
	Dt        float64
	LastGood  *Snapshot
	Wrapped   error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%s at iteration %d, t = %g, dt = %g: %v", e.Kind, e.Iteration, e.Time, e.Dt, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

func classify(err error) ErrorKind {
	var f *validation.Failure
	if errors.As(err, &f) {
		return FatalPhysical
	}
	return FatalNumerical
}
