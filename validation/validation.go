package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/hydro1d/physics"
)

var (
	ErrNonFinite           = errors.New("validation: non-finite value")
	ErrNonPhysicalDensity  = errors.New("validation: non-positive density")
	ErrNonPhysicalPressure = errors.New("validation: non-positive pressure")
)

type Reason uint8

const (
	NonFinite Reason = iota
	NonPhysicalDensity
	NonPhysicalPressure
)

var reasonNames = []string{"NonFinite", "NonPhysicalDensity", "NonPhysicalPressure"}

func (r Reason) String() string { return reasonNames[r] }

func (r Reason) sentinel() error {
	switch r {
	case NonPhysicalDensity:
		return ErrNonPhysicalDensity
	case NonPhysicalPressure:
		return ErrNonPhysicalPressure
	}
	return ErrNonFinite
}

// Failure reports the first offending interior cell. Cell is the index in
// the full (ghost-including) mesh.
type Failure struct {
	Reason Reason
	Cell   int
	X      float64
	Field  string
	Value  float64
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%v: cell %d (x = %g), %s = %g", f.Reason.sentinel(), f.Cell, f.X, f.Field, f.Value)
}

func (f *Failure) Unwrap() error { return f.Reason.sentinel() }

// Validator checks the interior primitives of a state. It never writes.
type Validator struct {
	Enabled bool
}

func New(enabled bool) *Validator {
	return &Validator{Enabled: enabled}
}

// Check returns nil or a *Failure for the lowest failing cell. Within a cell,
// non-finite values are reported before density, and density before pressure.
func (v *Validator) Check(s *physics.State) error {
	if v == nil || !v.Enabled {
		return nil
	}
	var (
		m     = s.Mesh
		names = s.Physics.PrimitiveNames()
		hasP  = s.Physics.HasPressure()
	)
	for i := m.IMin; i <= m.IMax; i++ {
		prim := s.PrimCell(i)
		for n, val := range prim {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return &Failure{Reason: NonFinite, Cell: i, X: m.XCenter[i], Field: names[n], Value: val}
			}
		}
		if rho := prim[physics.JRho]; rho <= 0 {
			return &Failure{Reason: NonPhysicalDensity, Cell: i, X: m.XCenter[i], Field: names[physics.JRho], Value: rho}
		}
		if hasP {
			if p := prim[physics.JPressure]; p <= 0 {
				return &Failure{Reason: NonPhysicalPressure, Cell: i, X: m.XCenter[i], Field: names[physics.JPressure], Value: p}
			}
		}
	}
	return nil
}
