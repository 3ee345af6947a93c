package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/physics"
)

// Snapshot is a read-only copy of the interior cells of a state. It shares
// no storage with the solver.
type Snapshot struct {
	Time           float64
	Iteration      int
	Dt             float64
	X              []float64
	PrimitiveNames []string
	ConservedNames []string
	Cons           *mat.Dense // Dimension: NumInterior x NumEquations
	Prim           *mat.Dense
}

func TakeSnapshot(s *physics.State, iteration int, dt float64) (snap *Snapshot) {
	var (
		m   = s.Mesh
		neq = s.NumEquations()
	)
	snap = &Snapshot{
		Time:           s.Time,
		Iteration:      iteration,
		Dt:             dt,
		X:              m.InteriorCenters(),
		PrimitiveNames: append([]string(nil), s.Physics.PrimitiveNames()...),
		ConservedNames: append([]string(nil), s.Physics.ConservedNames()...),
		Cons:           mat.DenseCopyOf(s.Cons.Slice(m.IMin, m.IMax+1, 0, neq)),
		Prim:           mat.DenseCopyOf(s.Prim.Slice(m.IMin, m.IMax+1, 0, neq)),
	}
	return
}

// Field returns a copy of primitive variable n across the interior cells.
func (snap *Snapshot) Field(n int) []float64 {
	return mat.Col(nil, n, snap.Prim)
}

// FieldByName looks a primitive variable up by name.
func (snap *Snapshot) FieldByName(name string) (f []float64, ok bool) {
	for n, pn := range snap.PrimitiveNames {
		if pn == name {
			return snap.Field(n), true
		}
	}
	return nil, false
}
