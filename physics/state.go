package physics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/utils"
)

// State holds the conserved and primitive variables over every mesh cell,
// ghosts included. Both arrays are S x NumEquations; row i is cell i.
// Cons is authoritative and Prim is always derived from it.
type State struct {
	Mesh    *FV1D.Mesh1D
	Physics Physics
	Cons    *mat.Dense
	Prim    *mat.Dense
	Time    float64
	pm      *utils.PartitionMap
}

// NewState allocates a zeroed state. A nil partition map runs serially.
func NewState(mesh *FV1D.Mesh1D, phys Physics, pm *utils.PartitionMap) (s *State) {
	if pm == nil {
		pm = utils.NewPartitionMap(1, mesh.S)
	}
	if pm.MaxIndex != mesh.S {
		panic("partition map does not cover the mesh cells")
	}
	s = &State{
		Mesh:    mesh,
		Physics: phys,
		Cons:    mat.NewDense(mesh.S, phys.NumEquations(), nil),
		Prim:    mat.NewDense(mesh.S, phys.NumEquations(), nil),
		pm:      pm,
	}
	return
}

func (s *State) Partitions() *utils.PartitionMap { return s.pm }

func (s *State) NumEquations() int { return s.Physics.NumEquations() }

// ConsCell and PrimCell alias the storage of cell i.
func (s *State) ConsCell(i int) []float64 { return s.Cons.RawRowView(i) }
func (s *State) PrimCell(i int) []float64 { return s.Prim.RawRowView(i) }

// UpdatePrimitives derives Prim from Cons in every cell.
func (s *State) UpdatePrimitives() {
	s.pm.Apply(func(_, kMin, kMax int) {
		for i := kMin; i < kMax; i++ {
			s.Physics.PrimitivesFromConserved(s.Cons.RawRowView(i), s.Prim.RawRowView(i))
		}
	})
}

// UpdateConserved rebuilds Cons from Prim in every cell. Used when a state
// is specified in primitive form.
func (s *State) UpdateConserved() {
	s.pm.Apply(func(_, kMin, kMax int) {
		for i := kMin; i < kMax; i++ {
			s.Physics.ConservedFromPrimitives(s.Prim.RawRowView(i), s.Cons.RawRowView(i))
		}
	})
}

// UpdateConservedCell rebuilds the conserved row of a single cell.
func (s *State) UpdateConservedCell(i int) {
	s.Physics.ConservedFromPrimitives(s.Prim.RawRowView(i), s.Cons.RawRowView(i))
}

func (s *State) CopyFrom(o *State) {
	s.Cons.Copy(o.Cons)
	s.Prim.Copy(o.Prim)
	s.Time = o.Time
}

func (s *State) Clone() (c *State) {
	c = NewState(s.Mesh, s.Physics, s.pm)
	c.CopyFrom(s)
	return
}

// Totals integrates each conserved quantity over the interior cells.
func (s *State) Totals() (totals []float64) {
	var (
		m   = s.Mesh
		neq = s.NumEquations()
		col = make([]float64, m.S)
	)
	totals = make([]float64, neq)
	for n := 0; n < neq; n++ {
		mat.Col(col, n, s.Cons)
		totals[n] = floats.Sum(col[m.IMin:m.IMax+1]) * m.DX
	}
	return
}

// MinPrimitive returns the smallest interior value of primitive n.
func (s *State) MinPrimitive(n int) float64 {
	var (
		m   = s.Mesh
		col = make([]float64, m.S)
	)
	mat.Col(col, n, s.Prim)
	return floats.Min(col[m.IMin : m.IMax+1])
}
