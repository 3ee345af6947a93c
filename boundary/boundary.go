package boundary

import (
	"errors"
	"fmt"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/types"
)

var (
	ErrPeriodicMismatch = errors.New("boundary: periodic must be set on both edges")
	ErrFixedState       = errors.New("boundary: fixed policy needs a primitive state per equation")
	ErrUnknownPolicy    = errors.New("boundary: unknown policy")
)

// Policy is the ghost cell rule for one domain edge. Fixed holds the
// primitive state used by BC_Fixed.
type Policy struct {
	Type  types.BCFLAG
	Fixed []float64
}

func Outflow() Policy    { return Policy{Type: types.BC_Outflow} }
func Reflecting() Policy { return Policy{Type: types.BC_Reflecting} }
func Periodic() Policy   { return Policy{Type: types.BC_Periodic} }

func Fixed(prim ...float64) Policy {
	f := make([]float64, len(prim))
	copy(f, prim)
	return Policy{Type: types.BC_Fixed, Fixed: f}
}

func (p Policy) String() string {
	if p.Type == types.BC_Fixed {
		return fmt.Sprintf("%s%v", p.Type, p.Fixed)
	}
	return p.Type.String()
}

// Handler writes the ghost cells at both ends of the domain.
type Handler struct {
	West, East Policy
	mesh       *FV1D.Mesh1D
}

func NewHandler(west, east Policy, mesh *FV1D.Mesh1D, phys physics.Physics) (h *Handler, err error) {
	for _, p := range []Policy{west, east} {
		switch p.Type {
		case types.BC_Outflow, types.BC_Reflecting, types.BC_Periodic:
		case types.BC_Fixed:
			if len(p.Fixed) != phys.NumEquations() {
				err = fmt.Errorf("%w: got %d values for %d equations",
					ErrFixedState, len(p.Fixed), phys.NumEquations())
				return
			}
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownPolicy, p.Type)
			return
		}
	}
	if (west.Type == types.BC_Periodic) != (east.Type == types.BC_Periodic) {
		err = fmt.Errorf("%w: west = %s, east = %s", ErrPeriodicMismatch, west, east)
		return
	}
	h = &Handler{West: west, East: east, mesh: mesh}
	return
}

// Apply fills the ghost primitives from the interior primitives, which must
// be current, and then derives the ghost conserved values. Interior cells are
// never written.
func (h *Handler) Apply(s *physics.State) {
	var (
		m = h.mesh
	)
	for g := 0; g < m.NGhost; g++ {
		var (
			west = m.IMin - 1 - g
			east = m.IMax + 1 + g
		)
		h.fill(s, h.West, west, m.IMin, m.IMin+g, m.IMax-g)
		h.fill(s, h.East, east, m.IMax, m.IMax-g, m.IMin+g)
		s.UpdateConservedCell(west)
		s.UpdateConservedCell(east)
	}
}

// fill writes ghost cell gi. nearest is the adjacent interior cell, mirror
// the interior cell reflected about the edge face, and opposite the interior
// cell that wraps around for periodic domains.
func (h *Handler) fill(s *physics.State, p Policy, gi, nearest, mirror, opposite int) {
	var (
		ghost = s.PrimCell(gi)
	)
	switch p.Type {
	case types.BC_Outflow:
		copy(ghost, s.PrimCell(nearest))
	case types.BC_Reflecting:
		copy(ghost, s.PrimCell(mirror))
		ghost[physics.JXiVel] = -ghost[physics.JXiVel]
	case types.BC_Fixed:
		copy(ghost, p.Fixed)
	case types.BC_Periodic:
		copy(ghost, s.PrimCell(opposite))
	}
}
