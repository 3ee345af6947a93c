package FV1D

import (
	"errors"
	"fmt"
)

// NGhost is the number of ghost cells at each end of the domain.
const NGhost = 2

var (
	ErrTooFewCells   = errors.New("mesh: too few cells")
	ErrInvalidBounds = errors.New("mesh: invalid domain bounds")
)

// Mesh1D is a uniform Cartesian discretization of [XMin, XMax]. Cell indices
// run over all S cells, ghosts included; interior cells are IMin..IMax
// inclusive. Face i sits between cell i and cell i+1.
type Mesh1D struct {
	S          int // Total number of cells including both ghost layers
	NGhost     int
	IMin, IMax int
	XMin, XMax float64
	DX         float64
	XCenter    []float64 // Dimension: S
	XFace      []float64 // Dimension: S-1
}

// CellsWithGhosts returns the total cell count for nInterior physical cells.
func CellsWithGhosts(nInterior int) int {
	return nInterior + 2*NGhost
}

func NewMesh1D(S int, xMin, xMax float64) (m *Mesh1D, err error) {
	var (
		nInterior = S - 2*NGhost
	)
	// Periodic ghosts are copied from NGhost cells on the opposite edge
	if nInterior < NGhost {
		err = fmt.Errorf("%w: S = %d leaves %d interior cells, need at least %d",
			ErrTooFewCells, S, nInterior, NGhost)
		return
	}
	if !(xMax > xMin) {
		err = fmt.Errorf("%w: xMin = %g, xMax = %g", ErrInvalidBounds, xMin, xMax)
		return
	}
	m = &Mesh1D{
		S:       S,
		NGhost:  NGhost,
		IMin:    NGhost,
		IMax:    S - NGhost - 1,
		XMin:    xMin,
		XMax:    xMax,
		DX:      (xMax - xMin) / float64(nInterior),
		XCenter: make([]float64, S),
		XFace:   make([]float64, S-1),
	}
	for i := 0; i < S; i++ {
		m.XCenter[i] = xMin + (float64(i-m.IMin)+0.5)*m.DX
	}
	for i := 0; i < S-1; i++ {
		m.XFace[i] = xMin + float64(i-m.IMin+1)*m.DX
	}
	return
}

func (m *Mesh1D) NumInterior() int {
	return m.IMax - m.IMin + 1
}

func (m *Mesh1D) NumFaces() int {
	return m.S - 1
}

func (m *Mesh1D) IsGhost(i int) bool {
	return i < m.IMin || i > m.IMax
}

// InteriorCenters returns a copy of the cell centers of the physical cells.
func (m *Mesh1D) InteriorCenters() (X []float64) {
	X = make([]float64, m.NumInterior())
	copy(X, m.XCenter[m.IMin:m.IMax+1])
	return
}
