package rhs

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/numflux"
	"github.com/notargets/hydro1d/physics"
)

// Assembler builds dU/dt = -(F[i+1/2] - F[i-1/2]) / dx over the interior
// cells from the face fluxes of a boundary-complete state.
type Assembler struct {
	mesh     *FV1D.Mesh1D
	flux     numflux.NumericalFlux
	faceFlux *mat.Dense
}

func NewAssembler(mesh *FV1D.Mesh1D, flux numflux.NumericalFlux, neq int) *Assembler {
	return &Assembler{
		mesh:     mesh,
		flux:     flux,
		faceFlux: mat.NewDense(mesh.NumFaces(), neq, nil),
	}
}

// FaceFluxes exposes the face fluxes from the most recent Calc.
func (a *Assembler) FaceFluxes() mat.Matrix { return a.faceFlux }

func (a *Assembler) Flux() numflux.NumericalFlux { return a.flux }

// Calc writes dU/dt for every cell into dudt; ghost rows are zero.
func (a *Assembler) Calc(s *physics.State, dudt *mat.Dense) {
	var (
		m    = a.mesh
		oodx = 1. / m.DX
	)
	a.flux.Compute(s, a.faceFlux)
	s.Partitions().Apply(func(_, kMin, kMax int) {
		for i := kMin; i < kMax; i++ {
			out := dudt.RawRowView(i)
			if m.IsGhost(i) {
				for n := range out {
					out[n] = 0
				}
				continue
			}
			var (
				fE = a.faceFlux.RawRowView(i)
				fW = a.faceFlux.RawRowView(i - 1)
			)
			for n := range out {
				out[n] = -(fE[n] - fW[n]) * oodx
			}
		}
	})
}
