package numflux

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/physics"
)

// DegenerateFan is the smallest S_R - S_L treated as a finite wave fan.
// Narrower fans straddling zero use the average of the two physical fluxes.
const DegenerateFan = 1.e-12

// HLL is the two wave Harten-Lax-van Leer solver with Davis signal speed
// estimates.
type HLL struct {
	phys     physics.Physics
	cellFlux *mat.Dense // Physical flux per cell, S x NumEquations
	maxSpeed []float64  // Per bucket reduction
}

func NewHLL(phys physics.Physics) *HLL {
	return &HLL{phys: phys}
}

func (h *HLL) Name() string { return FluxPrintNames[FLUX_HLL] }

// Speeds bounds the wave fan of the Riemann problem between primL and primR.
func (h *HLL) Speeds(primL, primR []float64) (sL, sR float64) {
	var (
		uL, cL = primL[physics.JXiVel], h.phys.SoundSpeed(primL)
		uR, cR = primR[physics.JXiVel], h.phys.SoundSpeed(primR)
	)
	sL = math.Min(uL-cL, uR-cR)
	sR = math.Max(uL+cL, uR+cR)
	return
}

// FaceFlux writes the HLL flux for one face into out given the states and
// physical fluxes on both sides.
func (h *HLL) FaceFlux(primL, consL, fL, primR, consR, fR, out []float64) {
	sL, sR := h.Speeds(primL, primR)
	switch {
	case sL >= 0:
		copy(out, fL)
	case sR <= 0:
		copy(out, fR)
	case !(sR-sL > DegenerateFan):
		for n := range out {
			out[n] = 0.5 * (fL[n] + fR[n])
		}
	default:
		var (
			oosRmsL = 1. / (sR - sL)
			sRsL    = sR * sL
		)
		for n := range out {
			out[n] = oosRmsL * (sR*fL[n] - sL*fR[n] + sRsL*(consR[n]-consL[n]))
		}
	}
}

func (h *HLL) allocate(s *physics.State) {
	if h.cellFlux == nil {
		h.cellFlux = mat.NewDense(s.Mesh.S, h.phys.NumEquations(), nil)
		h.maxSpeed = make([]float64, s.Partitions().ParallelDegree)
	}
}

// Compute fills the faces bounding interior cells, IMin-1 through IMax. The
// remaining ghost-to-ghost faces are zeroed. Each face value is computed
// once and shared by both neighbours.
func (h *HLL) Compute(s *physics.State, flux *mat.Dense) {
	var (
		m  = s.Mesh
		pm = s.Partitions()
	)
	if r, _ := flux.Dims(); r != m.NumFaces() {
		panic("flux array must have one row per face")
	}
	h.allocate(s)
	pm.Apply(func(_, kMin, kMax int) {
		for i := kMin; i < kMax; i++ {
			h.phys.PhysicalFlux(s.PrimCell(i), s.ConsCell(i), h.cellFlux.RawRowView(i))
		}
	})
	pm.ApplyRange(0, m.NumFaces(), func(kMin, kMax int) {
		for i := kMin; i < kMax; i++ {
			out := flux.RawRowView(i)
			if i < m.IMin-1 || i > m.IMax {
				for n := range out {
					out[n] = 0
				}
				continue
			}
			h.FaceFlux(s.PrimCell(i), s.ConsCell(i), h.cellFlux.RawRowView(i),
				s.PrimCell(i+1), s.ConsCell(i+1), h.cellFlux.RawRowView(i+1), out)
		}
	})
}

func (h *HLL) MaxSignalSpeed(s *physics.State) float64 {
	var (
		m = s.Mesh
	)
	h.allocate(s)
	for n := range h.maxSpeed {
		h.maxSpeed[n] = 0
	}
	s.Partitions().Apply(func(bn, kMin, kMax int) {
		if kMin < m.IMin-1 {
			kMin = m.IMin - 1
		}
		if kMax > m.IMax+1 {
			kMax = m.IMax + 1
		}
		var smax float64
		for i := kMin; i < kMax; i++ {
			sL, sR := h.Speeds(s.PrimCell(i), s.PrimCell(i+1))
			a := math.Max(math.Abs(sL), math.Abs(sR))
			if a > smax || math.IsNaN(a) {
				smax = a
			}
			if math.IsNaN(smax) {
				break
			}
		}
		h.maxSpeed[bn] = smax
	})
	for _, v := range h.maxSpeed {
		if math.IsNaN(v) {
			return math.NaN()
		}
	}
	return floats.Max(h.maxSpeed)
}
