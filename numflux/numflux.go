package numflux

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/physics"
)

// NumericalFlux evaluates the flux through every cell face. Face i lies
// between cell i and cell i+1, so flux arrays are (S-1) x NumEquations.
type NumericalFlux interface {
	Name() string
	// Compute expects primitives and ghost cells of s to be current.
	Compute(s *physics.State, flux *mat.Dense)
	// MaxSignalSpeed is the largest |S_L|, |S_R| over the faces bounding
	// interior cells.
	MaxSignalSpeed(s *physics.State) float64
}

type FluxType uint

const (
	FLUX_HLL FluxType = iota
)

var (
	FluxNames = map[string]FluxType{
		"hll": FLUX_HLL,
	}
	FluxPrintNames = []string{"HLL"}
)

var ErrUnknownFlux = errors.New("numflux: unknown flux type")

func (ft FluxType) Print() (txt string) {
	txt = FluxPrintNames[ft]
	return
}

func NewFluxType(label string) (ft FluxType, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if ft, ok = FluxNames[label]; !ok {
		err = fmt.Errorf("%w: unable to use flux named %q", ErrUnknownFlux, label)
	}
	return
}

func New(ft FluxType, phys physics.Physics) (NumericalFlux, error) {
	switch ft {
	case FLUX_HLL:
		return NewHLL(phys), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownFlux, ft)
}
