package physics

import (
	"errors"
	"fmt"
	"strings"
)

// Variable indices shared by every 1D Euler system. Isothermal systems stop
// after the xi velocity/momentum slot.
const (
	JRho      = 0
	JXiVel    = 1
	JXiMom    = 1
	JPressure = 2
	JEnergy   = 2
)

// Physics converts between conserved and primitive variables and evaluates
// the physical flux of one cell. All slices have length NumEquations.
type Physics interface {
	Name() string
	NumEquations() int
	// HasPressure is false for systems without an energy equation.
	HasPressure() bool
	PrimitiveNames() []string
	ConservedNames() []string
	PrimitivesFromConserved(cons, prim []float64)
	ConservedFromPrimitives(prim, cons []float64)
	PhysicalFlux(prim, cons, flux []float64)
	SoundSpeed(prim []float64) float64
}

type Kind uint8

const (
	Adiabatic Kind = iota
	Isothermal
)

var (
	KindNames = map[string]Kind{
		"adiabatic":   Adiabatic,
		"euler":       Adiabatic,
		"isothermal":  Isothermal,
		"isot":        Isothermal,
		"eulerisot":   Isothermal,
		"euler_isot":  Isothermal,
		"euler-isot":  Isothermal,
		"euler1disot": Isothermal,
	}
	KindPrintNames = []string{"Euler 1D Adiabatic", "Euler 1D Isothermal"}
)

var (
	ErrUnknownKind = errors.New("physics: unknown equation system")
	ErrBadGamma    = errors.New("physics: adiabatic index must be greater than 1")
	ErrBadSound    = errors.New("physics: isothermal sound speed must be positive")
)

func (k Kind) Print() (txt string) {
	txt = KindPrintNames[k]
	return
}

func NewKind(label string) (k Kind, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if k, ok = KindNames[label]; !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownKind, label)
	}
	return
}

// Params holds the equation of state constants for a run.
type Params struct {
	Gamma      float64 // Adiabatic index
	SoundSpeed float64 // Isothermal sound speed
}

func New(kind Kind, p Params) (Physics, error) {
	switch kind {
	case Adiabatic:
		if !(p.Gamma > 1) {
			return nil, fmt.Errorf("%w: gamma = %g", ErrBadGamma, p.Gamma)
		}
		return NewEulerAdiabatic(p.Gamma), nil
	case Isothermal:
		if !(p.SoundSpeed > 0) {
			return nil, fmt.Errorf("%w: c_sound = %g", ErrBadSound, p.SoundSpeed)
		}
		return NewEulerIsothermal(p.SoundSpeed), nil
	}
	return nil, fmt.Errorf("%w: kind %d", ErrUnknownKind, kind)
}
