package cases

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/boundary"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/sod_shock_tube"
)

type CaseType uint

const (
	SOD CaseType = iota
	RIEMANN
	NOH
	UNIFORM
	DENSITYWAVE
)

var (
	CaseNames = map[string]CaseType{
		"sod":         SOD,
		"shocktube":   SOD,
		"riemann":     RIEMANN,
		"noh":         NOH,
		"uniform":     UNIFORM,
		"freestream":  UNIFORM,
		"densitywave": DENSITYWAVE,
	}
	CasePrintNames = []string{"Sod Shock Tube", "Riemann Problem", "Noh Colliding Flows", "Uniform State", "Density Wave"}
)

var (
	ErrUnknownCase = errors.New("cases: unknown case")
	ErrCaseState   = errors.New("cases: state does not match the physics")
	ErrNoExact     = errors.New("cases: no exact solution for this case")
)

func NewCaseType(label string) (ct CaseType, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if ct, ok = CaseNames[label]; !ok {
		err = fmt.Errorf("%w: %q, must be one of %v", ErrUnknownCase, label, CaseNames)
	}
	return
}

func (ct CaseType) Print() (txt string) {
	if int(ct) < len(CasePrintNames) {
		txt = CasePrintNames[ct]
	}
	return
}

// Case produces an initial condition in primitive variables. Left and Right
// are the states either side of Breakpoint for the Riemann type cases; Left
// alone is the background state for the uniform and density wave cases.
type Case struct {
	Type       CaseType
	Left       []float64
	Right      []float64
	Breakpoint float64 // NaN places the jump at the domain center
	Amplitude  float64 // Density wave amplitude, relative to Left
}

// Default returns the standard setup of ct for the given physics.
func Default(ct CaseType, phys physics.Physics) (c Case) {
	c = Case{Type: ct, Breakpoint: math.NaN()}
	switch ct {
	case SOD, RIEMANN:
		c.Left = trim(phys, 1, 0, 1)
		c.Right = trim(phys, 0.125, 0, 0.1)
	case NOH:
		c.Left = trim(phys, 1, 1, 1.e-5)
		c.Right = trim(phys, 1, -1, 1.e-5)
	case UNIFORM:
		c.Left = trim(phys, 1, 0, 1)
	case DENSITYWAVE:
		c.Left = trim(phys, 1, 0.5, 1)
		c.Amplitude = 0.2
	}
	return
}

func trim(phys physics.Physics, prim ...float64) []float64 {
	return prim[:phys.NumEquations()]
}

func (c Case) riemann() bool {
	return c.Type == SOD || c.Type == RIEMANN || c.Type == NOH
}

func (c Case) breakpoint(m *FV1D.Mesh1D) float64 {
	if math.IsNaN(c.Breakpoint) {
		return 0.5 * (m.XMin + m.XMax)
	}
	return c.Breakpoint
}

func (c Case) check(phys physics.Physics) error {
	neq := phys.NumEquations()
	if len(c.Left) != neq || (c.riemann() && len(c.Right) != neq) {
		return fmt.Errorf("%w: %s needs %d primitives per state, got left %v, right %v",
			ErrCaseState, phys.Name(), neq, c.Left, c.Right)
	}
	if int(c.Type) >= len(CasePrintNames) {
		return fmt.Errorf("%w: %d", ErrUnknownCase, c.Type)
	}
	return nil
}

// Boundaries returns the edge policies the case is meant to run with.
func (c Case) Boundaries() (west, east boundary.Policy) {
	if c.Type == DENSITYWAVE {
		return boundary.Periodic(), boundary.Periodic()
	}
	return boundary.Outflow(), boundary.Outflow()
}

// InitialPrimitives returns the interior cell primitives, one row per cell.
func (c Case) InitialPrimitives(m *FV1D.Mesh1D, phys physics.Physics) (prims *mat.Dense, err error) {
	if err = c.check(phys); err != nil {
		return
	}
	var (
		X  = m.InteriorCenters()
		x0 = c.breakpoint(m)
	)
	prims = mat.NewDense(len(X), phys.NumEquations(), nil)
	for i, x := range X {
		switch {
		case c.riemann() && x >= x0:
			prims.SetRow(i, c.Right)
		case c.Type == DENSITYWAVE:
			prims.SetRow(i, c.Left)
			prims.Set(i, physics.JRho, c.waveDensity(m, x))
		default:
			prims.SetRow(i, c.Left)
		}
	}
	return
}

func (c Case) waveDensity(m *FV1D.Mesh1D, x float64) float64 {
	L := m.XMax - m.XMin
	return c.Left[physics.JRho] * (1 + c.Amplitude*math.Sin(2*math.Pi*(x-m.XMin)/L))
}

// ExactDensity returns the exact density at the interior cell centers at
// time t. Riemann type cases need adiabatic physics.
func (c Case) ExactDensity(m *FV1D.Mesh1D, phys physics.Physics, t float64) (rho []float64, err error) {
	if err = c.check(phys); err != nil {
		return
	}
	X := m.InteriorCenters()
	switch {
	case c.riemann():
		var sol *sod_shock_tube.Solution
		if sol, err = c.Exact(m, phys); err != nil {
			return
		}
		rho, _, _, _ = sol.Profile(X, t)
	case c.Type == DENSITYWAVE:
		var (
			u = c.Left[physics.JXiVel]
			L = m.XMax - m.XMin
		)
		rho = make([]float64, len(X))
		for i, x := range X {
			xs := math.Mod(x-u*t-m.XMin, L)
			if xs < 0 {
				xs += L
			}
			rho[i] = c.waveDensity(m, m.XMin+xs)
		}
	default:
		rho = make([]float64, len(X))
		floats.AddConst(c.Left[physics.JRho], rho)
	}
	return
}

// Exact builds the exact Riemann solution for a Riemann type case.
func (c Case) Exact(m *FV1D.Mesh1D, phys physics.Physics) (sol *sod_shock_tube.Solution, err error) {
	ea, ok := phys.(*physics.EulerAdiabatic)
	if !c.riemann() || !ok {
		return nil, fmt.Errorf("%w: %s with %s", ErrNoExact, c.Type.Print(), phys.Name())
	}
	toState := func(p []float64) sod_shock_tube.State {
		return sod_shock_tube.State{Rho: p[physics.JRho], U: p[physics.JXiVel], P: p[physics.JPressure]}
	}
	return sod_shock_tube.Solve(sod_shock_tube.Problem{
		Left:  toState(c.Left),
		Right: toState(c.Right),
		Gamma: ea.Gamma,
		X0:    c.breakpoint(m),
	})
}
