package physics

import "math"

// EulerAdiabatic is the ideal gas Euler system in conserved variables
// [rho, rho*u, E] with E = p/(gamma-1) + rho*u*u/2.
type EulerAdiabatic struct {
	Gamma float64
}

func NewEulerAdiabatic(gamma float64) *EulerAdiabatic {
	return &EulerAdiabatic{Gamma: gamma}
}

func (ea *EulerAdiabatic) Name() string      { return KindPrintNames[Adiabatic] }
func (ea *EulerAdiabatic) NumEquations() int { return 3 }
func (ea *EulerAdiabatic) HasPressure() bool { return true }

func (ea *EulerAdiabatic) PrimitiveNames() []string {
	return []string{"density", "xi_velocity", "pressure"}
}

func (ea *EulerAdiabatic) ConservedNames() []string {
	return []string{"density", "xi_momentum", "energy"}
}

func (ea *EulerAdiabatic) PrimitivesFromConserved(cons, prim []float64) {
	var (
		rho, rhoU, ener = cons[JRho], cons[JXiMom], cons[JEnergy]
		u               = rhoU / rho
	)
	prim[JRho] = rho
	prim[JXiVel] = u
	prim[JPressure] = (ea.Gamma - 1.) * (ener - 0.5*rhoU*u)
}

func (ea *EulerAdiabatic) ConservedFromPrimitives(prim, cons []float64) {
	var (
		rho, u, p = prim[JRho], prim[JXiVel], prim[JPressure]
	)
	cons[JRho] = rho
	cons[JXiMom] = rho * u
	cons[JEnergy] = p/(ea.Gamma-1.) + 0.5*rho*u*u
}

func (ea *EulerAdiabatic) PhysicalFlux(prim, cons, flux []float64) {
	var (
		u, p = prim[JXiVel], prim[JPressure]
	)
	flux[JRho] = cons[JXiMom]
	flux[JXiMom] = cons[JXiMom]*u + p
	flux[JEnergy] = u * (cons[JEnergy] + p)
}

func (ea *EulerAdiabatic) SoundSpeed(prim []float64) float64 {
	return math.Sqrt(ea.Gamma * prim[JPressure] / prim[JRho])
}
