package physics

// EulerIsothermal carries [rho, rho*u] with the closure p = rho*c*c for a
// fixed sound speed c. There is no energy equation.
type EulerIsothermal struct {
	CSound float64
}

func NewEulerIsothermal(cSound float64) *EulerIsothermal {
	return &EulerIsothermal{CSound: cSound}
}

func (ei *EulerIsothermal) Name() string      { return KindPrintNames[Isothermal] }
func (ei *EulerIsothermal) NumEquations() int { return 2 }
func (ei *EulerIsothermal) HasPressure() bool { return false }

func (ei *EulerIsothermal) PrimitiveNames() []string {
	return []string{"density", "xi_velocity"}
}

func (ei *EulerIsothermal) ConservedNames() []string {
	return []string{"density", "xi_momentum"}
}

func (ei *EulerIsothermal) PrimitivesFromConserved(cons, prim []float64) {
	prim[JRho] = cons[JRho]
	prim[JXiVel] = cons[JXiMom] / cons[JRho]
}

func (ei *EulerIsothermal) ConservedFromPrimitives(prim, cons []float64) {
	cons[JRho] = prim[JRho]
	cons[JXiMom] = prim[JRho] * prim[JXiVel]
}

func (ei *EulerIsothermal) PhysicalFlux(prim, cons, flux []float64) {
	flux[JRho] = cons[JXiMom]
	flux[JXiMom] = cons[JXiMom]*prim[JXiVel] + prim[JRho]*ei.CSound*ei.CSound
}

func (ei *EulerIsothermal) SoundSpeed(prim []float64) float64 {
	return ei.CSound
}
