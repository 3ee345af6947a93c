package sod_shock_tube

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrVacuum     = errors.New("sod_shock_tube: initial states generate a vacuum")
	ErrBadState   = errors.New("sod_shock_tube: density and pressure must be positive")
	ErrNoConverge = errors.New("sod_shock_tube: pressure iteration did not converge")
)

// State is a primitive gas state.
type State struct {
	Rho, U, P float64
}

// Problem is a Riemann problem for the ideal gas: Left holds for x < X0 and
// Right for x > X0 at t = 0.
type Problem struct {
	Left, Right State
	Gamma       float64
	X0          float64
}

func SodProblem() Problem {
	return Problem{
		Left:  State{Rho: 1, U: 0, P: 1},
		Right: State{Rho: 0.125, U: 0, P: 0.1},
		Gamma: 1.4,
		X0:    0.5,
	}
}

// Solution is the exact self-similar solution of a Problem.
type Solution struct {
	Problem
	PStar, UStar       float64
	RhoStarL, RhoStarR float64
	cL, cR             float64
}

func Solve(pr Problem) (sol *Solution, err error) {
	var (
		L, R = pr.Left, pr.Right
		g    = pr.Gamma
	)
	if !(L.Rho > 0 && L.P > 0 && R.Rho > 0 && R.P > 0) {
		return nil, fmt.Errorf("%w: left %+v, right %+v", ErrBadState, L, R)
	}
	sol = &Solution{
		Problem: pr,
		cL:      math.Sqrt(g * L.P / L.Rho),
		cR:      math.Sqrt(g * R.P / R.Rho),
	}
	if 2*(sol.cL+sol.cR)/(g-1) <= R.U-L.U {
		return nil, fmt.Errorf("%w: left %+v, right %+v", ErrVacuum, L, R)
	}
	if sol.PStar, err = sol.starPressure(); err != nil {
		return nil, err
	}
	fL, _ := sol.pressureFunc(sol.PStar, L, sol.cL)
	fR, _ := sol.pressureFunc(sol.PStar, R, sol.cR)
	sol.UStar = 0.5*(L.U+R.U) + 0.5*(fR-fL)
	sol.RhoStarL = sol.starDensity(L)
	sol.RhoStarR = sol.starDensity(R)
	return
}

// pressureFunc is the velocity jump across the wave connecting K to the star
// region at pressure p, and its derivative.
func (sol *Solution) pressureFunc(p float64, K State, c float64) (f, df float64) {
	g := sol.Gamma
	if p > K.P { // Shock
		var (
			A = 2 / ((g + 1) * K.Rho)
			B = (g - 1) / (g + 1) * K.P
			q = math.Sqrt(A / (p + B))
		)
		f = (p - K.P) * q
		df = q * (1 - 0.5*(p-K.P)/(B+p))
		return
	}
	pr := p / K.P
	f = 2 * c / (g - 1) * (math.Pow(pr, (g-1)/(2*g)) - 1)
	df = math.Pow(pr, -(g+1)/(2*g)) / (K.Rho * c)
	return
}

func (sol *Solution) starPressure() (p float64, err error) {
	var (
		L, R   = sol.Left, sol.Right
		g      = sol.Gamma
		du     = R.U - L.U
		pMin   = 1.e-10 * math.Min(L.P, R.P)
		tol    = 1.e-12
		maxIts = 100
	)
	// Primitive variable guess, replaced by the two rarefaction guess when it
	// falls below both initial pressures
	p = 0.5*(L.P+R.P) - 0.125*du*(L.Rho+R.Rho)*(sol.cL+sol.cR)
	if p < math.Min(L.P, R.P) {
		z := (g - 1) / (2 * g)
		p = math.Pow((sol.cL+sol.cR-0.5*(g-1)*du)/
			(sol.cL/math.Pow(L.P, z)+sol.cR/math.Pow(R.P, z)), 1/z)
	}
	p = math.Max(p, pMin)
	for it := 0; it < maxIts; it++ {
		fL, dfL := sol.pressureFunc(p, L, sol.cL)
		fR, dfR := sol.pressureFunc(p, R, sol.cR)
		pNew := math.Max(p-(fL+fR+du)/(dfL+dfR), pMin)
		change := 2 * math.Abs(pNew-p) / (pNew + p)
		p = pNew
		if change < tol {
			return
		}
	}
	return p, fmt.Errorf("%w: p = %g after %d iterations", ErrNoConverge, p, maxIts)
}

func (sol *Solution) starDensity(K State) float64 {
	var (
		g  = sol.Gamma
		pr = sol.PStar / K.P
	)
	if pr > 1 {
		g6 := (g - 1) / (g + 1)
		return K.Rho * (pr + g6) / (g6*pr + 1)
	}
	return K.Rho * math.Pow(pr, 1/g)
}

// waveSpeeds returns the leftmost and rightmost speed of the wave on one
// side of the contact. For a shock both are the shock speed.
func (sol *Solution) waveSpeeds(left bool) (head, tail float64) {
	var (
		g    = sol.Gamma
		K, c = sol.Right, sol.cR
		sign = 1.
	)
	if left {
		K, c, sign = sol.Left, sol.cL, -1
	}
	if sol.PStar > K.P {
		s := K.U + sign*c*math.Sqrt((g+1)/(2*g)*sol.PStar/K.P+(g-1)/(2*g))
		return s, s
	}
	head = K.U + sign*c
	tail = sol.UStar + sign*c*math.Pow(sol.PStar/K.P, (g-1)/(2*g))
	return
}

// Waves returns the wave positions at time t, from left to right: the head
// and tail of the left wave, the contact, and the tail and head of the right
// wave. Shocks have coincident head and tail.
func (sol *Solution) Waves(t float64) (x []float64) {
	var (
		hl, tl = sol.waveSpeeds(true)
		hr, tr = sol.waveSpeeds(false)
	)
	for _, s := range []float64{hl, tl, sol.UStar, tr, hr} {
		x = append(x, sol.X0+s*t)
	}
	return
}

// Sample evaluates the solution at position x and time t.
func (sol *Solution) Sample(x, t float64) (st State) {
	var (
		g = sol.Gamma
		S float64
	)
	if t <= 0 {
		if x < sol.X0 {
			return sol.Left
		}
		return sol.Right
	}
	S = (x - sol.X0) / t
	if S <= sol.UStar {
		L, c := sol.Left, sol.cL
		head, tail := sol.waveSpeeds(true)
		switch {
		case S <= head:
			return L
		case S >= tail:
			return State{Rho: sol.RhoStarL, U: sol.UStar, P: sol.PStar}
		}
		f := 2/(g+1) + (g-1)/((g+1)*c)*(L.U-S)
		return State{
			Rho: L.Rho * math.Pow(f, 2/(g-1)),
			U:   2 / (g + 1) * (c + 0.5*(g-1)*L.U + S),
			P:   L.P * math.Pow(f, 2*g/(g-1)),
		}
	}
	R, c := sol.Right, sol.cR
	head, tail := sol.waveSpeeds(false)
	switch {
	case S >= head:
		return R
	case S <= tail:
		return State{Rho: sol.RhoStarR, U: sol.UStar, P: sol.PStar}
	}
	f := 2/(g+1) - (g-1)/((g+1)*c)*(R.U-S)
	return State{
		Rho: R.Rho * math.Pow(f, 2/(g-1)),
		U:   2 / (g + 1) * (-c + 0.5*(g-1)*R.U + S),
		P:   R.P * math.Pow(f, 2*g/(g-1)),
	}
}

// Profile samples the solution at every X. E is the specific internal energy.
func (sol *Solution) Profile(X []float64, t float64) (Rho, P, U, E []float64) {
	Rho = make([]float64, len(X))
	P = make([]float64, len(X))
	U = make([]float64, len(X))
	E = make([]float64, len(X))
	for i, x := range X {
		st := sol.Sample(x, t)
		Rho[i], P[i], U[i] = st.Rho, st.P, st.U
		E[i] = st.P / ((sol.Gamma - 1) * st.Rho)
	}
	return
}

// DensityL1 is the mean absolute density error of rho sampled at X.
func (sol *Solution) DensityL1(X, rho []float64, t float64) float64 {
	if len(X) == 0 {
		return 0
	}
	exact, _, _, _ := sol.Profile(X, t)
	return floats.Distance(rho, exact, 1) / float64(len(X))
}
