package cases

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/solver"
)

func mesh(t *testing.T, n int) *FV1D.Mesh1D {
	m, err := FV1D.NewMesh1D(FV1D.CellsWithGhosts(n), 0, 1)
	require.NoError(t, err)
	return m
}

func TestCaseType(t *testing.T) {
	ct, err := NewCaseType(" Noh ")
	require.NoError(t, err)
	assert.Equal(t, NOH, ct)
	assert.Equal(t, "Noh Colliding Flows", ct.Print())
	ct, err = NewCaseType("shocktube")
	require.NoError(t, err)
	assert.Equal(t, SOD, ct)
	_, err = NewCaseType("vortex")
	assert.ErrorIs(t, err, ErrUnknownCase)
}

func TestInitialPrimitives(t *testing.T) {
	var (
		m   = mesh(t, 10)
		ea  = physics.NewEulerAdiabatic(1.4)
		iso = physics.NewEulerIsothermal(1)
	)
	{
		prims, err := Default(SOD, ea).InitialPrimitives(m, ea)
		require.NoError(t, err)
		r, c := prims.Dims()
		assert.Equal(t, 10, r)
		assert.Equal(t, 3, c)
		assert.Equal(t, []float64{1, 0, 1}, prims.RawRowView(4))
		assert.Equal(t, []float64{0.125, 0, 0.1}, prims.RawRowView(5))
	}
	{
		prims, err := Default(NOH, iso).InitialPrimitives(m, iso)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1}, prims.RawRowView(0))
		assert.Equal(t, []float64{1, -1}, prims.RawRowView(9))
	}
	{
		c := Default(RIEMANN, ea)
		c.Breakpoint = 0.3
		prims, err := c.InitialPrimitives(m, ea)
		require.NoError(t, err)
		assert.Equal(t, 1., prims.At(2, physics.JRho))
		assert.Equal(t, 0.125, prims.At(3, physics.JRho))
	}
	{
		prims, err := Default(DENSITYWAVE, ea).InitialPrimitives(m, ea)
		require.NoError(t, err)
		assert.InDelta(t, 1+0.2*math.Sin(2*math.Pi*0.05), prims.At(0, physics.JRho), 1.e-14)
		assert.Equal(t, 0.5, prims.At(3, physics.JXiVel))
		assert.Equal(t, 1., prims.At(3, physics.JPressure))
	}
	{
		c := Default(SOD, ea)
		_, err := c.InitialPrimitives(m, iso)
		assert.ErrorIs(t, err, ErrCaseState)
		c.Left = []float64{1, 0}
		_, err = c.InitialPrimitives(m, ea)
		assert.ErrorIs(t, err, ErrCaseState)
	}
}

func TestBoundaries(t *testing.T) {
	ea := physics.NewEulerAdiabatic(1.4)
	w, e := Default(DENSITYWAVE, ea).Boundaries()
	assert.Equal(t, "Periodic", w.String())
	assert.Equal(t, "Periodic", e.String())
	w, e = Default(SOD, ea).Boundaries()
	assert.Equal(t, "Outflow", w.String())
	assert.Equal(t, "Outflow", e.String())
}

func TestExactDensity(t *testing.T) {
	var (
		m   = mesh(t, 40)
		ea  = physics.NewEulerAdiabatic(1.4)
		iso = physics.NewEulerIsothermal(1)
		dw  = Default(DENSITYWAVE, ea)
	)
	prims, err := dw.InitialPrimitives(m, ea)
	require.NoError(t, err)
	rho0, err := dw.ExactDensity(m, ea, 0)
	require.NoError(t, err)
	rho2, err := dw.ExactDensity(m, ea, 2) // Exactly one period at u = 0.5
	require.NoError(t, err)
	for i := range rho0 {
		assert.InDelta(t, prims.At(i, physics.JRho), rho0[i], 1.e-14)
		assert.InDelta(t, rho0[i], rho2[i], 1.e-12)
	}

	_, err = Default(SOD, iso).Exact(m, iso)
	assert.ErrorIs(t, err, ErrNoExact)
	_, err = Default(UNIFORM, ea).Exact(m, ea)
	assert.ErrorIs(t, err, ErrNoExact)
	rhoU, err := Default(UNIFORM, iso).ExactDensity(m, iso, 1)
	require.NoError(t, err)
	assert.Equal(t, 1., rhoU[17])
}

func run(t *testing.T, c Case, phys physics.Physics, n int, finalTime float64, tableau string) *solver.Result {
	m := mesh(t, n)
	prims, err := c.InitialPrimitives(m, phys)
	require.NoError(t, err)
	west, east := c.Boundaries()
	sv, err := solver.New(solver.Config{
		Mesh:      m,
		Physics:   phys,
		West:      west,
		East:      east,
		Tableau:   tableau,
		CFL:       0.4,
		FinalTime: finalTime,
		Validate:  true,
	}, prims)
	require.NoError(t, err)
	res, err := sv.Solve(context.Background())
	require.NoError(t, err)
	return res
}

func TestSodConvergesToExact(t *testing.T) {
	ea := physics.NewEulerAdiabatic(1.4)
	c := Default(SOD, ea)
	res := run(t, c, ea, 100, 0.2, "rkf45")
	sol, err := c.Exact(mesh(t, 100), ea)
	require.NoError(t, err)
	l1 := sol.DensityL1(res.Final.X, res.Final.Field(physics.JRho), 0.2)
	assert.Less(t, l1, 0.03)
	assert.Greater(t, l1, 0.)
}

func TestNohIsSymmetric(t *testing.T) {
	iso := physics.NewEulerIsothermal(1)
	res := run(t, Default(NOH, iso), iso, 60, 0.3, "ssprk3")
	rho := res.Final.Field(physics.JRho)
	n := len(rho)
	for i := 0; i < n/2; i++ {
		assert.Greater(t, rho[i], 0.)
		assert.InDelta(t, rho[i], rho[n-1-i], 1.e-10)
	}
	// Colliding flows pile up at the center
	assert.Greater(t, rho[n/2], 1.5)
}
