package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/utils"
)

func TestNewKind(t *testing.T) {
	k, err := NewKind("Adiabatic")
	require.NoError(t, err)
	assert.Equal(t, Adiabatic, k)
	k, err = NewKind("isot")
	require.NoError(t, err)
	assert.Equal(t, Isothermal, k)
	_, err = NewKind("mhd")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = New(Adiabatic, Params{Gamma: 1})
	assert.ErrorIs(t, err, ErrBadGamma)
	_, err = New(Isothermal, Params{SoundSpeed: 0})
	assert.ErrorIs(t, err, ErrBadSound)
	p, err := New(Isothermal, Params{SoundSpeed: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, p.NumEquations())
	assert.False(t, p.HasPressure())
}

func TestRoundTrip(t *testing.T) {
	systems := []Physics{NewEulerAdiabatic(1.4), NewEulerAdiabatic(5. / 3.), NewEulerIsothermal(1)}
	for _, phys := range systems {
		neq := phys.NumEquations()
		for _, c := range [][]float64{
			{1, 0, 2.5},
			{0.125, -0.3, 0.25},
			{3.2, 7.1, 40},
			{1e-3, 1e-4, 1e-2},
		} {
			var (
				cons  = c[:neq]
				prim  = make([]float64, neq)
				cons2 = make([]float64, neq)
			)
			phys.PrimitivesFromConserved(cons, prim)
			phys.ConservedFromPrimitives(prim, cons2)
			assert.InDeltaSlice(t, cons, cons2, 1.e-12, phys.Name())
		}
	}
}

func TestAdiabaticEOS(t *testing.T) {
	var (
		phys = NewEulerAdiabatic(1.4)
		prim = []float64{1, 2, 1}
		cons = make([]float64, 3)
		flux = make([]float64, 3)
	)
	phys.ConservedFromPrimitives(prim, cons)
	assert.InDeltaSlice(t, []float64{1, 2, 2.5 + 2}, cons, 1.e-14)
	phys.PhysicalFlux(prim, cons, flux)
	// rho*u, rho*u*u + p, u*(E + p)
	assert.InDeltaSlice(t, []float64{2, 5, 2 * 5.5}, flux, 1.e-14)
	assert.InDelta(t, math.Sqrt(1.4), phys.SoundSpeed(prim), 1.e-14)
}

func TestIsothermalEOS(t *testing.T) {
	var (
		phys = NewEulerIsothermal(2)
		prim = []float64{0.5, -1}
		cons = make([]float64, 2)
		flux = make([]float64, 2)
	)
	phys.ConservedFromPrimitives(prim, cons)
	phys.PhysicalFlux(prim, cons, flux)
	assert.InDeltaSlice(t, []float64{-0.5, 0.5 + 0.5*4}, flux, 1.e-14)
	assert.Equal(t, 2., phys.SoundSpeed(prim))
}

func TestState(t *testing.T) {
	mesh, err := FV1D.NewMesh1D(FV1D.CellsWithGhosts(16), 0, 2)
	require.NoError(t, err)
	for _, np := range []int{1, 3} {
		var (
			phys = NewEulerAdiabatic(1.4)
			s    = NewState(mesh, phys, utils.NewPartitionMap(np, mesh.S))
		)
		for i := 0; i < mesh.S; i++ {
			copy(s.PrimCell(i), []float64{1 + float64(i), 0.5, 2})
		}
		s.UpdateConserved()
		want := copyOf(s.Prim.RawMatrix().Data)
		s.Prim.Zero()
		s.UpdatePrimitives()
		assert.InDeltaSlice(t, want, s.Prim.RawMatrix().Data, 1.e-12)

		totals := s.Totals()
		// Interior densities are 3..18, dx = 0.125
		assert.InDelta(t, (3.+18.)*16./2.*0.125, totals[JRho], 1.e-12)
		assert.InDelta(t, 3., s.MinPrimitive(JRho), 1.e-15)

		c := s.Clone()
		c.Cons.Set(5, JRho, -1)
		c.Time = 3
		assert.NotEqual(t, -1., s.Cons.At(5, JRho))
		assert.Equal(t, 0., s.Time)
		s.CopyFrom(c)
		assert.Equal(t, -1., s.Cons.At(5, JRho))
		assert.Equal(t, 3., s.Time)
	}
}

func copyOf(a []float64) (b []float64) {
	b = make([]float64, len(a))
	copy(b, a)
	return
}
