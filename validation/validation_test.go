package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/physics"
)

func uniform(t *testing.T, phys physics.Physics) *physics.State {
	mesh, err := FV1D.NewMesh1D(FV1D.CellsWithGhosts(10), 0, 1)
	require.NoError(t, err)
	s := physics.NewState(mesh, phys, nil)
	for i := 0; i < mesh.S; i++ {
		copy(s.PrimCell(i), []float64{1, 0, 1}[:phys.NumEquations()])
	}
	s.UpdateConserved()
	return s
}

func TestValidState(t *testing.T) {
	s := uniform(t, physics.NewEulerAdiabatic(1.4))
	assert.NoError(t, New(true).Check(s))
	// Ghost cells are not inspected
	s.Prim.Set(0, physics.JRho, -1)
	assert.NoError(t, New(true).Check(s))
}

func TestNegativeDensity(t *testing.T) {
	s := uniform(t, physics.NewEulerAdiabatic(1.4))
	s.Prim.Set(6, physics.JRho, -0.5)
	before := s.Prim.At(6, physics.JRho)
	err := New(true).Check(s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNonPhysicalDensity)
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, NonPhysicalDensity, f.Reason)
	assert.Equal(t, 6, f.Cell)
	assert.Equal(t, "density", f.Field)
	assert.Equal(t, -0.5, f.Value)
	assert.Contains(t, err.Error(), "cell 6")
	assert.Equal(t, before, s.Prim.At(6, physics.JRho))
}

func TestFailureOrder(t *testing.T) {
	s := uniform(t, physics.NewEulerAdiabatic(1.4))
	s.Prim.Set(8, physics.JRho, 0)
	s.Prim.Set(5, physics.JPressure, -1)
	s.Prim.Set(5, physics.JXiVel, math.Inf(1))
	err := New(true).Check(s)
	var f *Failure
	require.True(t, errors.As(err, &f))
	// Lowest cell wins, and within it the non-finite check comes first
	assert.Equal(t, 5, f.Cell)
	assert.Equal(t, NonFinite, f.Reason)
	assert.ErrorIs(t, err, ErrNonFinite)

	s.Prim.Set(5, physics.JXiVel, 0)
	err = New(true).Check(s)
	assert.ErrorIs(t, err, ErrNonPhysicalPressure)
	s.Prim.Set(5, physics.JPressure, 1)
	err = New(true).Check(s)
	assert.ErrorIs(t, err, ErrNonPhysicalDensity)
}

func TestIsothermalHasNoPressureCheck(t *testing.T) {
	s := uniform(t, physics.NewEulerIsothermal(1))
	assert.NoError(t, New(true).Check(s))
	s.Prim.Set(3, physics.JXiVel, math.NaN())
	assert.ErrorIs(t, New(true).Check(s), ErrNonFinite)
}

func TestDisabled(t *testing.T) {
	s := uniform(t, physics.NewEulerAdiabatic(1.4))
	s.Prim.Set(4, physics.JRho, math.NaN())
	assert.NoError(t, New(false).Check(s))
	var v *Validator
	assert.NoError(t, v.Check(s))
}
