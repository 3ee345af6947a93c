package InputParameters

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hydro1d/cases"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/types"
)

func TestReadFile(t *testing.T) {
	ip, err := ReadFile("testdata/noh.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Noh colliding flows, isothermal", ip.Title)
	assert.Equal(t, 200, ip.Cells)
	assert.Equal(t, -1., ip.XMin)
	assert.Equal(t, 0.01, ip.MaxDt)
	assert.Equal(t, "ssprk3", ip.Integrator)
	// Keys not in the file keep their defaults
	assert.Equal(t, 1.4, ip.Gamma)
	require.Contains(t, ip.BCs, "West")
	assert.Equal(t, "fixed", ip.BCs["West"].Type)
	assert.Equal(t, &StateInput{Rho: 1, U: 1}, ip.BCs["West"].State)

	su, err := ip.Setup()
	require.NoError(t, err)
	cfg := su.Config
	assert.Equal(t, "Euler 1D Isothermal", cfg.Physics.Name())
	assert.Equal(t, 200, cfg.Mesh.NumInterior())
	assert.Equal(t, types.BC_Fixed, cfg.West.Type)
	assert.Equal(t, []float64{1, -1}, cfg.East.Fixed)
	assert.Equal(t, 6, cfg.Outputs)
	assert.Equal(t, cases.NOH, su.Case.Type)
	assert.True(t, math.IsNaN(su.Case.Breakpoint))
	r, c := su.InitialPrims.Dims()
	assert.Equal(t, 200, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, -1., su.InitialPrims.At(199, physics.JXiVel))

	_, err = ReadFile("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestDefaultsBuildSod(t *testing.T) {
	su, err := NewInputParameters1D().Setup()
	require.NoError(t, err)
	assert.Equal(t, cases.SOD, su.Case.Type)
	assert.Equal(t, types.BC_Outflow, su.Config.West.Type)
	assert.Equal(t, 0.2, su.Config.FinalTime)
	assert.True(t, su.Config.Validate)
	assert.Equal(t, 0.125, su.InitialPrims.At(99, physics.JRho))
}

func TestParseOverrides(t *testing.T) {
	ip := NewInputParameters1D()
	require.NoError(t, ip.Parse([]byte(`
Case: riemann
Breakpoint: 0.3
Left: {Rho: 2, U: 0.5, P: 3}
Right: {Rho: 1, U: 0, P: 1}
Validate: false
BCs:
  west: {Type: wall}
`)))
	su, err := ip.Setup()
	require.NoError(t, err)
	assert.Equal(t, 0.3, su.Case.Breakpoint)
	assert.Equal(t, []float64{2, 0.5, 3}, su.InitialPrims.RawRowView(0))
	assert.Equal(t, []float64{1, 0, 1}, su.InitialPrims.RawRowView(99))
	assert.Equal(t, types.BC_Reflecting, su.Config.West.Type)
	assert.Equal(t, types.BC_Outflow, su.Config.East.Type)
	assert.False(t, su.Config.Validate)
}

func TestCheck(t *testing.T) {
	two := 2.
	tests := []struct {
		name   string
		modify func(ip *InputParameters1D)
	}{
		{"cells", func(ip *InputParameters1D) { ip.Cells = 1 }},
		{"bounds", func(ip *InputParameters1D) { ip.XMax = ip.XMin }},
		{"cfl", func(ip *InputParameters1D) { ip.CFL = 1 }},
		{"tolerance", func(ip *InputParameters1D) { ip.Tolerance, ip.AbsoluteTolerance = 0, 0 }},
		{"min dt", func(ip *InputParameters1D) { ip.MinDt = 0 }},
		{"max dt", func(ip *InputParameters1D) { ip.MaxDt = ip.MinDt / 2 }},
		{"final time", func(ip *InputParameters1D) { ip.FinalTime = -1 }},
		{"gamma", func(ip *InputParameters1D) { ip.Gamma = 1 }},
		{"sound speed", func(ip *InputParameters1D) { ip.Physics, ip.SoundSpeed = "isothermal", 0 }},
		{"breakpoint", func(ip *InputParameters1D) { ip.Breakpoint = &two }},
		{"edge", func(ip *InputParameters1D) { ip.BCs = map[string]BCInput{"north": {Type: "wall"}} }},
		{"periodic", func(ip *InputParameters1D) { ip.BCs = map[string]BCInput{"West": {Type: "periodic"}} }},
		{"fixed", func(ip *InputParameters1D) { ip.BCs = map[string]BCInput{"East": {Type: "fixed"}} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ip := NewInputParameters1D()
			tc.modify(ip)
			assert.ErrorIs(t, ip.Check(), ErrBadInput)
		})
	}
	for _, label := range []func(ip *InputParameters1D){
		func(ip *InputParameters1D) { ip.Case = "vortex" },
		func(ip *InputParameters1D) { ip.Physics = "mhd" },
		func(ip *InputParameters1D) { ip.Integrator = "rk99" },
		func(ip *InputParameters1D) { ip.FluxType = "roe" },
		func(ip *InputParameters1D) { ip.BCs = map[string]BCInput{"West": {Type: "sticky"}} },
	} {
		ip := NewInputParameters1D()
		label(ip)
		assert.Error(t, ip.Check())
	}
	assert.NoError(t, NewInputParameters1D().Check())
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	ip := NewInputParameters1D()
	ip.BCs = map[string]BCInput{"West": {Type: "fixed", State: &StateInput{Rho: 1, U: 0, P: 1}}}
	ip.Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "\"Sod Shock Tube\"\t\t= Title\n")
	assert.Contains(t, out, " 0.80000\t\t= CFL\n")
	assert.Contains(t, out, "BCs[West] = fixed {Rho:1 U:0 P:1}\n")
}
