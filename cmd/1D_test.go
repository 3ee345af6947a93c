package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/hydro1d/InputParameters"
	"github.com/notargets/hydro1d/output"
)

func TestRun1D(t *testing.T) {
	var (
		dir = t.TempDir()
		m1d = &Model1D{
			DBPath:      filepath.Join(dir, "runs.db"),
			CSVDir:      filepath.Join(dir, "csv"),
			MetricsFile: filepath.Join(dir, "hydro1d.prom"),
			PlotField:   "density",
			Verbose:     true,
		}
		ip  = InputParameters.NewInputParameters1D()
		buf bytes.Buffer
	)
	ip.Cells = 50
	ip.FinalTime = 0.05
	ip.Outputs = 2
	require.NoError(t, Run1D(context.Background(), m1d, ip, &buf))
	out := buf.String()
	assert.Contains(t, out, "\"Sod Shock Tube\"\t\t= Title")
	assert.Contains(t, out, "Archiving run ")
	assert.Contains(t, out, "Density L1 error vs exact")
	assert.Contains(t, out, "density at t = 0.05000")

	files, err := filepath.Glob(filepath.Join(m1d.CSVDir, "*.csv"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
	prom, err := os.ReadFile(m1d.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "hydro1d_snapshots_total 3")

	buf.Reset()
	require.NoError(t, ListRuns(&buf, m1d.DBPath))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], output.RunFinished)
	assert.Contains(t, lines[1], "Sod Shock Tube")
	id := strings.Fields(lines[1])[0]

	buf.Reset()
	require.NoError(t, PlotRun(&buf, m1d.DBPath, id, "pressure", -1))
	assert.Contains(t, buf.String(), "pressure at t = 0.05000")
	assert.Error(t, PlotRun(&buf, m1d.DBPath, id, "pressure", 3))
	assert.Error(t, PlotRun(&buf, m1d.DBPath, "nope", "pressure", 0))
}

func TestRun1DRecordsFailure(t *testing.T) {
	var (
		dir = t.TempDir()
		m1d = &Model1D{DBPath: filepath.Join(dir, "runs.db")}
		ip  = InputParameters.NewInputParameters1D()
		buf bytes.Buffer
	)
	ip.Cells = 20
	ip.FinalTime = 10
	ip.MaxIterations = 2
	err := Run1D(context.Background(), m1d, ip, &buf)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Last good state at t = ")

	st, err := output.OpenStore(m1d.DBPath)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	runs, err := st.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, output.RunFailed, runs[0].Status)
	assert.Contains(t, runs[0].Message, "iteration limit")
}

func TestRun1DRejectsBadInput(t *testing.T) {
	ip := InputParameters.NewInputParameters1D()
	ip.CFL = 2
	err := Run1D(context.Background(), &Model1D{}, ip, &bytes.Buffer{})
	assert.ErrorIs(t, err, InputParameters.ErrBadInput)
}

func TestRunConvergence(t *testing.T) {
	ip := InputParameters.NewInputParameters1D()
	ip.Case = "densitywave"
	ip.FinalTime = 0.2
	var buf bytes.Buffer
	cs, err := RunConvergence(context.Background(), ip, []int{20, 40}, &buf)
	require.NoError(t, err)
	require.Len(t, cs.L1, 2)
	assert.Less(t, cs.L1[1], cs.L1[0])
	l1, _, _, err := cs.Orders()
	require.NoError(t, err)
	assert.Greater(t, l1[0], 0.5)
	assert.Contains(t, buf.String(), "Title = densitywave, adiabatic, rkf45")

	ip.Case = "noh"
	ip.Physics = "isothermal"
	_, err = RunConvergence(context.Background(), ip, []int{20}, &buf)
	assert.Error(t, err)
}
