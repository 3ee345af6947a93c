package output

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/notargets/hydro1d/solver"
)

const (
	PlotWidth  = 80
	PlotHeight = 15
)

// Plot draws one primitive variable of a snapshot as a terminal line chart.
// An optional reference profile of the same length is drawn alongside.
func Plot(snap *solver.Snapshot, field string, reference ...[]float64) (string, error) {
	data, ok := snap.FieldByName(field)
	if !ok {
		return "", fmt.Errorf("output: no field %q, have %v", field, snap.PrimitiveNames)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("output: empty snapshot")
	}
	opts := []asciigraph.Option{
		asciigraph.Height(PlotHeight),
		asciigraph.Width(PlotWidth),
		asciigraph.Caption(fmt.Sprintf("%s at t = %.5f, iteration %d", field, snap.Time, snap.Iteration)),
	}
	series := [][]float64{data}
	for _, ref := range reference {
		if len(ref) != len(data) {
			return "", fmt.Errorf("output: reference has %d points, field has %d", len(ref), len(data))
		}
		series = append(series, ref)
	}
	if len(series) == 1 {
		return asciigraph.Plot(data, opts...), nil
	}
	return asciigraph.PlotMany(series, opts...), nil
}
