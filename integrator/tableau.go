package integrator

import (
	"errors"
	"fmt"
	"strings"
)

// ButcherTableau holds an explicit Runge-Kutta scheme. A is strictly lower
// triangular, A[q][p] weighting stage p when building stage q. When
// Embedded is true BLow gives a solution of order LowOrder from the same
// stages and the step is error controlled.
type ButcherTableau struct {
	Name     string
	A        [][]float64
	BHigh    []float64
	BLow     []float64
	C        []float64
	Order    int
	LowOrder int
	Embedded bool
}

func (bt *ButcherTableau) Stages() int { return len(bt.BHigh) }

var ErrUnknownTableau = errors.New("integrator: unknown Butcher tableau")

var (
	TableauNames   = []string{"rk1", "rk2", "rk3", "rk4", "heun2", "rkf12", "rkf45", "ssprk3", "ssprk5"}
	tableauAliases = map[string]string{
		"":         "rkf45",
		"euler":    "rk1",
		"midpoint": "rk2",
		"heun":     "heun2",
	}
)

// NewTableau returns the named scheme; an empty name selects rkf45.
func NewTableau(name string) (bt *ButcherTableau, err error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := tableauAliases[name]; ok {
		name = alias
	}
	switch name {
	case "rk1":
		bt = &ButcherTableau{
			A:     [][]float64{{0}},
			BHigh: []float64{1},
			C:     []float64{0},
			Order: 1,
		}
	case "rk2":
		bt = &ButcherTableau{
			A: [][]float64{
				{0, 0},
				{0.5, 0},
			},
			BHigh: []float64{0, 1},
			C:     []float64{0, 0.5},
			Order: 2,
		}
	case "rk3":
		bt = &ButcherTableau{
			A: [][]float64{
				{0, 0, 0},
				{0.5, 0, 0},
				{-1, 2, 0},
			},
			BHigh: []float64{1. / 6., 2. / 3., 1. / 6.},
			C:     []float64{0, 0.5, 1},
			Order: 3,
		}
	case "rk4":
		bt = &ButcherTableau{
			A: [][]float64{
				{0, 0, 0, 0},
				{0.5, 0, 0, 0},
				{0, 0.5, 0, 0},
				{0, 0, 1, 0},
			},
			BHigh: []float64{1. / 6., 1. / 3., 1. / 3., 1. / 6.},
			C:     []float64{0, 0.5, 0.5, 1},
			Order: 4,
		}
	case "heun2":
		bt = &ButcherTableau{
			A: [][]float64{
				{0, 0},
				{1, 0},
			},
			BHigh:    []float64{0.5, 0.5},
			BLow:     []float64{1, 0},
			C:        []float64{0, 1},
			Order:    2,
			LowOrder: 1,
			Embedded: true,
		}
	case "rkf12":
		bt = &ButcherTableau{
			A: [][]float64{
				{0, 0, 0},
				{0.5, 0, 0},
				{1. / 256., 255. / 256., 0},
			},
			BHigh:    []float64{1. / 512., 255. / 256., 1. / 512.},
			BLow:     []float64{1. / 256., 255. / 256., 0},
			C:        []float64{0, 0.5, 1},
			Order:    2,
			LowOrder: 1,
			Embedded: true,
		}
	case "rkf45":
		bt = &ButcherTableau{
			A: [][]float64{
				{0, 0, 0, 0, 0, 0},
				{1. / 4., 0, 0, 0, 0, 0},
				{3. / 32., 9. / 32., 0, 0, 0, 0},
				{1932. / 2197., -7200. / 2197., 7296. / 2197., 0, 0, 0},
				{439. / 216., -8, 3680. / 513., -845. / 4104., 0, 0},
				{-8. / 27., 2, -3544. / 2565., 1859. / 4104., -11. / 40., 0},
			},
			BHigh:    []float64{16. / 135., 0, 6656. / 12825., 28561. / 56430., -9. / 50., 2. / 55.},
			BLow:     []float64{25. / 216., 0, 1408. / 2565., 2197. / 4104., -1. / 5., 0},
			C:        []float64{0, 1. / 4., 3. / 8., 12. / 13., 1, 1. / 2.},
			Order:    5,
			LowOrder: 4,
			Embedded: true,
		}
	case "ssprk3":
		bt = &ButcherTableau{
			A: [][]float64{
				{0, 0, 0},
				{1, 0, 0},
				{0.25, 0.25, 0},
			},
			BHigh:    []float64{1. / 6., 1. / 6., 2. / 3.},
			BLow:     []float64{0.5, 0.5, 0},
			C:        []float64{0, 1, 0.5},
			Order:    3,
			LowOrder: 2,
			Embedded: true,
		}
	case "ssprk5":
		bt = &ButcherTableau{
			A: [][]float64{
				{0, 0, 0, 0, 0},
				{0.36717, 0, 0, 0, 0},
				{0.26802, 0.31720, 0, 0, 0},
				{0.11606, 0.13735, 0.18816, 0, 0},
				{0.11212, 0.13269, 0.18178, 0.41980, 0},
			},
			BHigh:    []float64{0.17279, 0.094505, 0.12947, 0.29899, 0.30424},
			BLow:     []float64{0.12293, 0.31981, -0.15316, 0.31887, 0.39155},
			C:        []float64{0, 0.36717, 0.58522, 0.44156, 0.8464},
			Order:    4,
			LowOrder: 3,
			Embedded: true,
		}
	default:
		err = fmt.Errorf("%w: %q, choose one of %v", ErrUnknownTableau, name, TableauNames)
		return
	}
	bt.Name = name
	return
}
