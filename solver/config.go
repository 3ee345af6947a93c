package solver

import (
	"fmt"
	"io"
	"math"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/boundary"
	"github.com/notargets/hydro1d/numflux"
	"github.com/notargets/hydro1d/physics"
)

const (
	DefaultCFL             = 0.8
	DefaultRelTol          = 1.e-4
	DefaultAbsTol          = 1.e-6
	DefaultDtMin           = 1.e-12
	DefaultReportFrequency = 50
)

// Config fully describes a run. Zero values for the tolerances, step bounds
// and report frequency take the defaults above.
type Config struct {
	Mesh    *FV1D.Mesh1D
	Physics physics.Physics
	West    boundary.Policy
	East    boundary.Policy
	Flux    numflux.FluxType
	Tableau string // Name of the Butcher tableau, "" is rkf45

	CFL       float64
	RelTol    float64
	AbsTol    float64
	DtMin     float64
	DtMax     float64 // Zero is unbounded
	InitialDt float64 // Zero starts from the CFL step

	FinalTime     float64
	MaxIterations int // Zero is unlimited
	Outputs       int // Snapshots taken at evenly spaced times after t0, the last one at FinalTime

	Validate        bool
	ParallelDegree  int // Zero picks one from the machine and mesh size
	Verbose         bool
	ReportFrequency int
	Out             io.Writer
}

func (cfg *Config) setDefaults() {
	if cfg.CFL == 0 {
		cfg.CFL = DefaultCFL
	}
	if cfg.RelTol == 0 && cfg.AbsTol == 0 {
		cfg.RelTol, cfg.AbsTol = DefaultRelTol, DefaultAbsTol
	}
	if cfg.DtMin == 0 {
		cfg.DtMin = DefaultDtMin
	}
	if cfg.DtMax == 0 {
		cfg.DtMax = math.MaxFloat64
	}
	if cfg.Outputs < 1 {
		cfg.Outputs = 1
	}
	if cfg.ReportFrequency < 1 {
		cfg.ReportFrequency = DefaultReportFrequency
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
}

func (cfg *Config) check() error {
	switch {
	case cfg.Mesh == nil:
		return fmt.Errorf("%w: no mesh", ErrConfig)
	case cfg.Physics == nil:
		return fmt.Errorf("%w: no physics", ErrConfig)
	case !(cfg.FinalTime > 0) || math.IsInf(cfg.FinalTime, 0):
		return fmt.Errorf("%w: final time %g must be positive and finite", ErrConfig, cfg.FinalTime)
	case cfg.InitialDt < 0:
		return fmt.Errorf("%w: initial dt %g is negative", ErrConfig, cfg.InitialDt)
	case cfg.MaxIterations < 0:
		return fmt.Errorf("%w: negative iteration limit", ErrConfig)
	}
	return nil
}
