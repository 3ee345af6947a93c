package InputParameters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/hydro1d/FV1D"
	"github.com/notargets/hydro1d/boundary"
	"github.com/notargets/hydro1d/cases"
	"github.com/notargets/hydro1d/integrator"
	"github.com/notargets/hydro1d/numflux"
	"github.com/notargets/hydro1d/physics"
	"github.com/notargets/hydro1d/solver"
	"github.com/notargets/hydro1d/types"
)

var ErrBadInput = errors.New("input: invalid parameter")

type StateInput struct {
	Rho float64 `json:"Rho"`
	U   float64 `json:"U"`
	P   float64 `json:"P"`
}

type BCInput struct {
	Type  string      `json:"Type"`
	State *StateInput `json:"State,omitempty"` // Used by fixed boundaries
}

// Parameters obtained from the YAML input file. ghodss/yaml goes through
// encoding/json, so the keys are given by the json tags.
type InputParameters1D struct {
	Title             string             `json:"Title"`
	Case              string             `json:"Case"`
	Cells             int                `json:"Cells"`
	XMin              float64            `json:"XMin"`
	XMax              float64            `json:"XMax"`
	Breakpoint        *float64           `json:"Breakpoint,omitempty"`
	Amplitude         *float64           `json:"Amplitude,omitempty"`
	Left              *StateInput        `json:"Left,omitempty"`
	Right             *StateInput        `json:"Right,omitempty"`
	CFL               float64            `json:"CFL"`
	Tolerance         float64            `json:"Tolerance"`
	AbsoluteTolerance float64            `json:"AbsoluteTolerance"`
	MinDt             float64            `json:"MinDt"`
	MaxDt             float64            `json:"MaxDt"`
	InitialDt         float64            `json:"InitialDt"`
	FinalTime         float64            `json:"FinalTime"`
	MaxIterations     int                `json:"MaxIterations"`
	Outputs           int                `json:"Outputs"`
	Physics           string             `json:"Physics"`
	Gamma             float64            `json:"Gamma"`
	SoundSpeed        float64            `json:"SoundSpeed"`
	Integrator        string             `json:"Integrator"`
	FluxType          string             `json:"FluxType"`
	BCs               map[string]BCInput `json:"BCs,omitempty"` // Keyed by edge, West or East
	Validate          bool               `json:"Validate"`
	ParallelDegree    int                `json:"ParallelDegree"`
}

func NewInputParameters1D() *InputParameters1D {
	return &InputParameters1D{
		Title:             "Sod Shock Tube",
		Case:              "sod",
		Cells:             100,
		XMin:              0,
		XMax:              1,
		CFL:               solver.DefaultCFL,
		Tolerance:         solver.DefaultRelTol,
		AbsoluteTolerance: solver.DefaultAbsTol,
		MinDt:             solver.DefaultDtMin,
		FinalTime:         0.2,
		Outputs:           1,
		Physics:           "adiabatic",
		Gamma:             1.4,
		SoundSpeed:        1,
		Integrator:        "rkf45",
		FluxType:          "hll",
		Validate:          true,
	}
}

// Parse overlays the YAML document on the current values.
func (ip *InputParameters1D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func ReadFile(path string) (ip *InputParameters1D, err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	ip = NewInputParameters1D()
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return
}

func (ip *InputParameters1D) bc(edge string) (bc BCInput, ok bool) {
	for k, v := range ip.BCs {
		if strings.EqualFold(k, edge) {
			return v, true
		}
	}
	return
}

func bad(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrBadInput}, args...)...)
}

// Check rejects inconsistent or out of range parameters.
func (ip *InputParameters1D) Check() (err error) {
	var kind physics.Kind
	switch {
	case ip.Cells < FV1D.NGhost:
		return bad("Cells = %d, need at least %d", ip.Cells, FV1D.NGhost)
	case !(ip.XMax > ip.XMin):
		return bad("XMax = %g must exceed XMin = %g", ip.XMax, ip.XMin)
	case !(ip.CFL > 0 && ip.CFL < 1):
		return bad("CFL = %g must be in (0,1)", ip.CFL)
	case ip.Tolerance < 0 || ip.AbsoluteTolerance < 0 || (ip.Tolerance == 0 && ip.AbsoluteTolerance == 0):
		return bad("tolerances must be non-negative and not both zero, got %g, %g", ip.Tolerance, ip.AbsoluteTolerance)
	case !(ip.MinDt > 0) || ip.MaxDt < 0 || (ip.MaxDt > 0 && ip.MaxDt < ip.MinDt):
		return bad("need 0 < MinDt <= MaxDt, got %g, %g", ip.MinDt, ip.MaxDt)
	case !(ip.FinalTime > 0):
		return bad("FinalTime = %g must be positive", ip.FinalTime)
	case ip.MaxIterations < 0 || ip.Outputs < 0 || ip.ParallelDegree < 0 || ip.InitialDt < 0:
		return bad("MaxIterations, Outputs, ParallelDegree and InitialDt must not be negative")
	}
	if ip.Breakpoint != nil && !(*ip.Breakpoint > ip.XMin && *ip.Breakpoint < ip.XMax) {
		return bad("Breakpoint = %g is outside (%g, %g)", *ip.Breakpoint, ip.XMin, ip.XMax)
	}
	if kind, err = physics.NewKind(ip.Physics); err != nil {
		return
	}
	switch {
	case kind == physics.Adiabatic && !(ip.Gamma > 1):
		return bad("Gamma = %g must exceed 1", ip.Gamma)
	case kind == physics.Isothermal && !(ip.SoundSpeed > 0):
		return bad("SoundSpeed = %g must be positive", ip.SoundSpeed)
	}
	if _, err = cases.NewCaseType(ip.Case); err != nil {
		return
	}
	if _, err = integrator.NewTableau(ip.Integrator); err != nil {
		return
	}
	if _, err = numflux.NewFluxType(ip.FluxType); err != nil {
		return
	}
	for k := range ip.BCs {
		if !strings.EqualFold(k, "west") && !strings.EqualFold(k, "east") {
			return bad("boundary edge %q, must be West or East", k)
		}
	}
	var periodic int
	for _, edge := range []string{"West", "East"} {
		bci, ok := ip.bc(edge)
		if !ok {
			continue
		}
		var flag types.BCFLAG
		if flag, err = types.NewBCFLAG(bci.Type); err != nil {
			return
		}
		switch flag {
		case types.BC_Periodic:
			periodic++
		case types.BC_Fixed:
			if bci.State == nil {
				return bad("fixed boundary on %s edge needs a State", edge)
			}
		}
	}
	if periodic == 1 {
		return bad("periodic boundaries must be set on both edges")
	}
	return
}

func (si *StateInput) primitives(phys physics.Physics) []float64 {
	return []float64{si.Rho, si.U, si.P}[:phys.NumEquations()]
}

// Setup is a fully built run: the solver configuration, the case and its
// initial condition.
type Setup struct {
	Config       solver.Config
	Case         cases.Case
	InitialPrims *mat.Dense
}

// Setup checks the parameters and builds everything a run needs.
func (ip *InputParameters1D) Setup() (su *Setup, err error) {
	if err = ip.Check(); err != nil {
		return
	}
	var (
		kind, _ = physics.NewKind(ip.Physics)
		ct, _   = cases.NewCaseType(ip.Case)
		ft, _   = numflux.NewFluxType(ip.FluxType)
		phys    physics.Physics
		mesh    *FV1D.Mesh1D
	)
	if phys, err = physics.New(kind, physics.Params{Gamma: ip.Gamma, SoundSpeed: ip.SoundSpeed}); err != nil {
		return
	}
	if mesh, err = FV1D.NewMesh1D(FV1D.CellsWithGhosts(ip.Cells), ip.XMin, ip.XMax); err != nil {
		return
	}
	c := cases.Default(ct, phys)
	if ip.Breakpoint != nil {
		c.Breakpoint = *ip.Breakpoint
	}
	if ip.Amplitude != nil {
		c.Amplitude = *ip.Amplitude
	}
	if ip.Left != nil {
		c.Left = ip.Left.primitives(phys)
	}
	if ip.Right != nil {
		c.Right = ip.Right.primitives(phys)
	}
	west, east := c.Boundaries()
	for _, edge := range []struct {
		name string
		p    *boundary.Policy
	}{{"West", &west}, {"East", &east}} {
		bci, ok := ip.bc(edge.name)
		if !ok {
			continue
		}
		flag, _ := types.NewBCFLAG(bci.Type)
		if flag == types.BC_Fixed {
			*edge.p = boundary.Fixed(bci.State.primitives(phys)...)
		} else {
			*edge.p = boundary.Policy{Type: flag}
		}
	}
	su = &Setup{Case: c}
	if su.InitialPrims, err = c.InitialPrimitives(mesh, phys); err != nil {
		return nil, err
	}
	su.Config = solver.Config{
		Mesh:           mesh,
		Physics:        phys,
		West:           west,
		East:           east,
		Flux:           ft,
		Tableau:        ip.Integrator,
		CFL:            ip.CFL,
		RelTol:         ip.Tolerance,
		AbsTol:         ip.AbsoluteTolerance,
		DtMin:          ip.MinDt,
		DtMax:          ip.MaxDt,
		InitialDt:      ip.InitialDt,
		FinalTime:      ip.FinalTime,
		MaxIterations:  ip.MaxIterations,
		Outputs:        ip.Outputs,
		Validate:       ip.Validate,
		ParallelDegree: ip.ParallelDegree,
	}
	return
}

func (ip *InputParameters1D) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t\t= Case\n", ip.Case)
	fmt.Fprintf(w, "[%s]\t\t= Physics\n", ip.Physics)
	fmt.Fprintf(w, "%d\t\t\t= Cells\n", ip.Cells)
	fmt.Fprintf(w, "[%g, %g]\t\t= Domain\n", ip.XMin, ip.XMax)
	fmt.Fprintf(w, "%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Fprintf(w, "%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Fprintf(w, "[%s]\t\t\t= Flux Type\n", ip.FluxType)
	fmt.Fprintf(w, "[%s]\t\t\t= Integrator\n", ip.Integrator)
	fmt.Fprintf(w, "%8.2e, %8.2e\t= Tolerance, AbsoluteTolerance\n", ip.Tolerance, ip.AbsoluteTolerance)
	keys := make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "BCs[%s] = %s", key, ip.BCs[key].Type)
		if st := ip.BCs[key].State; st != nil {
			fmt.Fprintf(w, " %+v", *st)
		}
		fmt.Fprintf(w, "\n")
	}
}
