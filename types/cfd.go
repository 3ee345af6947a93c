package types

import (
	"fmt"
	"strings"
)

// BCFLAG selects the ghost cell policy used at one edge of the domain.
type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Outflow
	BC_Reflecting
	BC_Fixed
	BC_Periodic
)

var BCNameMap = map[string]BCFLAG{
	"outflow":     BC_Outflow,
	"out":         BC_Outflow,
	"nogradients": BC_Outflow,
	"neuman":      BC_Outflow,
	"reflecting":  BC_Reflecting,
	"wall":        BC_Reflecting,
	"slip":        BC_Reflecting,
	"fixed":       BC_Fixed,
	"dirichlet":   BC_Fixed,
	"inflow":      BC_Fixed,
	"periodic":    BC_Periodic,
}

var bcPrintNames = []string{"None", "Outflow", "Reflecting", "Fixed", "Periodic"}

func (bc BCFLAG) String() string {
	if int(bc) < len(bcPrintNames) {
		return bcPrintNames[bc]
	}
	return fmt.Sprintf("BCFLAG(%d)", bc)
}

func NewBCFLAG(label string) (bc BCFLAG, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if bc, ok = BCNameMap[label]; !ok {
		err = fmt.Errorf("unable to use boundary condition named %q", label)
	}
	return
}
