package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBCFLAG(t *testing.T) {
	for label, want := range map[string]BCFLAG{
		"outflow":     BC_Outflow,
		"NoGradients": BC_Outflow,
		" wall ":      BC_Reflecting,
		"Fixed":       BC_Fixed,
		"periodic":    BC_Periodic,
	} {
		bc, err := NewBCFLAG(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, bc, label)
	}
	_, err := NewBCFLAG("cyl")
	assert.Error(t, err)
	assert.Equal(t, "Periodic", BC_Periodic.String())
	assert.Equal(t, "BCFLAG(42)", BCFLAG(42).String())
}
