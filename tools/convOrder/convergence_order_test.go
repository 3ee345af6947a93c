package convOrder

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secondOrder(title string) *Study {
	cs := NewStudy(title)
	for _, n := range []int{10, 20, 40} {
		e := make([]float64, n)
		for i := range e {
			e[i] = 1 / float64(n*n)
		}
		cs.Add(n, e)
	}
	return cs
}

func TestOrders(t *testing.T) {
	cs := secondOrder("quadratic")
	assert.InDelta(t, 0.01, cs.L1[0], 1.e-15)
	assert.InDelta(t, 0.01, cs.RMS[0], 1.e-15)
	assert.InDelta(t, 0.01, cs.Max[0], 1.e-15)
	l1, rms, linf, err := cs.Orders()
	require.NoError(t, err)
	for _, o := range [][]float64{l1, rms, linf} {
		require.Len(t, o, 2)
		assert.InDelta(t, 2, o[0], 1.e-12)
		assert.InDelta(t, 2, o[1], 1.e-12)
	}

	_, _, _, err = NewStudy("one").Orders()
	assert.ErrorIs(t, err, ErrStudy)
	bad := NewStudy("shrinking")
	bad.AddNorms(20, 1, 1, 1)
	bad.AddNorms(10, 2, 2, 2)
	_, _, _, err = bad.Orders()
	assert.ErrorIs(t, err, ErrStudy)
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	a, b := secondOrder("b-study"), secondOrder("a-study")
	b.AddNorms(80, math.Pi, 1, 2)
	require.NoError(t, WriteCSV(&buf, a, b))
	studies, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, studies, 2)
	assert.Equal(t, "a-study", studies[0].Title)
	assert.Equal(t, b, studies[0])
	assert.Equal(t, a, studies[1])

	_, err = ReadCSV(bytes.NewBufferString("title,cells,l1,rms,max\nx,ten,1,1,1\n"))
	assert.ErrorIs(t, err, ErrStudy)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	secondOrder("quadratic").Print(&buf)
	out := buf.String()
	assert.Contains(t, out, "Title = quadratic\n")
	assert.Contains(t, out, "   2.000")
}
