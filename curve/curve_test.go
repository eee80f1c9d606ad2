package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLinear(t *testing.T) {
	var c Curve
	require.NoError(t, c.AddKey(10, 100))
	require.NoError(t, c.AddKey(0, 0))
	require.NoError(t, c.AddKey(20, 50))

	var tests = []struct {
		time float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{5, 50},
		{10, 100},
		{15, 75},
		{20, 50},
		{100, 50},
	}
	for _, test := range tests {
		v, ok := c.Evaluate(test.time)
		require.True(t, ok)
		assert.InDeltaf(t, test.want, v, 1e-12, "Evaluate(%v)", test.time)
	}
}

func TestEvaluateConstant(t *testing.T) {
	c := Curve{Interpolation: Constant}
	require.NoError(t, c.AddKey(0, 1))
	require.NoError(t, c.AddKey(10, 2))
	v, _ := c.Evaluate(9.99)
	assert.Equal(t, 1.0, v)
	v, _ = c.Evaluate(10)
	assert.Equal(t, 2.0, v)
}

func TestAddKeyReplaces(t *testing.T) {
	var c Curve
	require.NoError(t, c.AddKey(1, 1))
	require.NoError(t, c.AddKey(1, 3))
	assert.Equal(t, 1, c.Len())
	v, _ := c.Evaluate(1)
	assert.Equal(t, 3.0, v)

	assert.Error(t, c.AddKey(math.NaN(), 0))
}

func TestEmptyCurve(t *testing.T) {
	var c Curve
	_, ok := c.Evaluate(0)
	assert.False(t, ok)
	_, _, ok = c.Range()
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	var c Curve
	require.NoError(t, c.AddKey(0, 1))
	cl := c.Clone()
	require.NoError(t, cl.AddKey(0, 5))
	v, _ := c.Evaluate(0)
	assert.Equal(t, 1.0, v)
}
