package randengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReproducible(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestDiscreteDistribution(t *testing.T) {
	e := New(1)
	counts := make([]int, 3)
	for i := 0; i < 6000; i++ {
		counts[e.DiscreteDistribution([]float64{1, 3, 2})]++
	}
	assert.Greater(t, counts[1], counts[2])
	assert.Greater(t, counts[2], counts[0])

	for i := 0; i < 100; i++ {
		assert.Equal(t, 1, e.DiscreteDistribution([]float64{0, 1, 0}))
	}
}

func TestPTrueAndChoice(t *testing.T) {
	e := New(7)
	for i := 0; i < 100; i++ {
		assert.True(t, e.PTrue(1))
		assert.False(t, e.PTrue(0))
		assert.Contains(t, []string{"a", "b"}, Choice(e, []string{"a", "b"}))
	}
}
