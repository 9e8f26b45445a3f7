package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/config"
)

func TestParseFillsDefaults(t *testing.T) {
	c, err := config.Parse([]byte(`
control:
  step:
    total: 600
intersection:
  yellow_time: 3
output:
  csv: metrics.csv
`))
	require.NoError(t, err)
	assert.Equal(t, int32(600), c.Control.Step.Total)
	assert.Equal(t, int32(60), c.Control.Step.TickRate)
	assert.Equal(t, 3.0, c.Intersection.YellowTime)
	assert.Equal(t, 5.0, c.Intersection.PriorityThreshold)
	assert.Equal(t, "metrics.csv", c.Output.CSV)

	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	assert.Equal(t, 180, rc.YellowTicks())
	assert.InDelta(t, 1.0/60, rc.DT(), 1e-12)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := config.Parse([]byte("control:\n  nope: 1\n"))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewRuntimeConfigValidation(t *testing.T) {
	c := config.Default()
	c.Spawn.CarRate = -1
	_, err := config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	c = config.Default()
	c.Output.Mongo.URI = "mongodb://localhost:27017"
	_, err = config.NewRuntimeConfig(c)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	c = config.Default()
	c.Control.Step.TickRate = 0
	c.Intersection.YellowTime = 0
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	assert.Equal(t, 120, rc.YellowTicks())
}

func TestFlowMultiplier(t *testing.T) {
	m := config.Default().Spawn.CarFlow
	assert.Equal(t, 0.25, m.Multiplier("Low"))
	assert.Equal(t, 1.3, m.Multiplier("High"))
	assert.Equal(t, 1.0, m.Multiplier("Unknown"))
}
