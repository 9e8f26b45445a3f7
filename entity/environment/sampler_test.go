package environment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
)

func TestInPeakWindow(t *testing.T) {
	cases := map[time.Duration]bool{
		6*time.Hour + 29*time.Minute: false,
		6*time.Hour + 30*time.Minute: true,
		7 * time.Hour:                true,
		8 * time.Hour:                true,
		8*time.Hour + time.Second:    false,
		12 * time.Hour:               false,
		18 * time.Hour:               true,
		19 * time.Hour:               true,
		19*time.Hour + time.Minute:   false,
	}
	for tod, want := range cases {
		assert.Equal(t, want, InPeakWindow(tod), "%v", tod)
	}
}

func TestSampleDeterministicAndValid(t *testing.T) {
	a, b := NewSampler(3), NewSampler(3)
	for i := 0; i < 500; i++ {
		ea, eb := a.Sample(), b.Sample()
		assert.Equal(t, ea, eb)
		assert.Contains(t, entity.Weathers, ea.Weather)
		assert.Contains(t, entity.Flows, ea.CarFlow)
		assert.Contains(t, entity.Flows, ea.PedFlow)
		assert.GreaterOrEqual(t, ea.TimeOfDay, time.Duration(0))
		assert.Less(t, ea.TimeOfDay, 24*time.Hour)
		if InPeakWindow(ea.TimeOfDay) {
			assert.Equal(t, entity.FlowHigh, ea.CarFlow)
		}
	}
}

func TestSampleFlowWeights(t *testing.T) {
	s := NewSampler(11)
	ped := map[entity.Flow]int{}
	for i := 0; i < 6000; i++ {
		ped[s.Sample().PedFlow]++
	}
	assert.Greater(t, ped[entity.FlowMedium], ped[entity.FlowLow])
	assert.Greater(t, ped[entity.FlowLow], ped[entity.FlowHigh])
}
