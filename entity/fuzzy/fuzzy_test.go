package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
)

func TestTriangle(t *testing.T) {
	tri := Triangle{2, 5, 8}
	assert.Equal(t, 0., tri.At(2))
	assert.Equal(t, 1., tri.At(5))
	assert.InDelta(t, 0.5, tri.At(3.5), 1e-12)
	assert.InDelta(t, 1./3, tri.At(7), 1e-12)
	assert.Equal(t, 0., tri.At(9))

	shoulder := Triangle{0, 0, 4}
	assert.Equal(t, 1., shoulder.At(0))
	assert.InDelta(t, 0.5, shoulder.At(2), 1e-12)
}

func TestVariableMembership(t *testing.T) {
	v := MustVariable("x", 0, 10, 11, flowTerms...)
	assert.Equal(t, []string{"Low", "Medium", "High"}, v.Labels())
	assert.Len(t, v.Universe, 11)

	mu, err := v.Membership("Medium", 5)
	require.NoError(t, err)
	assert.InDelta(t, 1, mu, 1e-12)
	mu, err = v.Membership("Low", 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mu, 1e-12)
	// 论域外按端点取值
	mu, err = v.Membership("High", 42)
	require.NoError(t, err)
	assert.InDelta(t, 1, mu, 1e-12)

	_, err = v.Membership("Huge", 1)
	assert.ErrorIs(t, err, ErrUnknownLabel)
	assert.InDeltaSlice(t, []float64{0, 0, 0.75}, v.Memberships(9), 1e-12)

	_, err = NewVariable("bad", 1, 1, 5)
	assert.Error(t, err)
}

func TestNewSystemRejectsUnknownReferences(t *testing.T) {
	in := MustVariable("a", 0, 1, 2, Term{Label: "On", Shape: Triangle{0, 1, 1}})
	out := MustVariable("y", 0, 1, 2, Term{Label: "On", Shape: Triangle{0, 1, 1}})

	_, err := NewSystem(out, []Rule{{If: Is("b", "On"), Then: "On"}}, in)
	assert.ErrorIs(t, err, ErrUnknownLabel)
	_, err = NewSystem(out, []Rule{{If: Is("a", "Off"), Then: "On"}}, in)
	assert.ErrorIs(t, err, ErrUnknownLabel)
	_, err = NewSystem(out, []Rule{{If: Is("a", "On"), Then: "Off"}}, in)
	assert.ErrorIs(t, err, ErrUnknownLabel)

	s, err := NewSystem(out, []Rule{{If: Or(Is("a", "On"), And(Is("a", "On"), Is("a", "On"))), Then: "On"}}, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"1) IF a is On OR (a is On AND a is On) THEN y is On"}, s.Rules())

	_, _, err = s.Infer(Inputs{})
	assert.Error(t, err)
}

func TestCentroidPiecewiseLinear(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	// 对称三角形
	assert.InDelta(t, 2, Centroid(xs, []float64{0, 0.5, 1, 0.5, 0}), 1e-12)
	// 矩形
	assert.InDelta(t, 2, Centroid(xs, []float64{1, 1, 1, 1, 1}), 1e-12)
	// 左端高度1的直角三角形，重心在底边1/3处
	assert.InDelta(t, 4./3, Centroid(xs, []float64{1, 0.75, 0.5, 0.25, 0}), 1e-12)
	// 单段上升与下降三角形
	assert.InDelta(t, 2./3, Centroid([]float64{0, 1}, []float64{0, 1}), 1e-12)
	assert.InDelta(t, 1./3, Centroid([]float64{0, 1}, []float64{1, 0}), 1e-12)
	assert.Equal(t, 0., Centroid(xs, make([]float64, 5)))
}

func TestDurationCentroidMatchesContinuousIntegration(t *testing.T) {
	d := NewDurationSystem(12)
	v, err := d.Compute(entity.FlowHigh, entity.FlowHigh, 8, entity.WeatherRainy)
	require.NoError(t, err)
	assert.InDelta(t, 25.8, v, 1e-3)
	v, err = d.Compute(entity.FlowLow, entity.FlowHigh, 12, entity.WeatherSunny)
	require.NoError(t, err)
	assert.InDelta(t, 10.547, v, 1e-3)
}

func TestPriority(t *testing.T) {
	p, breakdown := ComputePriority(9, 20, 0)
	assert.InDelta(t, 6.7333, p, 1e-3)
	require.Len(t, breakdown, 3)
	assert.Equal(t, "car_component", breakdown[0].Label)
	assert.InDelta(t, 0.54, breakdown[0].Value, 1e-12)
	assert.Equal(t, "time_component", breakdown[1].Label)
	assert.Equal(t, "pedestrian_component", breakdown[2].Label)
	assert.Equal(t, 0., breakdown[2].Value)

	p, _ = ComputePriority(0, 0, 0)
	assert.Equal(t, 0., p)
	p, _ = ComputePriority(100, 100, 100)
	assert.InDelta(t, 10, p, 1e-12)
	p, _ = ComputePriority(-3, -1, -2)
	assert.Equal(t, 0., p)
}

func TestPriorityMonotone(t *testing.T) {
	values := []float64{0, 1, 3, 6, 10, 15, 30, 45}
	for _, a := range values {
		for _, b := range values {
			base, _ := ComputePriority(a, b, b/5)
			assert.GreaterOrEqual(t, base, 0.)
			assert.LessOrEqual(t, base, 10.)
			more, _ := ComputePriority(a+1, b, b/5)
			assert.GreaterOrEqual(t, more, base)
			more, _ = ComputePriority(a, b+1, b/5)
			assert.GreaterOrEqual(t, more, base)
			more, _ = ComputePriority(a, b, b/5+1)
			assert.GreaterOrEqual(t, more, base)
		}
	}
}

func TestQueuedVehiclesVariable(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0, 0, 1}, QueuedVehicles.Memberships(10), 1e-12)

	levels := QueuedVehicles.Fuzzify(3)
	require.Len(t, levels, 3)
	assert.Equal(t, "Low", levels[0].Label)
	assert.InDelta(t, 0.25, levels[0].Degree, 1e-12)
	assert.Equal(t, "Medium", levels[1].Label)
	assert.InDelta(t, 1./3, levels[1].Degree, 1e-12)
	assert.Equal(t, "High", levels[2].Label)
	assert.InDelta(t, 0, levels[2].Degree, 1e-12)
}

func TestDurationLowTraffic(t *testing.T) {
	d := NewDurationSystem(0)
	assert.Equal(t, DefaultFallbackDuration, d.Fallback())

	v, err := d.Compute(entity.FlowLow, entity.FlowLow, 3, entity.WeatherSunny)
	require.NoError(t, err)
	assert.InDelta(t, 28./9, v, 1e-9)
	assert.Less(t, v, 10.)

	activations := d.EvaluateRules(entity.FlowLow, entity.FlowLow, 3, entity.WeatherSunny)
	require.Len(t, activations, len(durationRules))
	for i, a := range activations {
		switch i {
		case 2, 6:
			assert.InDelta(t, 0.5, a.Degree, 1e-12, a.Rule)
		default:
			assert.Equal(t, 0., a.Degree, a.Rule)
		}
	}
}

func TestDurationPeakRain(t *testing.T) {
	d := NewDurationSystem(12)
	heavy, err := d.Compute(entity.FlowHigh, entity.FlowHigh, 8, entity.WeatherRainy)
	require.NoError(t, err)
	light, err := d.Compute(entity.FlowLow, entity.FlowLow, 3, entity.WeatherSunny)
	require.NoError(t, err)
	assert.Greater(t, heavy, light)
	assert.Greater(t, heavy, 18.)
	assert.LessOrEqual(t, heavy, 30.)
}

func TestDurationFallback(t *testing.T) {
	d := NewDurationSystem(12)
	v, err := d.Compute(entity.FlowMedium, entity.FlowHigh, 8, entity.WeatherSunny)
	assert.ErrorIs(t, err, ErrEmptyAggregate)
	assert.True(t, IsInferenceFailure(err))
	assert.Equal(t, 12., v)
}

func TestDurationRangeAndDeterminism(t *testing.T) {
	d := NewDurationSystem(12)
	flows := []entity.Flow{entity.FlowUnknown, entity.FlowLow, entity.FlowMedium, entity.FlowHigh}
	weathers := []entity.Weather{entity.WeatherUnknown, entity.WeatherSunny, entity.WeatherOvercast, entity.WeatherRainy}
	for _, cf := range flows {
		for _, pf := range flows {
			for _, w := range weathers {
				for _, h := range []int{-1, 0, 3, 8, 12, 18, 23, 30} {
					v1, err1 := d.Compute(cf, pf, h, w)
					v2, err2 := d.Compute(cf, pf, h, w)
					assert.Equal(t, v1, v2)
					assert.Equal(t, err1, err2)
					assert.GreaterOrEqual(t, v1, 0.)
					assert.LessOrEqual(t, v1, 30.)
				}
			}
		}
	}
}

func TestLabelMappings(t *testing.T) {
	v, ok := FlowValue(entity.FlowHigh)
	assert.True(t, ok)
	assert.Equal(t, 9., v)
	v, ok = FlowValue(entity.FlowUnknown)
	assert.False(t, ok)
	assert.Equal(t, 5., v)

	v, ok = WeatherValue(entity.WeatherRainy)
	assert.True(t, ok)
	assert.Equal(t, 2., v)
	v, ok = WeatherValue(entity.WeatherUnknown)
	assert.False(t, ok)
	assert.Equal(t, 1., v)

	cases := map[int]float64{0: 0, 6: 0, 7: 2, 9: 2, 10: 1, 16: 1, 17: 2, 19: 2, 20: 0, 23: 0}
	for h, want := range cases {
		v, ok := HourValue(h)
		assert.True(t, ok)
		assert.Equal(t, want, v, "hour %d", h)
	}
	v, ok = HourValue(24)
	assert.False(t, ok)
	assert.Equal(t, 1., v)
}

func TestDurationRulesDescribed(t *testing.T) {
	rules := NewDurationSystem(12).Rules()
	require.Len(t, rules, 9)
	assert.Equal(t, "1) IF carFlow is High AND timeOfDay is Peak THEN duration is High", rules[0])
	assert.Equal(t, "3) IF carFlow is Low OR pedFlow is Low THEN duration is Low", rules[2])
}
