package fuzzy

import (
	"errors"

	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
)

const (
	// DefaultFallbackDuration 推理失败时使用的推荐时长（秒）
	DefaultFallbackDuration = 12.

	varCarFlow   = "carFlow"
	varPedFlow   = "pedFlow"
	varTimeOfDay = "timeOfDay"
	varWeather   = "weather"
	varDuration  = "duration"
)

var (
	flowTerms = []Term{
		{Label: "Low", Shape: Triangle{0, 0, 4}},
		{Label: "Medium", Shape: Triangle{2, 5, 8}},
		{Label: "High", Shape: Triangle{6, 10, 10}},
	}

	durationRules = []Rule{
		{If: And(Is(varCarFlow, "High"), Is(varTimeOfDay, "Peak")), Then: "High"},
		{If: And(Is(varCarFlow, "Medium"), Is(varPedFlow, "Medium"), Is(varTimeOfDay, "Normal")), Then: "Medium"},
		{If: Or(Is(varCarFlow, "Low"), Is(varPedFlow, "Low")), Then: "Low"},
		{If: And(Is(varCarFlow, "High"), Is(varPedFlow, "High"), Is(varTimeOfDay, "Normal")), Then: "Medium"},
		{If: And(Is(varCarFlow, "High"), Is(varPedFlow, "High"), Is(varTimeOfDay, "Peak")), Then: "High"},
		{If: And(Is(varCarFlow, "High"), Is(varWeather, "Rainy")), Then: "High"},
		{If: And(Is(varCarFlow, "Low"), Is(varPedFlow, "Low"), Is(varTimeOfDay, "Other")), Then: "Low"},
		{If: And(Is(varCarFlow, "Low"), Is(varPedFlow, "High")), Then: "Medium"},
		{If: And(Is(varCarFlow, "Medium"), Is(varTimeOfDay, "Other")), Then: "Medium"},
	}
)

// DurationSystem 推荐绿灯时长推理系统
// 功能：由车流、人流、时段、天气四个输入推理0~30秒的推荐绿灯时长
type DurationSystem struct {
	system   *System
	fallback float64
}

// NewDurationSystem 创建推荐时长推理系统
// 参数：fallback-推理失败时的推荐时长，<=0时使用DefaultFallbackDuration
func NewDurationSystem(fallback float64) *DurationSystem {
	if fallback <= 0 {
		fallback = DefaultFallbackDuration
	}
	s, err := NewSystem(
		MustVariable(varDuration, 0, 30, 31,
			Term{Label: "Low", Shape: Triangle{0, 0, 8}},
			Term{Label: "Medium", Shape: Triangle{6, 15, 22}},
			Term{Label: "High", Shape: Triangle{18, 30, 30}},
		),
		durationRules,
		MustVariable(varCarFlow, 0, 10, 11, flowTerms...),
		MustVariable(varPedFlow, 0, 10, 11, flowTerms...),
		MustVariable(varTimeOfDay, 0, 2, 3,
			Term{Label: "Other", Shape: Triangle{0, 0, 1}},
			Term{Label: "Normal", Shape: Triangle{0, 1, 2}},
			Term{Label: "Peak", Shape: Triangle{1, 2, 2}},
		),
		MustVariable(varWeather, 0, 2, 3,
			Term{Label: "Sunny", Shape: Triangle{0, 0, 1}},
			Term{Label: "Overcast", Shape: Triangle{0, 1, 2}},
			Term{Label: "Rainy", Shape: Triangle{1, 2, 2}},
		),
	)
	if err != nil {
		log.Panicf("build duration system: %v", err)
	}
	return &DurationSystem{system: s, fallback: fallback}
}

// Fallback 推理失败时的推荐时长
func (d *DurationSystem) Fallback() float64 {
	return d.fallback
}

// Rules 规则描述
func (d *DurationSystem) Rules() []string {
	return d.system.Rules()
}

// FlowValue 流量标签映射为代表值：Low→2，Medium→5，High→9，未知标签→5
// 返回：代表值、标签是否可识别
func FlowValue(f entity.Flow) (float64, bool) {
	switch f {
	case entity.FlowLow:
		return 2, true
	case entity.FlowMedium:
		return 5, true
	case entity.FlowHigh:
		return 9, true
	default:
		return 5, false
	}
}

// WeatherValue 天气标签映射为代表值：Sunny→0，Overcast→1，Rainy→2，未知标签→1
func WeatherValue(w entity.Weather) (float64, bool) {
	switch w {
	case entity.WeatherSunny:
		return 0, true
	case entity.WeatherOvercast:
		return 1, true
	case entity.WeatherRainy:
		return 2, true
	default:
		return 1, false
	}
}

// HourValue 小时映射为时段：7-9点与17-19点为Peak(2)，10-16点为Normal(1)，其余为Other(0)
// 说明：不在[0,23]内的小时视为无法解析，按Normal处理
func HourValue(hour int) (float64, bool) {
	switch {
	case hour < 0 || hour > 23:
		return 1, false
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		return 2, true
	case hour >= 10 && hour <= 16:
		return 1, true
	default:
		return 0, true
	}
}

// inputs 将标签映射为清晰值，无法识别的标签按默认值处理并记录告警
func inputs(carFlow, pedFlow entity.Flow, hour int, weather entity.Weather) Inputs {
	cf, ok := FlowValue(carFlow)
	if !ok {
		log.Warnf("unknown car flow label %v, use %.1f", carFlow, cf)
	}
	pf, ok := FlowValue(pedFlow)
	if !ok {
		log.Warnf("unknown pedestrian flow label %v, use %.1f", pedFlow, pf)
	}
	hr, ok := HourValue(hour)
	if !ok {
		log.Warnf("invalid hour %d, use %.1f", hour, hr)
	}
	wv, ok := WeatherValue(weather)
	if !ok {
		log.Warnf("unknown weather label %v, use %.1f", weather, wv)
	}
	return Inputs{varCarFlow: cf, varPedFlow: pf, varTimeOfDay: hr, varWeather: wv}
}

// Compute 计算推荐绿灯时长
// 功能：标签映射为清晰值后执行Mamdani推理，重心法去模糊
// 参数：carFlow-车流等级，pedFlow-人流等级，hour-小时，weather-天气
// 返回：推荐时长[0,30]秒；聚合集为空时返回fallback与ErrEmptyAggregate
// 说明：确定性计算，调用之间不共享可变状态
func (d *DurationSystem) Compute(carFlow, pedFlow entity.Flow, hour int, weather entity.Weather) (float64, error) {
	v, _, err := d.system.Infer(inputs(carFlow, pedFlow, hour, weather))
	if err != nil {
		return d.fallback, err
	}
	return v, nil
}

// ComputeForEnvironment 以环境上下文为输入计算推荐时长
func (d *DurationSystem) ComputeForEnvironment(env entity.Environment) (float64, error) {
	return d.Compute(env.CarFlow, env.PedFlow, env.Hour(), env.Weather)
}

// EvaluateRules 计算每条规则的激活度（与规则表同序）
func (d *DurationSystem) EvaluateRules(carFlow, pedFlow entity.Flow, hour int, weather entity.Weather) []Activation {
	activations, err := d.system.Activations(inputs(carFlow, pedFlow, hour, weather))
	if err != nil {
		// 规则表在构造时已校验，这里只会是程序错误
		log.Errorf("evaluate rules: %v", err)
		return nil
	}
	return activations
}

// IsInferenceFailure 判断错误是否为可降级的推理失败
func IsInferenceFailure(err error) bool {
	return errors.Is(err, ErrEmptyAggregate)
}
