package environment

import (
	"time"

	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/randengine"
)

const secondsPerDay = 24 * 60 * 60

var (
	// 与entity.Flows同序：Low, Medium, High
	carFlowWeights = []float64{1, 3, 2}
	pedFlowWeights = []float64{2, 3, 1}

	// 高峰时段（闭区间），落入其中时车流强制为High
	peakWindows = [][2]time.Duration{
		{6*time.Hour + 30*time.Minute, 8 * time.Hour},
		{18 * time.Hour, 19 * time.Hour},
	}
)

// Sampler 环境采样器
// 功能：随机生成天气、车流、人流与时刻
type Sampler struct {
	generator *randengine.Engine
}

// NewSampler 创建环境采样器
// 参数：seed-随机数种子，相同种子得到相同的环境序列
func NewSampler(seed uint64) *Sampler {
	return &Sampler{generator: randengine.New(seed)}
}

// Sample 采样一个新的环境
// 算法说明：
// 1. 天气等概率，时刻在一天86400秒内均匀分布
// 2. 车流按权重1:3:2、人流按权重2:3:1抽取Low/Medium/High
// 3. 时刻落入高峰时段时车流改为High
func (s *Sampler) Sample() entity.Environment {
	env := entity.Environment{
		Weather:   randengine.Choice(s.generator, entity.Weathers),
		CarFlow:   entity.Flows[s.generator.DiscreteDistribution(carFlowWeights)],
		PedFlow:   entity.Flows[s.generator.DiscreteDistribution(pedFlowWeights)],
		TimeOfDay: time.Duration(s.generator.Intn(secondsPerDay)) * time.Second,
	}
	if InPeakWindow(env.TimeOfDay) {
		env.CarFlow = entity.FlowHigh
	}
	log.Debugf("sampled %v", env)
	return env
}

// InPeakWindow 判断时刻是否处于强制高车流的高峰时段
func InPeakWindow(timeOfDay time.Duration) bool {
	for _, w := range peakWindows {
		if timeOfDay >= w[0] && timeOfDay <= w[1] {
			return true
		}
	}
	return false
}
