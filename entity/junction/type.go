package junction

import (
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/fuzzy"
)

// 依赖倒置，表达junction对信号灯实现的接口需求

// 给交通参与者提供的信控读取接口
type ITrafficLightGetter interface {
	Light(axis entity.Axis) entity.LightState // 指定轴的灯色
	Transition() (target entity.Axis, ok bool) // 正在进行的切换及其目标轴
	Timer() int                                // 当前相位已持续的步数
	Priority() float64                         // 最近一次的切换优先级
	Breakdown() []fuzzy.Contribution           // 最近一次优先级的分量
	QueueLevel() []fuzzy.LabelDegree           // 最近一次红灯方向排队数的模糊化结果
	RecommendedDuration() (float64, bool)      // 最近一次的推荐绿灯时长
}

// 信号灯接口
type ITrafficLight interface {
	ITrafficLightGetter
	Update(counts entity.QueueCounts, env *entity.Environment) // 更新阶段，推进计时并做切换决策
	RequestPedestrianCrossing(blockedAxis entity.Axis) bool    // 行人过街抢占，返回是否开始了切换
}
