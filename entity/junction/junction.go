package junction

import (
	"sync"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/fuzzy"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/junction/trafficlight"
)

var _ entity.IJunction = (*Junction)(nil)

// Junction 信控路口
// 功能：持有信号灯控制器，对外提供只读灯色与交互式过街请求
// 说明：仿真循环内的调用直接作用于信号灯；RPC写入先进入buffer，在下一步Prepare时生效
type Junction struct {
	ctx entity.ITaskContext

	trafficLight ITrafficLight // 信号灯模块

	crossingBuffer []entity.Axis // 交互式接口写入的过街请求
	bufferMutex    sync.Mutex
}

// New 创建路口
// 参数：ctx-任务上下文
// 返回：使用模糊信控的路口
func New(ctx entity.ITaskContext) *Junction {
	return newWithTrafficLight(ctx, trafficlight.NewFuzzyTrafficLight(ctx))
}

func newWithTrafficLight(ctx entity.ITaskContext, tl ITrafficLight) *Junction {
	return &Junction{
		ctx:            ctx,
		trafficLight:   tl,
		crossingBuffer: make([]entity.Axis, 0),
	}
}

// Prepare 准备阶段，处理交互式接口写入的buffer
// 说明：同一步内的重复请求只保留第一个，后续请求在切换进行中本就是空操作
func (j *Junction) Prepare() {
	j.bufferMutex.Lock()
	buffer := j.crossingBuffer
	j.crossingBuffer = make([]entity.Axis, 0)
	j.bufferMutex.Unlock()

	for _, axis := range lo.Uniq(buffer) {
		j.RequestPedestrianCrossing(axis)
	}
}

// Update 更新阶段，执行信号灯决策
// 参数：counts-本步排队检测结果，env-当前环境（未采样时为nil）
func (j *Junction) Update(counts entity.QueueCounts, env *entity.Environment) {
	j.trafficLight.Update(counts, env)
}

// Light 获取指定轴的灯色
func (j *Junction) Light(axis entity.Axis) entity.LightState {
	return j.trafficLight.Light(axis)
}

// RequestPedestrianCrossing 行人过街请求（仿真循环内调用）
// 参数：blockedAxis-行人通行时阻挡的交通流
func (j *Junction) RequestPedestrianCrossing(blockedAxis entity.Axis) {
	if j.trafficLight.RequestPedestrianCrossing(blockedAxis) {
		log.Debugf("pedestrian request on %v axis starts a transition", blockedAxis)
	}
}

// BufferPedestrianCrossing 行人过街请求（交互式接口调用，下一步生效）
func (j *Junction) BufferPedestrianCrossing(blockedAxis entity.Axis) {
	j.bufferMutex.Lock()
	defer j.bufferMutex.Unlock()
	j.crossingBuffer = append(j.crossingBuffer, blockedAxis)
}

// Priority 最近一次的切换优先级
func (j *Junction) Priority() float64 {
	return j.trafficLight.Priority()
}

// Breakdown 最近一次优先级的分量
func (j *Junction) Breakdown() []fuzzy.Contribution {
	return j.trafficLight.Breakdown()
}

// QueueLevel 最近一次红灯方向排队数的Low/Medium/High隶属度
func (j *Junction) QueueLevel() []fuzzy.LabelDegree {
	return j.trafficLight.QueueLevel()
}

// RecommendedDuration 最近一次的推荐绿灯时长，未提供环境时返回false
func (j *Junction) RecommendedDuration() (float64, bool) {
	return j.trafficLight.RecommendedDuration()
}

// Transition 正在进行的切换
func (j *Junction) Transition() (entity.Axis, bool) {
	return j.trafficLight.Transition()
}

// ElapsedSeconds 当前相位已持续的秒数
func (j *Junction) ElapsedSeconds() float64 {
	return j.ctx.Clock().Seconds(j.trafficLight.Timer())
}
