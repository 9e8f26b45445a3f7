package trafficlight

import (
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/fuzzy"
)

// 模糊推理日志的最小间隔（仿真秒），优先级超过阈值时不受限制
const activationLogInterval = 1.5

// fuzzyTlRuntime 模糊信号灯运行时数据
type fuzzyTlRuntime struct {
	lights     [2]entity.LightState // 按entity.Axis下标的灯色
	timer      int                  // 当前相位开始以来的步数
	switching  bool                 // 是否有进行中的切换
	target     entity.Axis          // 切换完成后变为绿灯的轴
	priority   float64
	breakdown  []fuzzy.Contribution
	queueLevel []fuzzy.LabelDegree // 红灯方向排队数的模糊化结果
	recommend  float64
	hasRecomm  bool
	lastLogged float64 // 上次输出推理日志的仿真时间
}

// fuzzyTrafficLight 模糊信号灯控制器
// 功能：两条轴的绿-黄-红状态机，由切换优先级与推荐绿灯时长驱动切换，可被行人过街请求抢占
// 说明：任意时刻至多一条轴为绿灯，切换总是 绿→黄→红 与 红→绿 同时完成
type fuzzyTrafficLight struct {
	ctx entity.ITaskContext

	yellowTicks int     // 黄灯持续步数
	threshold   float64 // 触发切换的优先级阈值
	duration    *fuzzy.DurationSystem

	runtime fuzzyTlRuntime
}

// NewFuzzyTrafficLight 创建模糊信号灯控制器
// 功能：初始状态为南北向红灯、东西向绿灯，无进行中的切换
// 参数：ctx-任务上下文，读取黄灯时长、优先级阈值与推理失败时的推荐时长
// 返回：初始化完成的控制器
func NewFuzzyTrafficLight(ctx entity.ITaskContext) *fuzzyTrafficLight {
	rc := ctx.RuntimeConfig()
	l := &fuzzyTrafficLight{
		ctx:         ctx,
		yellowTicks: rc.YellowTicks(),
		threshold:   rc.All.Intersection.PriorityThreshold,
		duration:    fuzzy.NewDurationSystem(rc.All.Intersection.FallbackDuration),
	}
	l.runtime.lights[entity.AxisVertical] = entity.LightRed
	l.runtime.lights[entity.AxisHorizontal] = entity.LightGreen
	l.runtime.lastLogged = -activationLogInterval
	log.Debugf("recommended duration rules (fallback %.1fs):", l.duration.Fallback())
	for _, rule := range l.duration.Rules() {
		log.Debugf("  %s", rule)
	}
	return l
}

// Update 更新阶段，执行信控决策
// 参数：counts-排队检测结果，env-当前环境（nil表示尚未采样，不计算推荐时长）
// 算法说明：
// 1. 计时器加一；若切换进行中，计时超过黄灯时长则完成切换并清零计时，无论是否完成都直接返回
// 2. 以红灯方向排队车辆数与绿灯已持续秒数计算切换优先级，达到阈值则开始切换并返回
// 3. 提供环境时计算推荐时长，绿灯持续时间达到推荐时长则开始切换
func (l *fuzzyTrafficLight) Update(counts entity.QueueCounts, env *entity.Environment) {
	r := &l.runtime
	r.timer++
	if r.switching {
		if r.timer > l.yellowTicks {
			r.lights[r.target.Other()] = entity.LightRed
			r.lights[r.target] = entity.LightGreen
			r.switching = false
			r.timer = 0
			log.Debugf("transition completed, %v axis is green", r.target)
		}
		return
	}

	green := l.greenAxis()
	queued := counts.Waiting(green.Other())
	elapsed := l.ctx.Clock().Seconds(r.timer)
	r.priority, r.breakdown = fuzzy.ComputePriority(float64(queued), elapsed, 0)
	r.queueLevel = fuzzy.QueuedVehicles.Fuzzify(float64(queued))

	now := l.ctx.Clock().T
	verbose := now-r.lastLogged >= activationLogInterval || r.priority >= l.threshold
	if verbose {
		log.Debugf("priority=%.2f queued_red=%d %v elapsed_green=%.2fs pedestrians_waiting=%d %v",
			r.priority, queued, r.queueLevel, elapsed, counts.PedestriansWaiting, r.breakdown)
	}

	r.hasRecomm = false
	if env != nil {
		recommend, err := l.duration.ComputeForEnvironment(*env)
		if err != nil {
			if fuzzy.IsInferenceFailure(err) {
				log.Warnf("recommended duration inference failed for %v: %v, use %.1fs", env, err, recommend)
			} else {
				log.Errorf("recommended duration: %v, use %.1fs", err, recommend)
			}
		}
		r.recommend, r.hasRecomm = recommend, true
		if verbose {
			for _, a := range l.duration.EvaluateRules(env.CarFlow, env.PedFlow, env.Hour(), env.Weather) {
				if a.Degree > 0.01 {
					log.Debugf("  %s -> %.3f", a.Rule, a.Degree)
				}
			}
			log.Debugf("recommended=%.2fs for %v", r.recommend, env)
		}
	}
	if verbose {
		r.lastLogged = now
	}

	if r.priority >= l.threshold {
		l.startTransition(green.Other())
		return
	}
	if r.hasRecomm && elapsed >= r.recommend {
		l.startTransition(green.Other())
	}
}

// RequestPedestrianCrossing 行人过街抢占
// 功能：blockedAxis为南北向且东西向为绿灯、无进行中的切换时，东西向转黄灯并切换到南北向，另一方向对称
// 返回：是否开始了切换；切换进行中或对应轴不是绿灯时为空操作
func (l *fuzzyTrafficLight) RequestPedestrianCrossing(blockedAxis entity.Axis) bool {
	r := &l.runtime
	if r.switching || r.lights[blockedAxis.Other()] != entity.LightGreen {
		return false
	}
	l.startTransition(blockedAxis)
	return true
}

// startTransition 当前绿灯轴转黄灯，标记切换目标并清零计时
func (l *fuzzyTrafficLight) startTransition(target entity.Axis) {
	r := &l.runtime
	r.lights[target.Other()] = entity.LightYellow
	r.switching = true
	r.target = target
	r.timer = 0
}

// greenAxis 当前绿灯轴（无切换进行时恰有一条）
func (l *fuzzyTrafficLight) greenAxis() entity.Axis {
	if l.runtime.lights[entity.AxisVertical] == entity.LightGreen {
		return entity.AxisVertical
	}
	return entity.AxisHorizontal
}

func (l *fuzzyTrafficLight) Light(axis entity.Axis) entity.LightState {
	return l.runtime.lights[axis]
}

func (l *fuzzyTrafficLight) Transition() (entity.Axis, bool) {
	return l.runtime.target, l.runtime.switching
}

func (l *fuzzyTrafficLight) Timer() int {
	return l.runtime.timer
}

func (l *fuzzyTrafficLight) Priority() float64 {
	return l.runtime.priority
}

func (l *fuzzyTrafficLight) Breakdown() []fuzzy.Contribution {
	return l.runtime.breakdown
}

func (l *fuzzyTrafficLight) QueueLevel() []fuzzy.LabelDegree {
	return l.runtime.queueLevel
}

func (l *fuzzyTrafficLight) RecommendedDuration() (float64, bool) {
	return l.runtime.recommend, l.runtime.hasRecomm
}
