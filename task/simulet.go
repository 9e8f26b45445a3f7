package task

import (
	"context"
	"flag"
	"time"

	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/recorder"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 600, "心跳日志间隔步数")
)

// 浮点累加误差容限
const timeEpsilon = 1e-9

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 环境刷新：收到刷新请求或到达刷新间隔时重新采样环境，并清空所有车辆与行人
// 4. 路口准备：应用交互式接口写入的过街请求
func (ctx *Context) prepare() {
	ctx.clock.Tick()

	if *heartBeatInterval > 0 && ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		log.Infof(
			"STEP: %d(%d:%d:%.2f) vehicles=%d spawned=%d exited=%d priority=%.2f",
			ctx.clock.InternalStep,
			hour, minute, second,
			ctx.personManager.VehicleCount(),
			ctx.personManager.Spawned(),
			ctx.personManager.Exited(),
			ctx.junction.Priority(),
		)
	}

	interval := ctx.runtimeConfig.All.Environment.RefreshInterval
	timerDue := interval > 0 && ctx.clock.T-ctx.lastRefresh >= interval-timeEpsilon
	if ctx.refreshRequested.Swap(false) || timerDue {
		ctx.refreshEnvironment()
	}

	ctx.junction.Prepare()
}

// sampleEnvironment 采样环境，配置中固定的标签覆盖采样结果
// 说明：无法识别的标签保留为Unknown，由推荐时长推理使用默认值并告警
func (ctx *Context) sampleEnvironment() entity.Environment {
	env := ctx.sampler.Sample()
	fixed := ctx.runtimeConfig.All.Environment
	if fixed.Weather != "" {
		env.Weather = entity.ParseWeather(fixed.Weather)
	}
	if fixed.CarFlow != "" {
		env.CarFlow = entity.ParseFlow(fixed.CarFlow)
	}
	if fixed.PedFlow != "" {
		env.PedFlow = entity.ParseFlow(fixed.PedFlow)
	}
	return env
}

// refreshEnvironment 重新采样环境并清空交通参与者
func (ctx *Context) refreshEnvironment() {
	ctx.environment = ctx.sampleEnvironment()
	ctx.lastRefresh = ctx.clock.T
	ctx.personManager.ResetPopulation()
	ctx.counts = ctx.personManager.Sense(ctx.junction)
	log.Infof("environment changed: %v", ctx.environment)
}

// update 更新阶段，每步执行一次
// 功能：按固定顺序执行生成、排队检测、信控决策与运动更新
// 算法说明：
// 1. 按当前环境生成车辆与行人，行人生成时立即发出过街请求
// 2. 排队检测得到各轴排队车辆数与过街行人数
// 3. 信号灯根据排队数与环境做出决策
// 4. 行人与车辆依据更新后的灯色运动，车辆使用行人运动后重新统计的过街行人数
// 5. 发布快照，到达记录间隔时输出指标
func (ctx *Context) update() {
	ctx.counts = advance(ctx.clock.DT, ctx.environment, ctx.personManager, ctx.junction)

	ctx.clockService.Publish(ctx.clock)
	ctx.publish()

	if ctx.clock.T-ctx.lastMetrics >= ctx.runtimeConfig.All.Output.MetricsInterval-timeEpsilon {
		ctx.lastMetrics = ctx.clock.T
		ctx.record()
	}
}

// advance 执行一步的生成、排队检测、信控决策与运动更新
// 返回：车辆排队数取自检测阶段，行人等待与过街人数取自运动之后
func advance(dt float64, env entity.Environment, people entity.IPersonManager, j entity.IJunction) entity.QueueCounts {
	people.Spawn(dt, env, j)
	counts := people.Sense(j)
	j.Update(counts, &env)
	moved := people.Update(j)
	counts.PedestriansWaiting = moved.PedestriansWaiting
	counts.CrossingVertical = moved.CrossingVertical
	counts.CrossingHorizontal = moved.CrossingHorizontal
	return counts
}

// record 输出一条指标记录
func (ctx *Context) record() {
	if ctx.writer == nil {
		return
	}
	ctx.writer.Write(recorder.Record{
		Timestamp:          time.Now(),
		SimTime:            ctx.clock.T,
		VehiclesLive:       ctx.personManager.VehicleCount(),
		TotalSpawned:       ctx.personManager.Spawned(),
		TotalExited:        ctx.personManager.Exited(),
		WaitingVertical:    ctx.counts.WaitingVertical,
		WaitingHorizontal:  ctx.counts.WaitingHorizontal,
		PedestriansWaiting: ctx.counts.PedestriansWaiting,
		Priority:           ctx.junction.Priority(),
	})
}

// Step 执行一个完整的仿真步
func (ctx *Context) Step() {
	ctx.prepare()
	ctx.update()
}

// Run 运行
// 功能：初始化后循环执行仿真步，直到到达总步数或runCtx被取消
// 参数：runCtx-运行上下文，取消后在当前步结束时退出
// 说明：开启realtime时按tick_rate的墙钟节奏推进，否则尽快推进
func (ctx *Context) Run(runCtx context.Context) {
	ctx.Init()

	var pace <-chan time.Time
	if ctx.runtimeConfig.C.Realtime {
		ticker := time.NewTicker(time.Duration(float64(time.Second) * ctx.clock.DT))
		defer ticker.Stop()
		pace = ticker.C
	}
	for !ctx.clock.Finished() {
		if pace != nil {
			select {
			case <-runCtx.Done():
			case <-pace:
			}
		}
		if runCtx.Err() != nil {
			log.Infof("stop requested: %v", context.Cause(runCtx))
			break
		}
		ctx.Step()
	}
	log.Infof("engine complete at step %d (%s)", ctx.clock.InternalStep, ctx.clock)
	ctx.Close()
}

// Close 关闭任务，写完剩余的指标记录（重复调用无副作用）
func (ctx *Context) Close() {
	if ctx.closed.Swap(true) || ctx.writer == nil {
		return
	}
	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ctx.writer.Close(closeCtx); err != nil {
		log.Errorf("close metrics writer: %v", err)
	}
	if n := ctx.writer.Dropped(); n > 0 {
		log.Warnf("%d metrics records dropped", n)
	}
}
