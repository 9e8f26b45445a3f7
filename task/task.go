package task

import (
	"sync/atomic"

	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/clock"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/environment"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/junction"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/person"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/recorder"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/config"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：管理时钟、环境、路口、车辆与行人、指标输出；所有状态只由仿真主循环修改，
// RPC只读取已发布的快照或写入buffer
type Context struct {
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 时钟RPC服务
	clockService clock.Service

	// 运行时配置
	runtimeConfig *config.RuntimeConfig
	// 路口几何布局
	layout entity.Layout

	// 环境采样器
	sampler *environment.Sampler
	// 当前环境（刷新时整体替换）
	environment entity.Environment
	// 上次刷新环境的仿真时间
	lastRefresh float64
	// 交互式接口写入的刷新请求，下一步生效
	refreshRequested atomic.Bool

	// 路口
	junction *junction.Junction
	// 车辆与行人管理器
	personManager *person.PersonManager
	// 本步排队检测结果
	counts entity.QueueCounts

	// 指标写入器（可为nil）
	writer *recorder.Writer
	// 上次输出指标的仿真时间
	lastMetrics float64

	// 最近一次发布的快照
	snapshot atomic.Pointer[Snapshot]
}

// NewContext 创建新的仿真任务上下文
// 功能：根据运行时配置创建时钟、环境采样器、路口与车辆行人管理器
// 参数：rc-运行时配置，writer-指标写入器（nil表示不输出指标）
// 返回：未初始化的Context实例，Run时自动初始化
func NewContext(rc *config.RuntimeConfig, writer *recorder.Writer) *Context {
	ctx := &Context{
		clock:         clock.New(rc.C.Step),
		runtimeConfig: rc,
		layout:        entity.DefaultLayout(),
		sampler:       environment.NewSampler(rc.C.Seed),
		writer:        writer,
	}
	ctx.layout.StopMargin = rc.All.Intersection.StopMargin
	ctx.junction = junction.New(ctx)
	ctx.personManager = person.NewManager(ctx, rc.C.Seed+1)
	return ctx
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Layout() entity.Layout {
	return ctx.layout
}

func (ctx *Context) Environment() entity.Environment {
	return ctx.environment
}

func (ctx *Context) Junction() *junction.Junction {
	return ctx.junction
}

func (ctx *Context) PersonManager() *person.PersonManager {
	return ctx.personManager
}

// Init 初始化
// 功能：重置时钟，采样初始环境并发布初始快照
func (ctx *Context) Init() {
	ctx.clock.Init()
	ctx.environment = ctx.sampleEnvironment()
	ctx.lastRefresh = ctx.clock.T
	ctx.lastMetrics = ctx.clock.T
	log.Infof("initial %v", ctx.environment)
	ctx.clockService.Publish(ctx.clock)
	ctx.publish()
}

// RequestEnvironmentRefresh 请求刷新环境（交互式接口调用，下一步生效）
func (ctx *Context) RequestEnvironmentRefresh() {
	ctx.refreshRequested.Store(true)
}

// Snapshot 最近一次发布的快照（Init之前为nil）
func (ctx *Context) Snapshot() *Snapshot {
	return ctx.snapshot.Load()
}
