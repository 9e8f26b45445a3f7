package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/config"
)

// Clock 仿真时钟管理器
// 功能：管理仿真系统的时间推进，每个tick推进固定步长
// 说明：维护当前仿真时间、步数等信息，提供时间格式化和RPC服务
type Clock struct {
	DT         float64 // 每步时间间隔（秒）
	TickRate   int32   // 每秒步数
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，模拟区间[START, END)，END<=START表示不限

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数
}

// New 根据配置创建新的时钟实例
// 功能：根据全局配置初始化时钟信息
// 参数：stepConfig-控制步配置，包含起始步、总步数与每秒步数
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	tickRate := stepConfig.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	endStep := stepConfig.Start
	if stepConfig.Total > 0 {
		endStep = stepConfig.Start + stepConfig.Total
	}
	c := &Clock{
		DT:         1 / float64(tickRate),
		TickRate:   tickRate,
		START_STEP: stepConfig.Start,
		END_STEP:   endStep,
	}
	c.Init()
	return c
}

// Init 重置时钟状态
// 说明：重置内部步数为起始步，重新计算当前时间
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Tick 推进一步
func (c *Clock) Tick() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// Finished 是否已到达结束步
func (c *Clock) Finished() bool {
	return c.END_STEP > c.START_STEP && c.InternalStep >= c.END_STEP
}

// Seconds 将步数换算为秒
func (c *Clock) Seconds(ticks int) float64 {
	return float64(ticks) * c.DT
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *Clock) String() string {
	t := c.T
	h := int(t / 3600)
	t -= float64(h * 3600)
	m := int(t / 60)
	t -= float64(m * 60)
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
