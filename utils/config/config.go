package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v2"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，所有缺省值已经填充
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// Default 返回所有字段取默认值的配置
func Default() Config {
	return Config{
		Control: Control{
			Step: ControlStep{TickRate: 60},
			Seed: 1,
		},
		Intersection: Intersection{
			YellowTime:        2,
			PriorityThreshold: 5,
			FallbackDuration:  12,
			StopMargin:        4,
		},
		Spawn: Spawn{
			CarRate:        0.6,
			PedestrianRate: 0.06,
			CarFlow:        FlowMultipliers{Low: 0.25, Medium: 0.6, High: 1.3},
			PedFlow:        FlowMultipliers{Low: 0.25, Medium: 0.6, High: 1.3},
		},
		Output: Output{MetricsInterval: 1},
	}
}

// Parse 解析YAML配置
// 功能：严格模式解析YAML，未知字段报错
// 参数：data-YAML内容
// 返回：解析后的配置（以Default()为底）
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return c, nil
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：校验配置并填充缺省值
// 参数：config-原始配置对象
// 返回：运行时配置指针，配置非法时返回错误
// 算法说明：
// 1. 非正的时间参数恢复为默认值
// 2. 负的生成率、负的总步数视为非法
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	def := Default()
	if config.Control.Step.TickRate <= 0 {
		config.Control.Step.TickRate = def.Control.Step.TickRate
	}
	if config.Control.Step.Total < 0 {
		return nil, fmt.Errorf("%w: control.step.total must be >= 0, got %d", ErrInvalidConfig, config.Control.Step.Total)
	}
	if config.Intersection.YellowTime <= 0 {
		config.Intersection.YellowTime = def.Intersection.YellowTime
	}
	if config.Intersection.PriorityThreshold <= 0 {
		config.Intersection.PriorityThreshold = def.Intersection.PriorityThreshold
	}
	if config.Intersection.FallbackDuration <= 0 {
		config.Intersection.FallbackDuration = def.Intersection.FallbackDuration
	}
	if config.Intersection.StopMargin < 0 {
		return nil, fmt.Errorf("%w: intersection.stop_margin must be >= 0", ErrInvalidConfig)
	}
	if config.Spawn.CarRate < 0 || config.Spawn.PedestrianRate < 0 {
		return nil, fmt.Errorf("%w: spawn rates must be >= 0", ErrInvalidConfig)
	}
	if config.Environment.RefreshInterval < 0 {
		return nil, fmt.Errorf("%w: environment.refresh_interval must be >= 0", ErrInvalidConfig)
	}
	if config.Output.MetricsInterval <= 0 {
		config.Output.MetricsInterval = def.Output.MetricsInterval
	}
	if config.Output.Mongo.URI != "" && (config.Output.Mongo.DB == "" || config.Output.Mongo.Col == "") {
		return nil, fmt.Errorf("%w: output.mongo needs db and col when uri is set", ErrInvalidConfig)
	}

	return &RuntimeConfig{
		All: config,
		C:   config.Control,
	}, nil
}

// DT 每步时长（秒）
func (rc *RuntimeConfig) DT() float64 {
	return 1 / float64(rc.C.Step.TickRate)
}

// YellowTicks 黄灯持续的步数
func (rc *RuntimeConfig) YellowTicks() int {
	return int(rc.All.Intersection.YellowTime * float64(rc.C.Step.TickRate))
}

// Multiplier 流量等级对应的生成倍数（未知等级返回1）
func (m FlowMultipliers) Multiplier(level string) float64 {
	switch level {
	case "Low":
		return m.Low
	case "Medium":
		return m.Medium
	case "High":
		return m.High
	default:
		return 1
	}
}
