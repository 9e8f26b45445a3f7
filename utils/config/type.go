package config

// ControlStep 指定模拟器模拟时间范围和步长的配置项
// 功能：定义仿真时间控制参数
// 说明：步长由tick_rate决定（每秒tick数），Total为0表示一直运行直到收到停止信号
type ControlStep struct {
	Start    int32 `yaml:"start"`     // 开始步数
	Total    int32 `yaml:"total"`     // 总步数（0表示不限）
	TickRate int32 `yaml:"tick_rate"` // 每秒步数
}

// Control 模拟器控制配置
type Control struct {
	Step     ControlStep `yaml:"step"`
	Seed     uint64      `yaml:"seed,omitempty"`     // 随机数种子
	Realtime bool        `yaml:"realtime,omitempty"` // 按墙钟节奏推进（每秒tick_rate步）
}

// Intersection 信控参数
type Intersection struct {
	YellowTime        float64 `yaml:"yellow_time"`        // 黄灯时长（秒）
	PriorityThreshold float64 `yaml:"priority_threshold"` // 触发切换的优先级阈值
	FallbackDuration  float64 `yaml:"fallback_duration"`  // 推理失败时的推荐时长（秒）
	StopMargin        float64 `yaml:"stop_margin"`        // 安全停车位置到横道的距离（像素）
}

// FlowMultipliers 流量等级对生成率的倍数
type FlowMultipliers struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// Spawn 车辆与行人生成参数
type Spawn struct {
	CarRate        float64         `yaml:"car_rate"`        // 每条轴每秒生成车辆的基准概率
	PedestrianRate float64         `yaml:"pedestrian_rate"` // 每条横道每秒生成行人的基准概率
	CarFlow        FlowMultipliers `yaml:"car_flow"`
	PedFlow        FlowMultipliers `yaml:"ped_flow"`
}

// Environment 环境刷新配置
type Environment struct {
	RefreshInterval float64 `yaml:"refresh_interval"` // 自动刷新间隔（秒），0表示只手动刷新

	// 固定的环境标签，为空则随机采样
	Weather string `yaml:"weather,omitempty"`  // Sunny/Rainy/Overcast
	CarFlow string `yaml:"car_flow,omitempty"` // Low/Medium/High
	PedFlow string `yaml:"ped_flow,omitempty"` // Low/Medium/High
}

// MongoOutput 指标写入MongoDB的配置
type MongoOutput struct {
	URI string `yaml:"uri"` // MongoDB连接字符串，为空则不写入
	DB  string `yaml:"db"`  // 数据库名
	Col string `yaml:"col"` // 集合名
}

// Output 指标输出配置
type Output struct {
	MetricsInterval float64     `yaml:"metrics_interval"` // 记录间隔（秒）
	CSV             string      `yaml:"csv,omitempty"`    // CSV文件路径，为空则不写入
	Mongo           MongoOutput `yaml:"mongo,omitempty"`
}

// RPC 对外服务配置
type RPC struct {
	Listen string `yaml:"listen,omitempty"` // 监听地址，为空则不启动
}

// Config YAML配置文件的根结构
type Config struct {
	Control      Control      `yaml:"control"`
	Intersection Intersection `yaml:"intersection"`
	Spawn        Spawn        `yaml:"spawn"`
	Environment  Environment  `yaml:"environment"`
	Output       Output       `yaml:"output"`
	RPC          RPC          `yaml:"rpc"`
}
