package entity

// Manager依赖倒置

// ILightGetter 交通参与者读取信号灯的接口
type ILightGetter interface {
	Light(axis Axis) LightState // 指定轴的灯色
}

// ICrossingRequester 行人过街请求接口
type ICrossingRequester interface {
	// 行人请求让blockedAxis对应的交通流停止
	RequestPedestrianCrossing(blockedAxis Axis)
}

// QueueCounts 排队检测结果
type QueueCounts struct {
	WaitingVertical   int // 南北向排队车辆数
	WaitingHorizontal int // 东西向排队车辆数

	PedestriansWaiting int // 等待过街的行人数
	CrossingVertical   int // 正在横穿南北向道路的行人数（阻挡南北向车流）
	CrossingHorizontal int // 正在横穿东西向道路的行人数（阻挡东西向车流）
}

// Waiting 指定轴的排队车辆数
func (c QueueCounts) Waiting(axis Axis) int {
	if axis == AxisVertical {
		return c.WaitingVertical
	}
	return c.WaitingHorizontal
}

// Crossing 阻挡指定轴的过街行人数
func (c QueueCounts) Crossing(axis Axis) int {
	if axis == AxisVertical {
		return c.CrossingVertical
	}
	return c.CrossingHorizontal
}

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	ILightGetter
	ICrossingRequester

	Update(counts QueueCounts, env *Environment) // 更新信控
	Priority() float64                           // 最近一次的切换优先级
	RecommendedDuration() (float64, bool)        // 最近一次的推荐绿灯时长
}

// entity/person/manager.go的依赖倒置
type IPersonManager interface {
	Spawn(dt float64, env Environment, requester ICrossingRequester) // 生成车辆与行人
	Sense(lights ILightGetter) QueueCounts                           // 排队检测
	Update(lights ILightGetter) QueueCounts                          // 运动更新，返回行人运动后的过街人数
	ResetPopulation()                                                // 清空所有车辆与行人

	VehicleCount() int // 当前在场车辆数
	Spawned() int      // 累计生成车辆数
	Exited() int       // 累计驶出车辆数
}
