package fuzzy

import (
	"github.com/samber/lo"
)

const (
	maxQueuedVehicles     = 10. // 排队车辆数的归一化上限
	maxElapsedGreen       = 30. // 绿灯已持续时间的归一化上限（秒）
	maxWaitingPedestrians = 6.  // 等待行人数的归一化上限

	weightCars        = 0.6
	weightElapsed     = 0.2
	weightPedestrians = 0.2
)

// Contribution 优先级分量
type Contribution struct {
	Label string
	Value float64 // 加权后的归一化贡献[0, weight]
}

// QueuedVehicles 排队车辆数语言变量，信号灯用它给出红灯方向排队的Low/Medium/High描述，写入日志与快照
var QueuedVehicles = MustVariable("queuedVehicles", 0, 10, 11,
	Term{Label: "Low", Shape: Triangle{0, 0, 4}},
	Term{Label: "Medium", Shape: Triangle{2, 5, 8}},
	Term{Label: "High", Shape: Triangle{6, 10, 10}},
)

// ComputePriority 计算切换优先级
// 功能：根据红灯方向排队车辆数、当前绿灯已持续时间与等待行人数计算0~10的切换优先级
// 参数：queued-红灯方向排队车辆数，elapsedGreen-绿灯已持续秒数，waitingPedestrians-等待行人数
// 返回：优先级[0,10]、各分量贡献（车辆、时间、行人）
// 算法说明：
// 1. 各输入分别截断到[0, 上限]并归一化到[0,1]
// 2. 加权求和（0.6/0.2/0.2），乘10后截断到[0,10]
// 说明：纯函数，对每个输入单调不减
func ComputePriority(queued, elapsedGreen, waitingPedestrians float64) (float64, []Contribution) {
	c := lo.Clamp(queued, 0, maxQueuedVehicles) / maxQueuedVehicles
	t := lo.Clamp(elapsedGreen, 0, maxElapsedGreen) / maxElapsedGreen
	p := lo.Clamp(waitingPedestrians, 0, maxWaitingPedestrians) / maxWaitingPedestrians

	breakdown := []Contribution{
		{Label: "car_component", Value: weightCars * c},
		{Label: "time_component", Value: weightElapsed * t},
		{Label: "pedestrian_component", Value: weightPedestrians * p},
	}
	sum := 0.
	for _, b := range breakdown {
		sum += b.Value
	}
	return lo.Clamp(sum*10, 0, 10), breakdown
}
