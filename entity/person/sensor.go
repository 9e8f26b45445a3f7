package person

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
)

// Sense 排队检测
// 功能：由当前车辆、行人与灯色计算各轴排队车辆数与行人等待/过街人数
// 参数：layout-路口布局，vehicles-全部车辆，pedestrians-全部行人，lights-信号灯
// 返回：排队检测结果
// 算法说明：
// 1. 车辆前沿位于本轴排队区，且本轴非绿灯或前进一步会撞上其他车辆时，计为排队
// 2. 等待中的行人计入等待人数，过街中的行人按阻挡的轴分别计数
// 说明：纯函数，不保留任何状态
func Sense(layout entity.Layout, vehicles []*Vehicle, pedestrians []*Pedestrian, lights entity.ILightGetter) entity.QueueCounts {
	var counts entity.QueueCounts
	waiting := lo.Filter(vehicles, func(v *Vehicle, _ int) bool {
		if !layout.InQueueZone(v.rect, v.direction) {
			return false
		}
		return lights.Light(v.Axis()) != entity.LightGreen || v.blockedByVehicle(v.next(), vehicles)
	})
	byAxis := lo.CountValuesBy(waiting, func(v *Vehicle) entity.Axis { return v.Axis() })
	counts.WaitingVertical = byAxis[entity.AxisVertical]
	counts.WaitingHorizontal = byAxis[entity.AxisHorizontal]
	countPedestrians(&counts, pedestrians)
	return counts
}

// countPedestrians 统计等待人数与各轴过街人数，写入counts
func countPedestrians(counts *entity.QueueCounts, pedestrians []*Pedestrian) {
	for _, p := range pedestrians {
		switch {
		case p.state == PedestrianWaiting:
			counts.PedestriansWaiting++
		case p.BlockedAxis() == entity.AxisVertical:
			counts.CrossingVertical++
		default:
			counts.CrossingHorizontal++
		}
	}
}
