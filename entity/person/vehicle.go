package person

import (
	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/container"
)

const (
	defaultVehicleSpeed = 2. // 车辆每步位移（像素）
)

// Vehicle 车辆
// 功能：沿固定方向匀速行驶，在停车窗口、行人阻挡与前车碰撞时原地等待
type Vehicle struct {
	container.IncrementalItemBase

	id        uuid.UUID
	direction entity.Direction
	rect      entity.Rect // 当前占地
	speed     float64     // 每步位移
}

func newVehicle(direction entity.Direction, rect entity.Rect, speed float64) *Vehicle {
	return &Vehicle{
		id:        uuid.New(),
		direction: direction,
		rect:      rect,
		speed:     speed,
	}
}

func (v *Vehicle) ID() uuid.UUID {
	return v.id
}

func (v *Vehicle) Direction() entity.Direction {
	return v.direction
}

func (v *Vehicle) Axis() entity.Axis {
	return v.direction.Axis()
}

func (v *Vehicle) Rect() entity.Rect {
	return v.rect
}

func (v *Vehicle) Position() entity.Vec2 {
	return entity.Vec2{X: v.rect.X + v.rect.W/2, Y: v.rect.Y + v.rect.H/2}
}

// next 前进一步后的占地
func (v *Vehicle) next() entity.Rect {
	return v.rect.Move(v.direction.Step().Scale(v.speed))
}

// blockedByVehicle 前进一步后是否与其他车辆重叠
func (v *Vehicle) blockedByVehicle(candidate entity.Rect, vehicles []*Vehicle) bool {
	for _, other := range vehicles {
		if other != v && candidate.Overlaps(other.rect) {
			return true
		}
	}
	return false
}

// update 车辆更新
// 功能：按停车线、行人阻挡、碰撞三条策略决定是否前进一步
// 参数：layout-路口布局，vehicles-全部车辆（含自身，其他车辆可能已在本步移动），lights-信号灯，crossing-阻挡本轴的过街行人数
// 返回：moved-是否前进，exited-是否已完全驶出画面
// 算法说明：
// 1. 本轴非绿灯且前沿处于安全停车窗口内时停车，保证不会停在横道上
// 2. 有行人正在横穿本轴且前沿位于排队区时停车（与灯色无关）
// 3. 前进一步后的占地与其他车辆重叠时停车
// 4. 窗口之外只要不碰撞就一直前进，避免远离路口处的死锁
func (v *Vehicle) update(layout entity.Layout, vehicles []*Vehicle, lights entity.ILightGetter, crossing int) (moved, exited bool) {
	candidate := v.next()
	blocked := false
	if lights.Light(v.Axis()) != entity.LightGreen && layout.MustHoldAtStop(v.rect, v.direction, v.speed) {
		blocked = true
	}
	if !blocked && crossing > 0 && layout.InQueueZone(v.rect, v.direction) {
		blocked = true
	}
	if !blocked && v.blockedByVehicle(candidate, vehicles) {
		blocked = true
	}
	if !blocked {
		v.rect = candidate
		moved = true
	}
	return moved, layout.Exited(v.rect, v.direction)
}
