package person

import (
	"math"

	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/container"
)

const (
	defaultWalkSpeed = 1.6 // 行人每步位移（像素）
	arrivalEpsilon   = 2.  // 距离终点小于该值视为到达
)

// PedestrianState 行人状态
type PedestrianState int

const (
	PedestrianWaiting  PedestrianState = iota // 在横道端点等待
	PedestrianCrossing                        // 正在过街
)

func (s PedestrianState) String() string {
	if s == PedestrianCrossing {
		return "crossing"
	}
	return "waiting"
}

// Pedestrian 行人
// 功能：在横道一端等待，放行后沿横道匀速走到另一端，到达后移除
type Pedestrian struct {
	container.IncrementalItemBase

	id        uuid.UUID
	crosswalk entity.Crosswalk
	pos       entity.Vec2
	target    entity.Vec2
	state     PedestrianState
	speed     float64
}

func newPedestrian(layout entity.Layout, crosswalk entity.Crosswalk, speed float64) *Pedestrian {
	start, target := layout.CrosswalkPath(crosswalk)
	return &Pedestrian{
		id:        uuid.New(),
		crosswalk: crosswalk,
		pos:       start,
		target:    target,
		state:     PedestrianWaiting,
		speed:     speed,
	}
}

func (p *Pedestrian) ID() uuid.UUID {
	return p.id
}

func (p *Pedestrian) Position() entity.Vec2 {
	return p.pos
}

func (p *Pedestrian) Target() entity.Vec2 {
	return p.target
}

func (p *Pedestrian) State() PedestrianState {
	return p.state
}

func (p *Pedestrian) Crosswalk() entity.Crosswalk {
	return p.crosswalk
}

// BlockedAxis 过街时阻挡的交通流
func (p *Pedestrian) BlockedAxis() entity.Axis {
	return p.crosswalk.BlockedAxis()
}

// update 行人更新
// 功能：等待中的行人在其不阻挡的那条轴为红灯的第一步开始过街，过街中的行人向终点前进一步
// 参数：lights-信号灯
// 返回：是否已到达终点（到达后由管理器移除）
// 说明：放行条件看的是另一条轴的灯色，而不是自己阻挡的轴
func (p *Pedestrian) update(lights entity.ILightGetter) (arrived bool) {
	if p.state == PedestrianWaiting && lights.Light(p.BlockedAxis().Other()) == entity.LightRed {
		p.state = PedestrianCrossing
	}
	if p.state != PedestrianCrossing {
		return false
	}
	d := p.target.Sub(p.pos)
	dist := math.Hypot(d.X, d.Y)
	if dist <= p.speed {
		p.pos = p.target
	} else {
		p.pos = p.pos.Add(d.Scale(p.speed / dist))
	}
	d = p.target.Sub(p.pos)
	return math.Hypot(d.X, d.Y) < arrivalEpsilon
}
