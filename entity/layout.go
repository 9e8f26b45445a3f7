package entity

// Crosswalk 路口四条人行横道
type Crosswalk int

const (
	CrosswalkNorth Crosswalk = iota // 北侧横道，横穿南北向道路
	CrosswalkSouth                  // 南侧横道，横穿南北向道路
	CrosswalkEast                   // 东侧横道，横穿东西向道路
	CrosswalkWest                   // 西侧横道，横穿东西向道路
)

// Crosswalks 全部横道
var Crosswalks = []Crosswalk{CrosswalkNorth, CrosswalkSouth, CrosswalkEast, CrosswalkWest}

// BlockedAxis 行人在该横道上通行时阻挡的交通流
func (c Crosswalk) BlockedAxis() Axis {
	if c == CrosswalkNorth || c == CrosswalkSouth {
		return AxisVertical
	}
	return AxisHorizontal
}

func (c Crosswalk) String() string {
	switch c {
	case CrosswalkNorth:
		return "north"
	case CrosswalkSouth:
		return "south"
	case CrosswalkEast:
		return "east"
	default:
		return "west"
	}
}

// Layout 路口几何布局（像素坐标，y轴向下）
// 功能：集中维护停车线、人行横道、排队区等几何常量，供车辆、行人与排队检测共用
type Layout struct {
	Width, Height float64 // 可视区域大小

	RoadMin, RoadMax float64 // 道路带范围（两条道路共用）

	StopSouthbound float64 // 向下行驶车辆的停车线（y）
	StopNorthbound float64 // 向上行驶车辆的停车线（y）
	StopEastbound  float64 // 向右行驶车辆的停车线（x）
	StopWestbound  float64 // 向左行驶车辆的停车线（x）

	CrosswalkThickness float64 // 横道宽度
	CrosswalkGap       float64 // 停车线与横道的间隔
	QueueLength        float64 // 停车线后方排队区长度
	StopMargin         float64 // 安全停车位置到横道近端的距离

	PedestrianOverhang float64 // 行人起止点超出道路带的距离
}

// DefaultLayout 800x800画面下的默认布局
func DefaultLayout() Layout {
	return Layout{
		Width:              800,
		Height:             800,
		RoadMin:            350,
		RoadMax:            450,
		StopSouthbound:     340,
		StopNorthbound:     440,
		StopEastbound:      340,
		StopWestbound:      440,
		CrosswalkThickness: 22,
		CrosswalkGap:       12,
		QueueLength:        160,
		StopMargin:         4,
		PedestrianOverhang: 30,
	}
}

// sign 行驶方向上坐标增长的符号：向下/向右为+1，向上/向左为-1
func sign(d Direction) float64 {
	if d == DirectionSouth || d == DirectionEast {
		return 1
	}
	return -1
}

// LeadingEdge 车辆在行驶方向上的前沿坐标
func LeadingEdge(r Rect, d Direction) float64 {
	switch d {
	case DirectionSouth:
		return r.Bottom()
	case DirectionNorth:
		return r.Top()
	case DirectionEast:
		return r.Right()
	default:
		return r.Left()
	}
}

// StopLine 行驶方向对应的停车线
func (l Layout) StopLine(d Direction) float64 {
	switch d {
	case DirectionSouth:
		return l.StopSouthbound
	case DirectionNorth:
		return l.StopNorthbound
	case DirectionEast:
		return l.StopEastbound
	default:
		return l.StopWestbound
	}
}

// CrosswalkBand 车辆驶向路口时最先遇到的横道范围
// 返回：near-车辆先到达的横道边沿，far-另一侧边沿
func (l Layout) CrosswalkBand(d Direction) (near, far float64) {
	stop := l.StopLine(d)
	switch d {
	case DirectionSouth, DirectionEast:
		near = stop - l.CrosswalkGap - l.CrosswalkThickness
		far = near + l.CrosswalkThickness
	default:
		far = stop + l.CrosswalkGap
		near = far + l.CrosswalkThickness
	}
	return
}

// SafeStop 安全停车位置：前沿不得越过该位置，保证车辆不会停在横道上
func (l Layout) SafeStop(d Direction) float64 {
	near, _ := l.CrosswalkBand(d)
	return near - sign(d)*l.StopMargin
}

// DistanceTo 前沿到给定位置的剩余距离（沿行驶方向，已越过时为负）
func DistanceTo(r Rect, d Direction, pos float64) float64 {
	return sign(d) * (pos - LeadingEdge(r, d))
}

// MustHoldAtStop 判断车辆是否处于安全停车窗口内
// 功能：前沿尚未越过安全停车位置，且再前进一步就会越过
// 参数：r-车辆当前占地，d-行驶方向，step-单步位移
func (l Layout) MustHoldAtStop(r Rect, d Direction, step float64) bool {
	dist := DistanceTo(r, d, l.SafeStop(d))
	return dist >= 0 && dist < step
}

// InQueueZone 判断车辆前沿是否位于停车线后方的排队区
func (l Layout) InQueueZone(r Rect, d Direction) bool {
	dist := DistanceTo(r, d, l.StopLine(d))
	return dist >= 0 && dist < l.QueueLength
}

// InCrosswalk 判断车辆前沿是否已进入最近横道
func (l Layout) InCrosswalk(r Rect, d Direction) bool {
	near, far := l.CrosswalkBand(d)
	edge := LeadingEdge(r, d)
	lo, hi := near, far
	if lo > hi {
		lo, hi = hi, lo
	}
	return edge > lo && edge < hi
}

// Exited 判断车辆是否已从行驶方向的远端完全驶出画面
func (l Layout) Exited(r Rect, d Direction) bool {
	switch d {
	case DirectionSouth:
		return r.Top() >= l.Height
	case DirectionNorth:
		return r.Bottom() <= 0
	case DirectionEast:
		return r.Left() >= l.Width
	default:
		return r.Right() <= 0
	}
}

// SpawnRect 车辆在画面边缘的生成位置与占地
func (l Layout) SpawnRect(d Direction) Rect {
	const long, short = 40, 20
	inner := l.RoadMin + short   // 左侧/上侧车道
	outer := l.RoadMin + 3*short // 右侧/下侧车道
	switch d {
	case DirectionSouth:
		return Rect{X: inner, Y: -long, W: short, H: long}
	case DirectionNorth:
		return Rect{X: outer, Y: l.Height, W: short, H: long}
	case DirectionEast:
		return Rect{X: -long, Y: inner, W: long, H: short}
	default:
		return Rect{X: l.Width, Y: outer, W: long, H: short}
	}
}

// CrosswalkPath 行人在横道上的起点与终点
func (l Layout) CrosswalkPath(c Crosswalk) (start, target Vec2) {
	half := float64(int(l.CrosswalkThickness) / 2)
	from := l.RoadMin - 10 - l.PedestrianOverhang
	to := l.RoadMax + 10 + l.PedestrianOverhang
	switch c {
	case CrosswalkNorth:
		y := l.StopSouthbound - l.CrosswalkGap - l.CrosswalkThickness + half
		return Vec2{X: from, Y: y}, Vec2{X: to, Y: y}
	case CrosswalkSouth:
		y := l.StopNorthbound + l.CrosswalkGap + half
		return Vec2{X: from, Y: y}, Vec2{X: to, Y: y}
	case CrosswalkEast:
		x := l.StopWestbound + l.CrosswalkGap + half
		return Vec2{X: x, Y: from}, Vec2{X: x, Y: to}
	default:
		x := l.StopEastbound - l.CrosswalkGap - l.CrosswalkThickness + half
		return Vec2{X: x, Y: from}, Vec2{X: x, Y: to}
	}
}

// Remaining 前沿到画面远端的剩余距离，越小越靠前
func (l Layout) Remaining(r Rect, d Direction) float64 {
	switch d {
	case DirectionSouth:
		return DistanceTo(r, d, l.Height)
	case DirectionEast:
		return DistanceTo(r, d, l.Width)
	default:
		return DistanceTo(r, d, 0)
	}
}
