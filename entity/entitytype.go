package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownAxis = errors.New("unknown axis")
)

// Axis 路口的两条交通流
type Axis int

const (
	AxisVertical   Axis = iota // 南北向
	AxisHorizontal             // 东西向
)

// Other 返回另一条轴
func (a Axis) Other() Axis {
	if a == AxisVertical {
		return AxisHorizontal
	}
	return AxisVertical
}

func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ParseAxis 解析轴名称（v/vertical/h/horizontal，不区分大小写）
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v", "vertical":
		return AxisVertical, nil
	case "h", "horizontal":
		return AxisHorizontal, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownAxis, s)
}

// LightState 信号灯状态
type LightState int

const (
	LightRed LightState = iota
	LightYellow
	LightGreen
)

func (s LightState) String() string {
	switch s {
	case LightRed:
		return "red"
	case LightYellow:
		return "yellow"
	case LightGreen:
		return "green"
	default:
		return fmt.Sprintf("light(%d)", int(s))
	}
}

// Direction 车辆行驶方向（行驶的方向，而不是来向）
type Direction int

const (
	DirectionNorth Direction = iota // 向上行驶（从画面底部驶入）
	DirectionSouth                  // 向下行驶（从画面顶部驶入）
	DirectionEast                   // 向右行驶（从画面左侧驶入）
	DirectionWest                   // 向左行驶（从画面右侧驶入）
)

// Axis 行驶方向所属的轴
func (d Direction) Axis() Axis {
	if d == DirectionNorth || d == DirectionSouth {
		return AxisVertical
	}
	return AxisHorizontal
}

// Step 单位步长对应的位移
func (d Direction) Step() Vec2 {
	switch d {
	case DirectionNorth:
		return Vec2{X: 0, Y: -1}
	case DirectionSouth:
		return Vec2{X: 0, Y: 1}
	case DirectionEast:
		return Vec2{X: 1, Y: 0}
	default:
		return Vec2{X: -1, Y: 0}
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionNorth:
		return "north"
	case DirectionSouth:
		return "south"
	case DirectionEast:
		return "east"
	case DirectionWest:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Weather 天气类别
type Weather int

const (
	WeatherUnknown Weather = iota
	WeatherSunny
	WeatherRainy
	WeatherOvercast
)

// Weathers 可采样的天气列表
var Weathers = []Weather{WeatherSunny, WeatherRainy, WeatherOvercast}

func (w Weather) String() string {
	switch w {
	case WeatherSunny:
		return "Sunny"
	case WeatherRainy:
		return "Rainy"
	case WeatherOvercast:
		return "Overcast"
	default:
		return "Unknown"
	}
}

// ParseWeather 解析天气标签，无法识别的标签返回WeatherUnknown
func ParseWeather(s string) Weather {
	for _, w := range Weathers {
		if strings.EqualFold(s, w.String()) {
			return w
		}
	}
	return WeatherUnknown
}

// Flow 车流/人流等级
type Flow int

const (
	FlowUnknown Flow = iota
	FlowLow
	FlowMedium
	FlowHigh
)

// Flows 可采样的流量等级列表（顺序与采样权重对应）
var Flows = []Flow{FlowLow, FlowMedium, FlowHigh}

func (f Flow) String() string {
	switch f {
	case FlowLow:
		return "Low"
	case FlowMedium:
		return "Medium"
	case FlowHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// ParseFlow 解析流量标签，无法识别的标签返回FlowUnknown
func ParseFlow(s string) Flow {
	for _, f := range Flows {
		if strings.EqualFold(s, f.String()) {
			return f
		}
	}
	return FlowUnknown
}

// Environment 环境上下文
// 功能：描述一次采样得到的天气、车流、人流与时刻
// 说明：采样后不可修改，刷新时整体替换
type Environment struct {
	Weather   Weather
	CarFlow   Flow
	PedFlow   Flow
	TimeOfDay time.Duration // 距当日零点的时长
}

// Hour 时刻的小时部分
func (e Environment) Hour() int {
	return int(e.TimeOfDay / time.Hour)
}

// Clock 时刻的HH:MM:SS表示
func (e Environment) Clock() string {
	t := e.TimeOfDay
	h := t / time.Hour
	t -= h * time.Hour
	m := t / time.Minute
	t -= m * time.Minute
	s := t / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func (e Environment) String() string {
	return fmt.Sprintf("Environment{weather=%v, car=%v, ped=%v, time=%s}", e.Weather, e.CarFlow, e.PedFlow, e.Clock())
}

// Vec2 二维坐标（像素）
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Rect 轴对齐矩形，X/Y为左上角
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Move 平移后的矩形
func (r Rect) Move(d Vec2) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Overlaps 判断两个矩形是否有重叠面积（仅边界接触不算重叠）
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}
