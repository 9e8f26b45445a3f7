package task

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/fuzzy"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/person"
	"google.golang.org/protobuf/types/known/structpb"
)

// VehicleView 车辆的只读视图
type VehicleView struct {
	ID          string
	Center      entity.Vec2
	Direction   entity.Direction
	Rect        entity.Rect
	InCrosswalk bool // 前沿是否位于最近横道内
}

// PedestrianView 行人的只读视图
type PedestrianView struct {
	ID        string
	Crosswalk entity.Crosswalk
	State     person.PedestrianState
	Position  entity.Vec2
}

// Snapshot 每步结束时发布的只读快照
// 功能：供渲染、HUD与RPC读取，发布后不再修改
type Snapshot struct {
	Step    int32
	SimTime float64

	Lights     [2]entity.LightState // 按entity.Axis下标
	Switching  bool                 // 是否有进行中的切换
	Target     entity.Axis          // 切换目标（仅Switching时有效）
	ElapsedSec float64              // 当前相位已持续秒数

	Priority       float64
	Breakdown      []fuzzy.Contribution
	QueueLevel     []fuzzy.LabelDegree
	Recommended    float64
	HasRecommended bool

	Environment entity.Environment
	Counts      entity.QueueCounts

	Vehicles    []VehicleView
	Pedestrians []PedestrianView

	Spawned int
	Exited  int
}

// publish 生成并发布当前快照
func (ctx *Context) publish() {
	s := &Snapshot{
		Step:        ctx.clock.InternalStep,
		SimTime:     ctx.clock.T,
		ElapsedSec:  ctx.junction.ElapsedSeconds(),
		Priority:    ctx.junction.Priority(),
		Breakdown:   append([]fuzzy.Contribution(nil), ctx.junction.Breakdown()...),
		QueueLevel:  append([]fuzzy.LabelDegree(nil), ctx.junction.QueueLevel()...),
		Environment: ctx.environment,
		Counts:      ctx.counts,
		Spawned:     ctx.personManager.Spawned(),
		Exited:      ctx.personManager.Exited(),
	}
	for _, axis := range []entity.Axis{entity.AxisVertical, entity.AxisHorizontal} {
		s.Lights[axis] = ctx.junction.Light(axis)
	}
	s.Target, s.Switching = ctx.junction.Transition()
	s.Recommended, s.HasRecommended = ctx.junction.RecommendedDuration()
	s.Vehicles = lo.Map(ctx.personManager.Vehicles(), func(v *person.Vehicle, _ int) VehicleView {
		id, center := participantView(v)
		return VehicleView{
			ID:          id,
			Center:      center,
			Direction:   v.Direction(),
			Rect:        v.Rect(),
			InCrosswalk: ctx.layout.InCrosswalk(v.Rect(), v.Direction()),
		}
	})
	s.Pedestrians = lo.Map(ctx.personManager.Pedestrians(), func(p *person.Pedestrian, _ int) PedestrianView {
		id, pos := participantView(p)
		return PedestrianView{ID: id, Crosswalk: p.Crosswalk(), State: p.State(), Position: pos}
	})
	ctx.snapshot.Store(s)
}

func participantView(p person.IParticipant) (string, entity.Vec2) {
	return p.ID().String(), p.Position()
}

func environmentMap(e entity.Environment) map[string]any {
	return map[string]any{
		"weather":     e.Weather.String(),
		"car_flow":    e.CarFlow.String(),
		"ped_flow":    e.PedFlow.String(),
		"time_of_day": e.Clock(),
	}
}

// Map 快照的通用键值表示（值均为structpb可接受的类型）
func (s *Snapshot) Map() map[string]any {
	m := map[string]any{
		"step":     s.Step,
		"sim_time": s.SimTime,
		"lights": map[string]any{
			entity.AxisVertical.String():   s.Lights[entity.AxisVertical].String(),
			entity.AxisHorizontal.String(): s.Lights[entity.AxisHorizontal].String(),
		},
		"elapsed_green": s.ElapsedSec,
		"priority":      s.Priority,
		"breakdown": lo.Map(s.Breakdown, func(c fuzzy.Contribution, _ int) any {
			return map[string]any{"label": c.Label, "value": c.Value}
		}),
		"queue_level": lo.SliceToMap(s.QueueLevel, func(l fuzzy.LabelDegree) (string, any) {
			return l.Label, l.Degree
		}),
		"environment": environmentMap(s.Environment),
		"queue": map[string]any{
			"waiting_vertical":    s.Counts.WaitingVertical,
			"waiting_horizontal":  s.Counts.WaitingHorizontal,
			"pedestrians_waiting": s.Counts.PedestriansWaiting,
			"crossing_vertical":   s.Counts.CrossingVertical,
			"crossing_horizontal": s.Counts.CrossingHorizontal,
		},
		"vehicles": lo.Map(s.Vehicles, func(v VehicleView, _ int) any {
			return map[string]any{
				"id":           v.ID,
				"direction":    v.Direction.String(),
				"x":            v.Rect.X,
				"y":            v.Rect.Y,
				"w":            v.Rect.W,
				"h":            v.Rect.H,
				"in_crosswalk": v.InCrosswalk,
			}
		}),
		"pedestrians": lo.Map(s.Pedestrians, func(p PedestrianView, _ int) any {
			return map[string]any{
				"id":        p.ID,
				"crosswalk": p.Crosswalk.String(),
				"state":     p.State.String(),
				"x":         p.Position.X,
				"y":         p.Position.Y,
			}
		}),
		"total_spawned": s.Spawned,
		"total_exited":  s.Exited,
	}
	if s.Switching {
		m["transition"] = s.Target.String()
	}
	if s.HasRecommended {
		m["recommended_duration"] = s.Recommended
	}
	return m
}

// Struct 快照的protobuf Struct表示
func (s *Snapshot) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(s.Map())
}
