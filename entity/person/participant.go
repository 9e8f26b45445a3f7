package person

import (
	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
)

// IParticipant 交通参与者（车辆与行人）的公共能力，用于快照输出
type IParticipant interface {
	ID() uuid.UUID
	Position() entity.Vec2 // 中心点坐标
}

var (
	_ IParticipant = (*Vehicle)(nil)
	_ IParticipant = (*Pedestrian)(nil)
)
