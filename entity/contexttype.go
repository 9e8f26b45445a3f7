package entity

import (
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/clock"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
	Layout() Layout
	Environment() Environment
}
