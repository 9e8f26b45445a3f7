package person

import (
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/container"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/randengine"
)

// 每条轴交替使用的驶入方向，先西后东、先北后南
var spawnSides = [2][2]entity.Direction{
	entity.AxisVertical:   {entity.DirectionSouth, entity.DirectionNorth},
	entity.AxisHorizontal: {entity.DirectionEast, entity.DirectionWest},
}

var _ entity.IPersonManager = (*PersonManager)(nil)

// GlobalRuntime 全局统计数据
type GlobalRuntime struct {
	Spawned int // 累计生成车辆数
	Exited  int // 累计驶出车辆数
}

// PersonManager 车辆与行人管理器
// 功能：管理所有车辆与行人，负责生成、排队检测、运动更新、驶出统计与环境切换时的清空
// 说明：仅由仿真主循环调用，增删通过IncrementalArray延迟到各阶段末尾统一生效
type PersonManager struct {
	ctx entity.ITaskContext

	vehicles    *container.IncrementalArray[*Vehicle]
	pedestrians *container.IncrementalArray[*Pedestrian]

	generator *randengine.Engine
	nextSide  [2]int // 每条轴下一次使用的驶入方向下标

	runtime GlobalRuntime
}

// NewManager 创建管理器
// 参数：ctx-任务上下文，seed-生成逻辑使用的随机数种子
func NewManager(ctx entity.ITaskContext, seed uint64) *PersonManager {
	return &PersonManager{
		ctx:         ctx,
		vehicles:    container.NewIncrementalArray[*Vehicle](),
		pedestrians: container.NewIncrementalArray[*Pedestrian](),
		generator:   randengine.New(seed),
	}
}

// Spawn 生成阶段
// 功能：按环境流量等级随机生成车辆与行人
// 参数：dt-时间步长（秒），env-当前环境，requester-行人过街请求的接收者
// 算法说明：
// 1. 每条轴以 car_rate×车流倍数×dt 的概率生成一辆车，驶入方向在两侧交替；与现有车辆重叠时放弃本次生成
// 2. 每条横道以 pedestrian_rate×人流倍数×dt 的概率生成一名行人，并立即发出过街请求
func (m *PersonManager) Spawn(dt float64, env entity.Environment, requester entity.ICrossingRequester) {
	spawn := m.ctx.RuntimeConfig().All.Spawn
	layout := m.ctx.Layout()

	pCar := spawn.CarRate * spawn.CarFlow.Multiplier(env.CarFlow.String()) * dt
	added := make([]*Vehicle, 0, 2)
	for _, axis := range []entity.Axis{entity.AxisVertical, entity.AxisHorizontal} {
		if !m.generator.PTrue(pCar) {
			continue
		}
		d := spawnSides[axis][m.nextSide[axis]]
		m.nextSide[axis] = 1 - m.nextSide[axis]
		v := newVehicle(d, layout.SpawnRect(d), defaultVehicleSpeed)
		if v.blockedByVehicle(v.rect, m.vehicles.Data()) || v.blockedByVehicle(v.rect, added) {
			log.Debugf("skip spawning %v vehicle: entrance occupied", d)
			continue
		}
		added = append(added, v)
		m.vehicles.Add(v)
		m.runtime.Spawned++
	}
	m.vehicles.Prepare()

	pPed := spawn.PedestrianRate * spawn.PedFlow.Multiplier(env.PedFlow.String()) * dt
	for _, c := range entity.Crosswalks {
		if !m.generator.PTrue(pPed) {
			continue
		}
		m.pedestrians.Add(newPedestrian(layout, c, defaultWalkSpeed))
		requester.RequestPedestrianCrossing(c.BlockedAxis())
	}
	m.pedestrians.Prepare()
}

// Sense 排队检测阶段
func (m *PersonManager) Sense(lights entity.ILightGetter) entity.QueueCounts {
	return Sense(m.ctx.Layout(), m.vehicles.Data(), m.pedestrians.Data(), lights)
}

// Update 运动更新阶段
// 功能：先更新行人，再按由前到后的顺序更新车辆，最后统一移除到达终点的行人与驶出的车辆
// 参数：lights-信号灯
// 返回：行人运动后重新统计的行人等待与过街人数（车辆字段为零）
// 说明：车辆使用行人运动后的过街人数，本步开始过街的行人立即阻挡车流，已到达的行人不再阻挡；
// 前车先动使后车在同一步内即可跟进，每辆车都基于其他车辆的最新位置做碰撞检测，步末不存在重叠
func (m *PersonManager) Update(lights entity.ILightGetter) entity.QueueCounts {
	for _, p := range m.pedestrians.Data() {
		if p.update(lights) {
			m.pedestrians.Remove(p)
		}
	}
	m.pedestrians.Prepare()
	var counts entity.QueueCounts
	countPedestrians(&counts, m.pedestrians.Data())

	layout := m.ctx.Layout()
	all := m.vehicles.Data()
	queue := container.NewPriorityQueue[*Vehicle]()
	for _, v := range all {
		queue.Push(v, layout.Remaining(v.rect, v.direction))
	}
	queue.Heapify()
	for queue.Len() > 0 {
		v, _ := queue.HeapPop()
		if _, exited := v.update(layout, all, lights, counts.Crossing(v.Axis())); exited {
			m.vehicles.Remove(v)
			m.runtime.Exited++
		}
	}
	m.vehicles.Prepare()
	return counts
}

// ResetPopulation 清空所有车辆与行人（累计统计保留）
func (m *PersonManager) ResetPopulation() {
	m.vehicles = container.NewIncrementalArray[*Vehicle]()
	m.pedestrians = container.NewIncrementalArray[*Pedestrian]()
	log.Info("population reset")
}

// Vehicles 当前在场车辆
func (m *PersonManager) Vehicles() []*Vehicle {
	return m.vehicles.Data()
}

// Pedestrians 当前在场行人
func (m *PersonManager) Pedestrians() []*Pedestrian {
	return m.pedestrians.Data()
}

func (m *PersonManager) VehicleCount() int {
	return m.vehicles.Len()
}

func (m *PersonManager) Spawned() int {
	return m.runtime.Spawned
}

func (m *PersonManager) Exited() int {
	return m.runtime.Exited
}
