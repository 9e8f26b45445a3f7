package task

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/clock"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/junction"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/recorder"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/config"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type memorySink struct {
	mu      sync.Mutex
	records []recorder.Record
}

func (s *memorySink) Write(ctx context.Context, r recorder.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *memorySink) Close(ctx context.Context) error {
	return nil
}

func newTestContext(t *testing.T, modify func(c *config.Config), writer *recorder.Writer) *Context {
	t.Helper()
	c := config.Default()
	c.Control.Seed = 7
	if modify != nil {
		modify(&c)
	}
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	return NewContext(rc, writer)
}

func TestRunStopsAtTotalAndRecordsMetrics(t *testing.T) {
	sink := &memorySink{}
	ctx := newTestContext(t, func(c *config.Config) {
		c.Control.Step.Total = 600
	}, recorder.NewWriter(0, sink))

	ctx.Run(context.Background())

	assert.Equal(t, int32(600), ctx.Clock().InternalStep)
	require.NotNil(t, ctx.Snapshot())
	assert.Equal(t, int32(600), ctx.Snapshot().Step)
	// 每秒一条记录
	require.Len(t, sink.records, 10)
	last := sink.records[9]
	assert.InDelta(t, 10.0, last.SimTime, 1e-6)
	assert.Equal(t, last.TotalSpawned-last.TotalExited, last.VehiclesLive)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx := newTestContext(t, nil, nil)
	runCtx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx.Run(runCtx)
	assert.Equal(t, int32(0), ctx.Clock().InternalStep)
}

// stageLog 按调用顺序记录各阶段
type stageLog []string

type fakeJunction struct {
	stages *stageLog
	counts entity.QueueCounts
}

func (j *fakeJunction) Light(axis entity.Axis) entity.LightState {
	return entity.LightRed
}

func (j *fakeJunction) RequestPedestrianCrossing(blockedAxis entity.Axis) {
	*j.stages = append(*j.stages, "request:"+blockedAxis.String())
}

func (j *fakeJunction) Update(counts entity.QueueCounts, env *entity.Environment) {
	*j.stages = append(*j.stages, "junction.update")
	j.counts = counts
}

func (j *fakeJunction) Priority() float64                   { return 0 }
func (j *fakeJunction) RecommendedDuration() (float64, bool) { return 0, false }

type fakePeople struct {
	stages *stageLog
}

func (p *fakePeople) Spawn(dt float64, env entity.Environment, requester entity.ICrossingRequester) {
	*p.stages = append(*p.stages, "spawn")
	requester.RequestPedestrianCrossing(entity.AxisVertical)
}

func (p *fakePeople) Sense(lights entity.ILightGetter) entity.QueueCounts {
	*p.stages = append(*p.stages, "sense")
	return entity.QueueCounts{WaitingVertical: 4, PedestriansWaiting: 1}
}

func (p *fakePeople) Update(lights entity.ILightGetter) entity.QueueCounts {
	*p.stages = append(*p.stages, "people.update")
	return entity.QueueCounts{CrossingVertical: 1}
}

func (p *fakePeople) ResetPopulation() {}
func (p *fakePeople) VehicleCount() int  { return 0 }
func (p *fakePeople) Spawned() int       { return 0 }
func (p *fakePeople) Exited() int        { return 0 }

func TestAdvanceOrder(t *testing.T) {
	stages := &stageLog{}
	j := &fakeJunction{stages: stages}
	counts := advance(1.0/60, entity.Environment{}, &fakePeople{stages: stages}, j)

	assert.Equal(t, stageLog{"spawn", "request:vertical", "sense", "junction.update", "people.update"}, *stages)
	// 信号灯看到的是检测阶段的结果
	assert.Equal(t, entity.QueueCounts{WaitingVertical: 4, PedestriansWaiting: 1}, j.counts)
	assert.Equal(t, entity.QueueCounts{WaitingVertical: 4, CrossingVertical: 1}, counts)
}

func TestTickInvariants(t *testing.T) {
	ctx := newTestContext(t, func(c *config.Config) {
		c.Spawn.CarRate = 1.5
		c.Spawn.PedestrianRate = 0.2
	}, nil)
	ctx.Init()
	for i := 0; i < 6000; i++ {
		ctx.Step()
		j := ctx.Junction()
		assert.False(t,
			j.Light(entity.AxisVertical) == entity.LightGreen && j.Light(entity.AxisHorizontal) == entity.LightGreen,
			"both axes green at step %d", i)

		vehicles := ctx.PersonManager().Vehicles()
		for a := range vehicles {
			for b := a + 1; b < len(vehicles); b++ {
				require.False(t, vehicles[a].Rect().Overlaps(vehicles[b].Rect()), "overlap at step %d", i)
			}
		}
		pm := ctx.PersonManager()
		require.Equal(t, pm.Spawned()-pm.Exited(), pm.VehicleCount())
	}
	assert.Greater(t, ctx.PersonManager().Exited(), 0)
	assert.Equal(t, int32(6000), ctx.Snapshot().Step)
	for _, v := range ctx.Snapshot().Vehicles {
		assert.Equal(t, ctx.Layout().InCrosswalk(v.Rect, v.Direction), v.InCrosswalk, v.ID)
	}
	assert.Len(t, ctx.Snapshot().QueueLevel, 3)
}

func TestEnvironmentRefresh(t *testing.T) {
	ctx := newTestContext(t, func(c *config.Config) {
		c.Spawn.CarRate = 30
		c.Environment.RefreshInterval = 2
	}, nil)
	ctx.Init()
	for i := 0; i < 119; i++ {
		ctx.Step()
	}
	assert.Equal(t, 0.0, ctx.lastRefresh)
	spawned := ctx.PersonManager().Spawned()
	require.Greater(t, ctx.PersonManager().VehicleCount(), 2)

	ctx.Step()
	assert.InDelta(t, 2.0, ctx.lastRefresh, 1e-9)
	assert.LessOrEqual(t, ctx.PersonManager().VehicleCount(), 2)
	assert.GreaterOrEqual(t, ctx.PersonManager().Spawned(), spawned)

	ctx.RequestEnvironmentRefresh()
	ctx.Step()
	assert.InDelta(t, ctx.Clock().T, ctx.lastRefresh, 1e-9)
	assert.False(t, ctx.refreshRequested.Load())
}

func TestFixedEnvironmentLabels(t *testing.T) {
	ctx := newTestContext(t, func(c *config.Config) {
		c.Environment.CarFlow = "high"
		c.Environment.PedFlow = "Low"
		c.Environment.Weather = "Snowy"
		c.Spawn.PedestrianRate = 0
	}, nil)
	ctx.Init()
	env := ctx.Environment()
	assert.Equal(t, entity.FlowHigh, env.CarFlow)
	assert.Equal(t, entity.FlowLow, env.PedFlow)
	assert.Equal(t, entity.WeatherUnknown, env.Weather)

	// 未知天气按默认值推理，仿真照常推进
	for i := 0; i < 10; i++ {
		ctx.Step()
	}
	recommended, ok := ctx.Junction().RecommendedDuration()
	assert.True(t, ok)
	assert.Greater(t, recommended, 0.0)
	assert.LessOrEqual(t, recommended, 30.0)
}

func TestRPC(t *testing.T) {
	ctx := newTestContext(t, func(c *config.Config) {
		c.Spawn.CarRate = 0
		c.Spawn.PedestrianRate = 0
	}, nil)
	mux := http.NewServeMux()
	ctx.Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()
	bg := context.Background()

	snapshotClient := connect.NewClient[emptypb.Empty, structpb.Struct](http.DefaultClient, server.URL+GetSnapshotProcedure)
	_, err := snapshotClient.CallUnary(bg, connect.NewRequest(&emptypb.Empty{}))
	assert.Equal(t, connect.CodeUnavailable, connect.CodeOf(err))

	ctx.Init()
	res, err := snapshotClient.CallUnary(bg, connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	fields := res.Msg.AsMap()
	assert.Equal(t, 0.0, fields["step"])
	assert.Equal(t, map[string]any{"vertical": "red", "horizontal": "green"}, fields["lights"])
	assert.NotContains(t, fields, "transition")
	assert.Equal(t, map[string]any{}, fields["queue_level"])

	crossingClient := connect.NewClient[wrapperspb.StringValue, emptypb.Empty](
		http.DefaultClient, server.URL+junction.RequestPedestrianCrossingProcedure,
	)
	_, err = crossingClient.CallUnary(bg, connect.NewRequest(wrapperspb.String("diagonal")))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	_, err = crossingClient.CallUnary(bg, connect.NewRequest(wrapperspb.String("v")))
	require.NoError(t, err)

	ctx.Step()
	res, err = snapshotClient.CallUnary(bg, connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	fields = res.Msg.AsMap()
	assert.Equal(t, 1.0, fields["step"])
	assert.Equal(t, "vertical", fields["transition"])
	assert.Equal(t, map[string]any{"vertical": "red", "horizontal": "yellow"}, fields["lights"])

	refreshClient := connect.NewClient[emptypb.Empty, structpb.Struct](http.DefaultClient, server.URL+RefreshEnvironmentProcedure)
	res, err = refreshClient.CallUnary(bg, connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	assert.Equal(t, true, res.Msg.AsMap()["pending"])
	assert.True(t, ctx.refreshRequested.Load())
	ctx.Step()
	assert.False(t, ctx.refreshRequested.Load())

	nowClient := connect.NewClient[emptypb.Empty, wrapperspb.DoubleValue](http.DefaultClient, server.URL+clock.NowProcedure)
	now, err := nowClient.CallUnary(bg, connect.NewRequest(&emptypb.Empty{}))
	require.NoError(t, err)
	assert.InDelta(t, 2.0/60, now.Msg.GetValue(), 1e-9)
}
