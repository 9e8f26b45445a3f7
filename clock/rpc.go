package clock

import (
	"context"
	"math"
	"net/http"
	"sync/atomic"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName  = "intersection.v1.ClockService"
	NowProcedure = "/" + ServiceName + "/Now"
)

// Service 时钟RPC服务
// 功能：对外提供当前仿真时间，读取由仿真循环发布的快照，不直接访问Clock
type Service struct {
	t atomic.Uint64 // math.Float64bits(T)
}

// Publish 发布当前时间（仿真循环每步调用）
func (s *Service) Publish(c *Clock) {
	s.t.Store(math.Float64bits(c.T))
}

// Handler 生成connect处理器
// 返回：注册路径与http处理器
func (s *Service) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	return NowProcedure, connect.NewUnaryHandler(NowProcedure, s.Now, opts...)
}

// Now 获取当前仿真时间
// 功能：RPC接口，返回当前仿真时间（秒）
func (s *Service) Now(ctx context.Context, in *connect.Request[emptypb.Empty]) (*connect.Response[wrapperspb.DoubleValue], error) {
	return connect.NewResponse(wrapperspb.Double(math.Float64frombits(s.t.Load()))), nil
}
