package task

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity/junction"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	GetSnapshotProcedure        = "/" + junction.ServiceName + "/GetSnapshot"
	RefreshEnvironmentProcedure = "/" + junction.ServiceName + "/RefreshEnvironment"
)

var ErrNotStarted = errors.New("simulation not started")

// Register 注册所有RPC处理器
// 功能：注册时钟、路口与任务的connect处理器
// 参数：mux-http路由，opts-connect处理器选项
func (ctx *Context) Register(mux *http.ServeMux, opts ...connect.HandlerOption) {
	mux.Handle(ctx.clockService.Handler(opts...))
	mux.Handle(ctx.junction.Handler(opts...))
	mux.Handle(GetSnapshotProcedure, connect.NewUnaryHandler(GetSnapshotProcedure, ctx.GetSnapshot, opts...))
	mux.Handle(RefreshEnvironmentProcedure, connect.NewUnaryHandler(RefreshEnvironmentProcedure, ctx.RefreshEnvironment, opts...))
}

// GetSnapshot RPC接口：获取最近一步的快照
func (ctx *Context) GetSnapshot(
	c context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	s := ctx.Snapshot()
	if s == nil {
		return nil, connect.NewError(connect.CodeUnavailable, ErrNotStarted)
	}
	st, err := s.Struct()
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(st), nil
}

// RefreshEnvironment RPC接口：请求重新采样环境
// 功能：写入刷新请求，下一步开始时生效并清空所有车辆与行人
// 返回：请求时的环境（pending=true表示新环境尚未生效）
func (ctx *Context) RefreshEnvironment(
	c context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	ctx.RequestEnvironmentRefresh()
	m := map[string]any{"pending": true}
	if s := ctx.Snapshot(); s != nil {
		m["environment"] = environmentMap(s.Environment)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(st), nil
}
