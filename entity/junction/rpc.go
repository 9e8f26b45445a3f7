package junction

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/entity"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName                        = "intersection.v1.IntersectionService"
	RequestPedestrianCrossingProcedure = "/" + ServiceName + "/RequestPedestrianCrossing"
)

// Handler 生成connect处理器
// 返回：注册路径与http处理器
func (j *Junction) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	return RequestPedestrianCrossingProcedure, connect.NewUnaryHandler(
		RequestPedestrianCrossingProcedure, j.RequestPedestrianCrossingRPC, opts...,
	)
}

// RequestPedestrianCrossingRPC RPC接口：请求行人过街
// 功能：解析被阻挡的轴（v/vertical/h/horizontal），写入buffer，下一步生效
// 参数：ctx-上下文，in-轴名称
// 返回：轴名称无法解析时返回InvalidArgument
func (j *Junction) RequestPedestrianCrossingRPC(
	ctx context.Context, in *connect.Request[wrapperspb.StringValue],
) (*connect.Response[emptypb.Empty], error) {
	axis, err := entity.ParseAxis(in.Msg.GetValue())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	j.BufferPedestrianCrossing(axis)
	return connect.NewResponse(&emptypb.Empty{}), nil
}
