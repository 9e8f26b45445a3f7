package recorder

import (
	"context"

	"github.com/tsinghua-fib-lab/fuzzy-signal-sim/utils/config"
)

var (
	_ ISink = (*CSVSink)(nil)
	_ ISink = (*MongoSink)(nil)
)

// Open 按输出配置创建写入器
// 功能：配置了CSV路径时写入CSV文件，配置了MongoDB地址时同时写入MongoDB
// 参数：ctx-连接上下文，cfg-输出配置
// 返回：写入器（未配置任何落盘器时记录被直接丢弃），落盘器初始化失败时返回错误
func Open(ctx context.Context, cfg config.Output) (*Writer, error) {
	sinks := make([]ISink, 0, 2)
	if cfg.CSV != "" {
		s, err := NewCSVSink(cfg.CSV)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
		log.Infof("write metrics to %s", cfg.CSV)
	}
	if cfg.Mongo.URI != "" {
		s, err := NewMongoSink(ctx, cfg.Mongo.URI, cfg.Mongo.DB, cfg.Mongo.Col)
		if err != nil {
			for _, opened := range sinks {
				opened.Close(ctx)
			}
			return nil, err
		}
		sinks = append(sinks, s)
		log.Infof("write metrics to mongodb %s.%s", cfg.Mongo.DB, cfg.Mongo.Col)
	}
	return NewWriter(defaultBufferSize, sinks...), nil
}
