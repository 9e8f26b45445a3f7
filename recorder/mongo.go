package recorder

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSink MongoDB落盘，每条记录插入一个文档
type MongoSink struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoSink 连接MongoDB
// 参数：ctx-连接上下文，uri-连接字符串，db-数据库名，col-集合名
// 返回：MongoDB落盘器，连接或ping失败时返回错误
func NewMongoSink(ctx context.Context, uri, db, col string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoSink{client: client, col: client.Database(db).Collection(col)}, nil
}

func (s *MongoSink) Write(ctx context.Context, r Record) error {
	_, err := s.col.InsertOne(ctx, r)
	return err
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
