// 指标记录：固定间隔输出仿真统计，支持CSV文件与MongoDB两种落盘方式
package recorder

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Header CSV表头（与Record.Row同序）
var Header = []string{
	"timestamp",
	"sim_time_s",
	"vehicles_live",
	"total_spawned",
	"total_exited",
	"waiting_vertical",
	"waiting_horizontal",
	"pedestrians_waiting",
	"priority",
}

// Record 一条指标记录
type Record struct {
	Timestamp          time.Time `bson:"timestamp"`
	SimTime            float64   `bson:"sim_time_s"`
	VehiclesLive       int       `bson:"vehicles_live"`
	TotalSpawned       int       `bson:"total_spawned"`
	TotalExited        int       `bson:"total_exited"`
	WaitingVertical    int       `bson:"waiting_vertical"`
	WaitingHorizontal  int       `bson:"waiting_horizontal"`
	PedestriansWaiting int       `bson:"pedestrians_waiting"`
	Priority           float64   `bson:"priority"`
}

// Row 记录的CSV行，时间戳为Unix秒
func (r Record) Row() []string {
	return []string{
		strconv.FormatFloat(float64(r.Timestamp.UnixMicro())/1e6, 'f', 6, 64),
		fmt.Sprintf("%.2f", r.SimTime),
		strconv.Itoa(r.VehiclesLive),
		strconv.Itoa(r.TotalSpawned),
		strconv.Itoa(r.TotalExited),
		strconv.Itoa(r.WaitingVertical),
		strconv.Itoa(r.WaitingHorizontal),
		strconv.Itoa(r.PedestriansWaiting),
		fmt.Sprintf("%.2f", r.Priority),
	}
}

// ISink 记录落盘接口
type ISink interface {
	Write(ctx context.Context, r Record) error
	Close(ctx context.Context) error
}
