package recorder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultBufferSize = 256
	writeTimeout      = 5 * time.Second
)

// Writer 异步记录写入器
// 功能：仿真主循环只把记录放入缓冲通道，由后台协程依次写入所有落盘器，I/O不阻塞主循环
// 说明：缓冲区满时丢弃记录并告警；Close会写完缓冲区中剩余的记录后再关闭落盘器。Write与Close须由同一协程调用
type Writer struct {
	sinks   []ISink
	records chan Record
	wg      sync.WaitGroup
	closed  atomic.Bool
	dropped atomic.Int64
}

// NewWriter 创建并启动写入器
// 参数：bufferSize-缓冲记录数（<=0时使用默认值），sinks-落盘器
func NewWriter(bufferSize int, sinks ...ISink) *Writer {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	w := &Writer{
		sinks:   sinks,
		records: make(chan Record, bufferSize),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

func (w *Writer) loop() {
	defer w.wg.Done()
	for r := range w.records {
		for _, s := range w.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			if err := s.Write(ctx, r); err != nil {
				log.Errorf("write metrics record: %v", err)
			}
			cancel()
		}
	}
}

// Write 提交一条记录，不阻塞
// 返回：是否成功放入缓冲区
func (w *Writer) Write(r Record) bool {
	if w.closed.Load() {
		return false
	}
	select {
	case w.records <- r:
		return true
	default:
		if n := w.dropped.Add(1); n == 1 || n%100 == 0 {
			log.Warnf("metrics buffer full, %d records dropped", n)
		}
		return false
	}
}

// Dropped 因缓冲区满而丢弃的记录数
func (w *Writer) Dropped() int64 {
	return w.dropped.Load()
}

// Close 写完剩余记录并关闭所有落盘器（重复调用无副作用）
func (w *Writer) Close(ctx context.Context) error {
	if w.closed.Swap(true) {
		return nil
	}
	close(w.records)
	w.wg.Wait()
	var errs []error
	for _, s := range w.sinks {
		errs = append(errs, s.Close(ctx))
	}
	return errors.Join(errs...)
}
