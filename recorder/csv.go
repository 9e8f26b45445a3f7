package recorder

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// CSVSink CSV文件落盘
// 功能：以追加方式写入，文件不存在或为空时先写表头，每条记录写入后立即flush
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink 打开（或创建）CSV文件
// 参数：filename-文件路径
// 返回：CSV落盘器，文件无法打开时返回错误
func NewCSVSink(filename string) (*CSVSink, error) {
	needHeader := !fileHasContent(filename)
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open metrics file %s: %w", filename, err)
	}
	s := &CSVSink{file: file, writer: csv.NewWriter(file)}
	if needHeader {
		if err := s.writeRow(Header); err != nil {
			file.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *CSVSink) writeRow(row []string) error {
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.writer.Flush()
	return s.writer.Error()
}

func (s *CSVSink) Write(ctx context.Context, r Record) error {
	return s.writeRow(r.Row())
}

func (s *CSVSink) Close(ctx context.Context) error {
	s.writer.Flush()
	return errors.Join(s.writer.Error(), s.file.Close())
}

// fileHasContent 文件是否存在且非空
func fileHasContent(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
