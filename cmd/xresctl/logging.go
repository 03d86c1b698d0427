package main

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 5
	defaultLogMaxAgeDays = 7
)

type logOptions struct {
	format    string
	level     string
	file      string
	maxSizeMB int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger 按选项创建 logger。设置了 file 时写入可轮转的日志文件，
// 返回的 Closer 负责关闭它。
func newLogger(o logOptions, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.level)); err != nil {
		return nil, nil, usageErrorf("无效的日志级别 %q", o.level)
	}
	if o.maxSizeMB <= 0 {
		return nil, nil, usageErrorf("日志文件大小上限必须为正数: %d", o.maxSizeMB)
	}

	w, closer := stderr, io.Closer(nopCloser{})
	if o.file != "" {
		lj := &lumberjack.Logger{
			Filename:   o.file,
			MaxSize:    o.maxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAge:     defaultLogMaxAgeDays,
			Compress:   true,
		}
		w, closer = lj, lj
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(o.format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		_ = closer.Close()
		return nil, nil, usageErrorf("无效的日志格式 %q", o.format)
	}
	return slog.New(h), closer, nil
}
