package xrescache

import (
	"context"
	"log/slog"
)

// 错误事件的操作类型。
const (
	OpLoad   = "load"
	OpConfig = "config"
	OpType   = "type"
)

// EvictEvent 描述一轮淘汰。
type EvictEvent struct {
	Tier       Tier
	Candidates int
	Removed    int
	Keys       []string
}

// ErrorEvent 描述一次加载、配置或类型错误。
type ErrorEvent struct {
	Op  string
	Key string
	Err error
}

// EventSink 接收缓存对外发出的事件：每轮淘汰一个 Evicted，
// 加载/配置/类型失败各一个 Failed。除此之外缓存不对外发信号。
//
// 回调在缓存内部锁之外同步执行，可以安全地调用 Cache 的只读方法，
// 但应避免耗时操作。
type EventSink interface {
	Evicted(ctx context.Context, ev EvictEvent)
	Failed(ctx context.Context, ev ErrorEvent)
}

// NoopSink 丢弃所有事件。
type NoopSink struct{}

// Evicted 空实现。
func (NoopSink) Evicted(context.Context, EvictEvent) {}

// Failed 空实现。
func (NoopSink) Failed(context.Context, ErrorEvent) {}

// LogSink 把事件写入 slog：淘汰为 Info，失败为 Error。
type LogSink struct {
	Logger *slog.Logger
}

// NewLogSink 创建 LogSink。logger 为 nil 时使用 slog.Default()。
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{Logger: logger}
}

// Evicted 记录本轮移除数量。
func (s *LogSink) Evicted(ctx context.Context, ev EvictEvent) {
	s.Logger.LogAttrs(ctx, slog.LevelInfo, "xrescache: cleared entries",
		slog.Int("removed", ev.Removed),
		slog.Int("candidates", ev.Candidates),
		slog.String("tier", ev.Tier.String()),
	)
}

// Failed 记录失败事件。
func (s *LogSink) Failed(ctx context.Context, ev ErrorEvent) {
	s.Logger.LogAttrs(ctx, slog.LevelError, "xrescache: operation failed",
		slog.String("op", ev.Op),
		slog.String("key", ev.Key),
		slog.Any("error", ev.Err),
	)
}

// MultiSink 把事件依次分发给多个 sink，nil 元素会被跳过。
type MultiSink []EventSink

// Evicted 分发淘汰事件。
func (m MultiSink) Evicted(ctx context.Context, ev EvictEvent) {
	for _, s := range m {
		if s != nil {
			s.Evicted(ctx, ev)
		}
	}
}

// Failed 分发失败事件。
func (m MultiSink) Failed(ctx context.Context, ev ErrorEvent) {
	for _, s := range m {
		if s != nil {
			s.Failed(ctx, ev)
		}
	}
}
