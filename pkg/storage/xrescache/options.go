package xrescache

import "log/slog"

// Options 定义 Cache 的可选配置。
type Options struct {
	// Clock 时间来源，默认 SystemClock。
	Clock Clock

	// Sink 事件接收方，默认写入 Logger 的 LogSink。
	Sink EventSink

	// Logger 默认 sink 使用的日志器，默认 slog.Default()。
	Logger *slog.Logger

	// EnableSingleflight 是否合并同一 key 的并发回源。
	// 默认为 true。
	EnableSingleflight bool
}

// Option 定义配置 Cache 的函数类型。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		Clock:              SystemClock{},
		Logger:             slog.Default(),
		EnableSingleflight: true,
	}
}

// WithClock 设置时间来源。nil 会被忽略。
func WithClock(c Clock) Option {
	return func(o *Options) {
		if c != nil {
			o.Clock = c
		}
	}
}

// WithSink 设置事件接收方。nil 会被忽略。
//
// 如需同时保留日志和指标，使用 MultiSink{NewLogSink(logger), metricsSink}。
func WithSink(s EventSink) Option {
	return func(o *Options) {
		if s != nil {
			o.Sink = s
		}
	}
}

// WithLogger 设置日志器。nil 会被忽略。
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithSingleflight 设置是否合并同一 key 的并发回源。
func WithSingleflight(enable bool) Option {
	return func(o *Options) {
		o.EnableSingleflight = enable
	}
}
