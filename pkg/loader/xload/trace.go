package xload

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xresource/xload"
	defaultSpanName            = "xload.load"
)

type traceOptions struct {
	provider trace.TracerProvider
	spanName string
	attrs    []attribute.KeyValue
}

// TraceOption 配置回源 tracing。
type TraceOption func(*traceOptions)

// WithTracerProvider 设置 TracerProvider，默认 otel.GetTracerProvider()。
func WithTracerProvider(p trace.TracerProvider) TraceOption {
	return func(o *traceOptions) {
		if p != nil {
			o.provider = p
		}
	}
}

// WithSpanName 设置 span 名称，默认 "xload.load"。
func WithSpanName(name string) TraceOption {
	return func(o *traceOptions) {
		if name != "" {
			o.spanName = name
		}
	}
}

// WithSpanAttributes 为每个 span 附加固定属性。
func WithSpanAttributes(attrs ...attribute.KeyValue) TraceOption {
	return func(o *traceOptions) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// WithTracing 为每次回源创建一个 client span，属性 resource.key 记录 key。
// 资源不存在记为事件，其他错误把 span 状态置为 Error。
func WithTracing[V any](load xrescache.LoadFunc[V], opts ...TraceOption) xrescache.LoadFunc[V] {
	if load == nil {
		return failing[V](ErrNilLoader)
	}
	o := &traceOptions{
		provider: otel.GetTracerProvider(),
		spanName: defaultSpanName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	tracer := o.provider.Tracer(defaultInstrumentationName)

	return func(ctx context.Context, key string) (V, error) {
		attrs := make([]attribute.KeyValue, 0, len(o.attrs)+1)
		attrs = append(attrs, attribute.String("resource.key", key))
		attrs = append(attrs, o.attrs...)

		ctx, span := tracer.Start(ctx, o.spanName,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		v, err := load(ctx, key)
		switch {
		case err == nil:
			span.SetStatus(codes.Ok, "")
		case isNotFound(err):
			span.AddEvent("resource not found")
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return v, err
	}
}
