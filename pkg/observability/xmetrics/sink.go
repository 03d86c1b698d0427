package xmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

const (
	metricEvictions      = "xresource.cache.evictions"
	metricEvictedEntries = "xresource.cache.evicted_entries"
	metricFailures       = "xresource.cache.failures"
)

// CacheSink 把缓存事件记为 OTel 计数器。
type CacheSink struct {
	evictions metric.Int64Counter
	evicted   metric.Int64Counter
	failures  metric.Int64Counter
	base      []attribute.KeyValue
}

var _ xrescache.EventSink = (*CacheSink)(nil)

// NewCacheSink 创建 CacheSink。
func NewCacheSink(opts ...Option) (*CacheSink, error) {
	cfg := newConfig(opts)
	meter := cfg.meter()

	evictions, err := meter.Int64Counter(
		metricEvictions,
		metric.WithDescription("eviction passes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricEvictions, err)
	}
	evicted, err := meter.Int64Counter(
		metricEvictedEntries,
		metric.WithDescription("entries removed by eviction"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricEvictedEntries, err)
	}
	failures, err := meter.Int64Counter(
		metricFailures,
		metric.WithDescription("failed cache operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, metricFailures, err)
	}

	return &CacheSink{
		evictions: evictions,
		evicted:   evicted,
		failures:  failures,
		base:      baseAttrs(cfg.cacheName),
	}, nil
}

// Evicted 记录一轮淘汰及其移除数量。
func (s *CacheSink) Evicted(ctx context.Context, ev xrescache.EvictEvent) {
	if s == nil {
		return
	}
	// 调用方 context 可能已取消，指标仍需记录
	ctx = context.WithoutCancel(ctx)
	attrs := metric.WithAttributes(s.with(attribute.String("tier", ev.Tier.String()))...)
	s.evictions.Add(ctx, 1, attrs)
	s.evicted.Add(ctx, int64(ev.Removed), attrs)
}

// Failed 按操作类型记录失败次数。
func (s *CacheSink) Failed(ctx context.Context, ev xrescache.ErrorEvent) {
	if s == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.failures.Add(ctx, 1, metric.WithAttributes(s.with(attribute.String("op", ev.Op))...))
}

func (s *CacheSink) with(kv attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(s.base)+1)
	attrs = append(attrs, s.base...)
	return append(attrs, kv)
}

func baseAttrs(cacheName string) []attribute.KeyValue {
	if cacheName == "" {
		return nil
	}
	return []attribute.KeyValue{attribute.String("cache", cacheName)}
}
