package xmetrics

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

// StatsSource 提供缓存统计快照，*xrescache.Cache 实现了该接口。
type StatsSource interface {
	Stats() xrescache.Stats
}

// RegisterStats 以 Observable 指标暴露 src 的统计快照，每次采集读取一次 Stats()。
// 返回的 Registration 用于注销回调。
func RegisterStats(src StatsSource, opts ...Option) (metric.Registration, error) {
	if src == nil {
		return nil, ErrNilStats
	}
	cfg := newConfig(opts)
	meter := cfg.meter()

	counter := func(name, desc string) (metric.Int64ObservableCounter, error) {
		c, err := meter.Int64ObservableCounter(name, metric.WithDescription(desc), metric.WithUnit("1"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCreateInstrument, name, err)
		}
		return c, nil
	}

	hits, err := counter("xresource.cache.hits", "cache hits")
	if err != nil {
		return nil, err
	}
	misses, err := counter("xresource.cache.misses", "cache misses")
	if err != nil {
		return nil, err
	}
	loads, err := counter("xresource.cache.loads", "successful loads")
	if err != nil {
		return nil, err
	}
	loadErrors, err := counter("xresource.cache.load_errors", "failed loads")
	if err != nil {
		return nil, err
	}
	typeErrors, err := counter("xresource.cache.type_errors", "typed access mismatches")
	if err != nil {
		return nil, err
	}
	entries, err := meter.Int64ObservableGauge(
		"xresource.cache.entries",
		metric.WithDescription("entries currently cached"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: xresource.cache.entries: %w", ErrCreateInstrument, err)
	}

	attrs := metric.WithAttributes(baseAttrs(cfg.cacheName)...)
	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		st := src.Stats()
		o.ObserveInt64(hits, clampInt64(st.Hits), attrs)
		o.ObserveInt64(misses, clampInt64(st.Misses), attrs)
		o.ObserveInt64(loads, clampInt64(st.Loads), attrs)
		o.ObserveInt64(loadErrors, clampInt64(st.LoadErrors), attrs)
		o.ObserveInt64(typeErrors, clampInt64(st.TypeErrors), attrs)
		o.ObserveInt64(entries, int64(st.Entries), attrs)
		return nil
	}, hits, misses, loads, loadErrors, typeErrors, entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegisterCallback, err)
	}
	return reg, nil
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
