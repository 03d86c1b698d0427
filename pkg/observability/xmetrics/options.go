package xmetrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const defaultInstrumentationName = "github.com/omeyang/xresource/xmetrics"

type config struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
	cacheName           string
}

// Option 定义 xmetrics 的配置选项。
type Option func(*config)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *config) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// WithCacheName 为所有指标附加 cache 属性，区分同一进程内的多个缓存。
func WithCacheName(name string) Option {
	return func(cfg *config) {
		cfg.cacheName = name
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *config) meter() metric.Meter {
	return c.meterProvider.Meter(c.instrumentationName)
}
