// Package xmetrics 把资源缓存的事件和统计导出为 OpenTelemetry 指标。
//
// # 组件
//
//   - CacheSink：实现 xrescache.EventSink，每轮淘汰、每次失败各记一次计数
//   - RegisterStats：以 Observable 指标暴露 xrescache.Stats 快照
//
// # 使用示例
//
//	sink, err := xmetrics.NewCacheSink(xmetrics.WithMeterProvider(mp))
//	if err != nil {
//		return err
//	}
//	cache, err := xrescache.New(src, xrescache.WithSink(xrescache.MultiSink{
//		xrescache.NewLogSink(logger), sink,
//	}))
//	reg, err := xmetrics.RegisterStats(cache, xmetrics.WithMeterProvider(mp))
//	defer reg.Unregister()
//
// # 指标命名
//
// 事件指标：
//   - xresource.cache.evictions（属性 tier）
//   - xresource.cache.evicted_entries（属性 tier）
//   - xresource.cache.failures（属性 op）
//
// 统计指标：
//   - xresource.cache.hits / misses / loads / load_errors / type_errors
//   - xresource.cache.entries
//
// 未指定 MeterProvider 时使用 otel.GetMeterProvider()。
package xmetrics
