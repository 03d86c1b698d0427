// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xmetrics: 资源缓存的 OpenTelemetry 指标（淘汰、失败、命中统计）
//
// 回源 tracing 由 loader/xload 的 WithTracing 提供。
package observability
