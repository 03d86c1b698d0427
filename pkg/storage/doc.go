// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xrescache: 有界惰性资源缓存，三层淘汰策略（陈旧 → 热点 → 兜底）
//
// 设计原则：
//   - 显式的 Cache 值，时钟和事件 sink 可注入
//   - 类型化访问，类型不符返回带类型的错误而非 panic
//   - 慢加载在锁外执行，并发未命中合并为一次回源
package storage
