// Package xrescache 提供有界的惰性资源缓存：首次访问时通过 loader 生成资源
// （如解码后的图片），缓存满时按三层回退策略淘汰条目。
//
// # 核心组件
//
//   - Config：容量与淘汰阈值，首次缓存操作时从 ConfigSource 惰性加载，之后不可变
//   - store：key → 条目映射，条目记录值、最后访问时间和访问次数
//   - evictor：三层回退淘汰策略
//   - Cache：get-or-load 编排，配合 Get[V] / Lookup[V] 提供类型化访问
//
// # 淘汰策略
//
// 插入新条目前，若条目数已达到 Capacity，按顺序尝试以下三层，
// 只执行第一个候选集非空的层：
//
//  1. 陈旧层：超过 QuietOldTime 未访问的条目，移除 floor(N*f + 0.99) 个
//  2. 热数据层：MinKeepTime 内访问过的条目，先把 useCount >= MaxUses 的钳制为 MaxUses，
//     再移除 floor(N*f + 0.99) 个
//  3. 兜底层：全部条目，移除 floor(N*f + 0.90) 个
//
// 每层都按 useCount 升序移除，useCount 相同时先插入的先移除。
// f 为 ClearFraction。这是启发式策略，不追求 LRU/LFU 意义上的最优。
//
// # 错误
//
//   - ErrConfig：配置缺失或非法，致命且粘滞，直到 ReloadConfig 成功
//   - *LoadError（ErrLoad）：回源失败，缓存不变，可重试
//   - *TypeError（ErrTypeMismatch）：值类型不符，条目保持有效
//
// # 并发安全
//
// 一把互斥锁保护 store 与淘汰器，loader 在锁外执行。
// 同一 key 的并发未命中默认通过 singleflight 合并为一次回源（WithSingleflight 可关闭）。
// loader 的 context 不继承调用方的取消信号，也不附加超时。
//
// # 事件
//
// 每轮淘汰发出一个 EvictEvent，加载/配置/类型失败发出 ErrorEvent，
// 由 EventSink 接收。默认 sink 写入 slog；xmetrics 提供基于 OpenTelemetry 的实现。
package xrescache
