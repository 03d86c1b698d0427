// Package xload 提供 xrescache 的回源函数及其装饰器。
//
// # 回源函数
//
//   - File：读取文件原始字节
//   - Image：读取并解码 PNG/JPEG/GIF 图片
//   - Redis：从 Redis 读取字符串值
//   - Mongo：从 MongoDB 集合按 key 查找文档，返回其中一个字段
//
// 以上函数都返回 xrescache.LoadFunc，可直接传给 xrescache.Get。
// 资源不存在时返回的错误满足 errors.Is(err, ErrNotFound)。
//
// # 装饰器
//
//   - WithRetry：基于 avast/retry-go 重试，ErrNotFound 默认不重试
//   - WithBreaker：基于 sony/gobreaker 熔断，ErrNotFound 不计为失败
//   - WithRateLimit：基于 go-redis/redis_rate 的分布式限流
//   - WithTracing：为每次回源创建 OTel span
//
// 推荐的组合顺序（由外到内）：Tracing → RateLimit → Breaker → Retry → 回源函数。
//
//	load := xload.WithTracing(
//		xload.WithBreaker(
//			xload.WithRetry(xload.File(xload.WithRoot(dir)), xload.Attempts(3)),
//			gobreaker.Settings{Name: "files"},
//		),
//	)
//	data, err := xrescache.Get(ctx, cache, "logo.png", load)
package xload
