// Package loader 提供资源回源相关的子包。
//
// 子包列表：
//   - xload: 文件、图片、Redis 回源函数，以及重试、熔断、限流、tracing 装饰器
package loader
