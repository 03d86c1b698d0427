// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xchecksum: 文件摘要，MD5 十六进制与 xxHash，带按文件元数据失效的摘要缓存
package util
