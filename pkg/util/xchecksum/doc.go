// Package xchecksum 计算资源文件的摘要。
//
// MD5Hex 输出小写十六进制、每字节两位，与既有资源清单中的校验值格式一致；
// XXHash 用于不需要跨系统比对、只求快速判重的场景。
//
// Memo 按 (路径, 算法, 文件大小, 修改时间) 缓存摘要，文件未变化时不重复读盘。
// 底层为 hashicorp/golang-lru 的 expirable LRU。
package xchecksum
