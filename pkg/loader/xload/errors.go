package xload

import "errors"

var (
	// ErrNotFound 表示资源不存在。
	ErrNotFound = errors.New("xload: resource not found")
	// ErrDecode 表示资源内容无法解码。
	ErrDecode = errors.New("xload: decode failed")
	// ErrNilClient 表示传入了 nil 的 Redis 客户端或 MongoDB 集合。
	ErrNilClient = errors.New("xload: nil client")
	// ErrNilLoader 表示被装饰的回源函数为 nil。
	ErrNilLoader = errors.New("xload: nil loader")
	// ErrRateLimited 表示回源配额已耗尽。
	ErrRateLimited = errors.New("xload: rate limited")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
