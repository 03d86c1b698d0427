package xchecksum

import "errors"

var (
	// ErrUnknownAlgorithm 表示不支持的摘要算法。
	ErrUnknownAlgorithm = errors.New("xchecksum: unknown algorithm")
	// ErrInvalidSize 表示 Memo 容量非法。
	ErrInvalidSize = errors.New("xchecksum: memo size must be positive")
	// ErrInvalidTTL 表示 Memo TTL 为负。
	ErrInvalidTTL = errors.New("xchecksum: memo ttl must not be negative")
	// ErrNotRegular 表示路径不是普通文件。
	ErrNotRegular = errors.New("xchecksum: not a regular file")
)
