package xetcd

import "errors"

var (
	// ErrNilConfig 表示配置为 nil。
	ErrNilConfig = errors.New("xetcd: config is nil")

	// ErrNoEndpoints 表示未配置 etcd 端点。
	ErrNoEndpoints = errors.New("xetcd: no endpoints configured")

	// ErrInvalidEndpoint 表示端点格式不是 host:port。
	ErrInvalidEndpoint = errors.New("xetcd: invalid endpoint")

	// ErrNilClient 表示传入了 nil 的 Client。
	ErrNilClient = errors.New("xetcd: nil client")

	// ErrNilSource 表示传入了 nil 的 Source。
	ErrNilSource = errors.New("xetcd: nil source")

	// ErrEmptyPrefix 表示键前缀为空。
	ErrEmptyPrefix = errors.New("xetcd: empty prefix")

	// ErrClientClosed 表示客户端已关闭。
	ErrClientClosed = errors.New("xetcd: client is closed")
)
