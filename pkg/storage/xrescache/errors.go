package xrescache

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig 表示缓存配置缺失、无法解析或取值越界。
	// 越界包括 ClearFraction 过小以致一轮淘汰移除 0 个条目的情况，
	// 见 Config.Validate。
	// 该错误是致命的：在 ReloadConfig 成功之前，所有缓存操作都会返回它。
	ErrConfig = errors.New("xrescache: invalid config")

	// ErrNilSource 表示未提供配置来源。
	ErrNilSource = errors.New("xrescache: nil config source")

	// ErrConfigLoaded 表示配置已成功加载，不允许再次加载。
	ErrConfigLoaded = errors.New("xrescache: config already loaded")

	// ErrLoad 表示 loader 回源失败。
	ErrLoad = errors.New("xrescache: load failed")

	// ErrNilLoader 表示未提供 loader 函数。
	ErrNilLoader = errors.New("xrescache: nil loader")

	// ErrTypeMismatch 表示缓存值类型与调用方期望的类型不一致。
	ErrTypeMismatch = errors.New("xrescache: type mismatch")

	// ErrNotFound 表示 key 不在缓存中。
	ErrNotFound = errors.New("xrescache: key not found")

	// ErrNilCache 表示在 nil *Cache 上调用方法。
	ErrNilCache = errors.New("xrescache: nil cache")
)

// LoadError 包装 loader 返回的错误。
// 回源失败时缓存内容保持不变，调用方可以稍后重试同一个 key。
type LoadError struct {
	Key string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("xrescache: load %q: %v", e.Key, e.Err)
}

// Unwrap 返回 loader 的原始错误。
func (e *LoadError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrLoad) 成立。
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// TypeError 表示条目存在，但值的类型不是调用方请求的类型。
// 条目不会被删除或淘汰，使用正确类型的调用方仍可正常读取。
type TypeError struct {
	Key  string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("xrescache: key %q holds %s, want %s", e.Key, e.Got, e.Want)
}

// Is 使 errors.Is(err, ErrTypeMismatch) 成立。
func (e *TypeError) Is(target error) bool { return target == ErrTypeMismatch }
