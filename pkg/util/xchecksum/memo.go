package xchecksum

import (
	"fmt"
	"os"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// memoKey 以文件大小和修改时间作为内容未变的近似判断。
type memoKey struct {
	path    string
	alg     Algorithm
	size    int64
	modTime int64
}

// MemoStats 是 Memo 的命中统计。
type MemoStats struct {
	Hits   uint64
	Misses uint64
}

// MemoOption 配置 Memo。
type MemoOption func(*Memo)

// WithTTL 设置摘要缓存的过期时间，0 表示不过期。
func WithTTL(ttl time.Duration) MemoOption {
	return func(m *Memo) {
		m.ttl = ttl
	}
}

// Memo 缓存文件摘要。并发安全。
type Memo struct {
	lru       *expirable.LRU[memoKey, string]
	ttl       time.Duration
	compute   func(path string, alg Algorithm) (string, error)
	hits      atomic.Uint64
	misses    atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewMemo 创建最多缓存 size 个摘要的 Memo。
// 设置了 TTL 的 Memo 用完后需调用 Close 停止后台清理。
func NewMemo(size int, opts ...MemoOption) (*Memo, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	m := &Memo{compute: Sum}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.ttl < 0 {
		return nil, ErrInvalidTTL
	}
	m.lru = expirable.NewLRU[memoKey, string](size, nil, m.ttl)
	return m, nil
}

// Sum 返回文件摘要。文件大小和修改时间都未变化时直接返回缓存值。
func (m *Memo) Sum(path string, alg Algorithm) (string, error) {
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		return "", err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("xchecksum: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	key := memoKey{path: path, alg: alg, size: fi.Size(), modTime: fi.ModTime().UnixNano()}
	if !m.closed.Load() {
		if sum, ok := m.lru.Get(key); ok {
			m.hits.Add(1)
			return sum, nil
		}
	}
	m.misses.Add(1)

	sum, err := m.compute(path, alg)
	if err != nil {
		return "", err
	}
	if !m.closed.Load() {
		m.lru.Add(key, sum)
	}
	return sum, nil
}

// Len 返回缓存的摘要数。
func (m *Memo) Len() int {
	if m.closed.Load() {
		return 0
	}
	return m.lru.Len()
}

// Stats 返回命中统计。
func (m *Memo) Stats() MemoStats {
	return MemoStats{Hits: m.hits.Load(), Misses: m.misses.Load()}
}

// Close 清空缓存并停止过期清理 goroutine。幂等。
// 关闭后 Sum 仍可用，只是不再缓存。
func (m *Memo) Close() {
	m.closed.Store(true)
	m.closeOnce.Do(func() {
		m.lru.Purge()
		if m.ttl > 0 {
			stopCleanup(m.lru)
		}
	})
}

// stopCleanup 关闭 expirable.LRU 未导出的 done 通道，让 TTL 清理 goroutine 退出。
// golang-lru v2.0.7 没有公开的 Close；字段不存在或类型不符时什么也不做。
func stopCleanup(lru any) (stopped bool) {
	defer func() {
		if recover() != nil {
			stopped = false
		}
	}()

	v := reflect.ValueOf(lru)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return false
	}
	done := v.Elem().FieldByName("done")
	if !done.IsValid() || done.Type() != reflect.TypeFor[chan struct{}]() || done.IsNil() {
		return false
	}
	ch := *(*chan struct{})(unsafe.Pointer(done.UnsafeAddr())) //nolint:gosec // 访问上游未导出字段
	close(ch)
	return true
}
