package xrescache

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// LoadFunc 在缓存未命中时为 key 生成资源值。
// 可以阻塞（文件或网络 I/O），但不得重入同一个 Cache。
type LoadFunc[V any] func(ctx context.Context, key string) (V, error)

// typeCheck 校验缓存值是否符合调用方期望的类型。
type typeCheck func(key string, v any) error

// Cache 是有界的惰性资源缓存。
// 必须通过 [New] 或 [NewWithConfig] 创建，零值不可用。
// 所有方法都是并发安全的。
//
// 并发模型：一把互斥锁保护 store 与淘汰器；loader 在锁外执行，
// 慢加载不会阻塞其他 key 的元数据读取。
type Cache struct {
	src  ConfigSource
	opts *Options
	sink EventSink

	// cfgMu 串行化配置初始化，cfg 发布后无锁读取。
	cfgMu  sync.Mutex
	cfg    atomic.Pointer[Config]
	cfgErr error

	mu      sync.Mutex
	store   *store
	evictor evictor

	group singleflight.Group
	stats counters
}

// New 创建缓存，配置在第一次缓存操作时从 src 惰性加载。
// 配置加载失败是致命的：之后每次调用都返回同一个 ErrConfig 错误，
// 直到 ReloadConfig 成功。
func New(src ConfigSource, opts ...Option) (*Cache, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	return newCache(src, opts), nil
}

// NewWithConfig 使用已解析的配置创建缓存。
func NewWithConfig(cfg Config, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := newCache(nil, opts)
	c.install(cfg)
	return c, nil
}

func newCache(src ConfigSource, opts []Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	sink := o.Sink
	if sink == nil {
		sink = NewLogSink(o.Logger)
	}
	return &Cache{
		src:   src,
		opts:  o,
		sink:  sink,
		store: newStore(0),
	}
}

// Get 返回 key 对应的值。未命中时调用 load 回源并写入缓存。
//
// 回源失败返回 *LoadError（errors.Is(err, ErrLoad) 成立），缓存不做任何修改。
// 淘汰只在回源成功、即将插入时执行。
func (c *Cache) Get(ctx context.Context, key string, load LoadFunc[any]) (any, error) {
	return c.get(ctx, key, load, nil)
}

// Get 是 Cache.Get 的类型化版本。
// 已有条目的值不是 V 时返回 *TypeError，条目保持不变且不会调用 load。
func Get[V any](ctx context.Context, c *Cache, key string, load LoadFunc[V]) (V, error) {
	var zero V
	if load == nil {
		return zero, ErrNilLoader
	}
	v, err := c.get(ctx, key, func(ctx context.Context, key string) (any, error) {
		v, err := load(ctx, key)
		return v, err
	}, expect[V])
	if err != nil {
		return zero, err
	}
	typed, _ := v.(V)
	return typed, nil
}

// Lookup 只读取已缓存的值，不回源。
// key 不存在返回 ErrNotFound；值类型不是 V 时返回 *TypeError，条目保持不变。
// 命中时与 Get 一样记录一次访问。
func Lookup[V any](ctx context.Context, c *Cache, key string) (V, error) {
	var zero V
	if c == nil {
		return zero, ErrNilCache
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := c.initConfig(ctx, false); err != nil {
		return zero, err
	}
	v, ok, err := c.hit(ctx, key, expect[V])
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, ErrNotFound
	}
	typed, _ := v.(V)
	return typed, nil
}

func (c *Cache) get(ctx context.Context, key string, load LoadFunc[any], want typeCheck) (any, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if load == nil {
		return nil, ErrNilLoader
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := c.initConfig(ctx, false); err != nil {
		return nil, err
	}

	if v, ok, err := c.hit(ctx, key, want); ok || err != nil {
		return v, err
	}
	c.stats.misses.Add(1)

	var (
		v   any
		err error
	)
	if c.opts.EnableSingleflight {
		v, err, _ = c.group.Do(key, func() (any, error) {
			return c.loadAndInsert(ctx, key, load)
		})
	} else {
		v, err = c.loadAndInsert(ctx, key, load)
	}
	if err != nil {
		return nil, err
	}

	// 合并的回源可能来自请求其他类型的调用方。
	if want != nil {
		if err := want(key, v); err != nil {
			c.typeFailed(ctx, key, err)
			return nil, err
		}
	}
	return v, nil
}

// hit 在锁内查找并 touch 条目。类型不符时不 touch。
func (c *Cache) hit(ctx context.Context, key string, want typeCheck) (any, bool, error) {
	c.mu.Lock()
	e, ok := c.store.get(key)
	if !ok {
		c.mu.Unlock()
		return nil, false, nil
	}
	if want != nil {
		if err := want(key, e.value); err != nil {
			c.mu.Unlock()
			c.typeFailed(ctx, key, err)
			return nil, true, err
		}
	}
	e.touch(c.now())
	v := e.value
	c.mu.Unlock()

	c.stats.hits.Add(1)
	return v, true, nil
}

// loadAndInsert 在锁外回源，成功后在锁内淘汰并插入。
// loader 的 context 脱离调用方取消链：回源要么完成要么失败。
func (c *Cache) loadAndInsert(ctx context.Context, key string, load LoadFunc[any]) (any, error) {
	// 上一轮合并回源可能在本调用未命中之后才完成写入。
	if v, ok := c.recheck(key); ok {
		return v, nil
	}

	v, err := load(context.WithoutCancel(ctx), key)
	if err != nil {
		c.stats.loadErrors.Add(1)
		lerr := &LoadError{Key: key, Err: err}
		c.sink.Failed(ctx, ErrorEvent{Op: OpLoad, Key: key, Err: lerr})
		return nil, lerr
	}
	c.stats.loads.Add(1)

	value, ev, evicted := c.insert(key, v)
	if evicted {
		c.stats.evictions.Add(1)
		c.stats.evictedEntries.Add(uint64(ev.Removed))
		c.sink.Evicted(ctx, ev)
	}
	return value, nil
}

// recheck 回源前再次查找 key，存在时 touch 并返回其值。
func (c *Cache) recheck(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.store.get(key)
	if !ok {
		return nil, false
	}
	e.touch(c.now())
	return e.value, true
}

// insert 在锁内执行淘汰并插入新条目。
// 回源期间 key 已被其他调用方写入时，touch 已有条目并返回其值。
func (c *Cache) insert(key string, v any) (any, EvictEvent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.store.get(key); ok {
		e.touch(now)
		return e.value, EvictEvent{}, false
	}
	ev, evicted := c.evictor.evict(c.store, now)
	c.store.insert(key, v, now)
	return v, ev, evicted
}

func (c *Cache) typeFailed(ctx context.Context, key string, err error) {
	c.stats.typeErrors.Add(1)
	c.sink.Failed(ctx, ErrorEvent{Op: OpType, Key: key, Err: err})
}

// Remove 显式删除条目，返回 key 是否存在。
func (c *Cache) Remove(key string) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.remove(key)
}

// Len 返回当前条目数。
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.len()
}

// Info 返回条目元数据快照，不记录访问。
func (c *Cache) Info(key string) (EntryInfo, bool) {
	if c == nil {
		return EntryInfo{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.store.get(key)
	if !ok {
		return EntryInfo{}, false
	}
	return e.info(key), true
}

// Entries 返回全部条目元数据快照，按 key 排序。
func (c *Cache) Entries() []EntryInfo {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	out := c.store.infos()
	c.mu.Unlock()

	slices.SortFunc(out, func(a, b EntryInfo) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// Stats 返回统计快照。
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	s := c.stats.snapshot()
	s.Entries = c.Len()
	return s
}

// Config 返回生效的配置，必要时触发惰性加载。
func (c *Cache) Config(ctx context.Context) (Config, error) {
	if c == nil {
		return Config{}, ErrNilCache
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := c.initConfig(ctx, false)
	if err != nil {
		return Config{}, err
	}
	return *cfg, nil
}

// ReloadConfig 在配置加载失败后重新从来源读取配置。
// 配置一旦加载成功即不可变，此时返回 ErrConfigLoaded。
func (c *Cache) ReloadConfig(ctx context.Context) error {
	if c == nil {
		return ErrNilCache
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err := c.initConfig(ctx, true)
	return err
}

// initConfig 返回已发布的配置，首次调用时加载。
// retry 为 true 时忽略已记录的失败重新加载。
func (c *Cache) initConfig(ctx context.Context, retry bool) (*Config, error) {
	if cfg := c.cfg.Load(); cfg != nil {
		if retry {
			return nil, ErrConfigLoaded
		}
		return cfg, nil
	}

	cfg, fresh, err := c.loadConfig(retry)
	if err != nil && fresh {
		c.sink.Failed(ctx, ErrorEvent{Op: OpConfig, Err: err})
	}
	return cfg, err
}

// loadConfig 在 cfgMu 保护下加载配置。fresh 表示本次调用实际执行了加载。
func (c *Cache) loadConfig(retry bool) (cfg *Config, fresh bool, err error) {
	c.cfgMu.Lock()
	defer c.cfgMu.Unlock()

	if cfg := c.cfg.Load(); cfg != nil {
		if retry {
			return nil, false, ErrConfigLoaded
		}
		return cfg, false, nil
	}
	if c.cfgErr != nil && !retry {
		return nil, false, c.cfgErr
	}

	loaded, err := LoadConfig(c.src)
	if err != nil {
		c.cfgErr = err
		return nil, true, err
	}
	c.cfgErr = nil
	return c.install(loaded), true, nil
}

// install 发布配置。调用方须保证只调用一次。
func (c *Cache) install(cfg Config) *Config {
	c.mu.Lock()
	c.evictor = evictor{cfg: cfg}
	c.mu.Unlock()
	c.cfg.Store(&cfg)
	return &cfg
}

func (c *Cache) now() int64 {
	return c.opts.Clock.Now().UnixMilli()
}

// expect 检查 v 是否可作为 V 返回。
// nil 是任意接口类型的零值，V 为接口时视为匹配。
func expect[V any](key string, v any) error {
	if _, ok := v.(V); ok {
		return nil
	}
	if v == nil && reflect.TypeFor[V]().Kind() == reflect.Interface {
		return nil
	}
	return &TypeError{
		Key:  key,
		Want: reflect.TypeFor[V]().String(),
		Got:  fmt.Sprintf("%T", v),
	}
}
