package xetcd

import (
	"context"
	"fmt"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// WatchCallback 在前缀下的键变化（防抖后）时调用。
// err 非 nil 表示 watch 出错，Watcher 会自行重建。
type WatchCallback func(err error)

// WatchOption 监视器配置选项。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce   time.Duration
	retryDelay time.Duration
}

// WithDebounce 设置防抖时间，默认 100ms。非正值会被忽略。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithRetryDelay 设置 watch 通道关闭后重建前的等待时间，默认 1s。非正值会被忽略。
func WithRetryDelay(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.retryDelay = d
		}
	}
}

// Watcher 监视 Source 的前缀。
type Watcher struct {
	src        *Source
	callback   WatchCallback
	debounce   time.Duration
	retryDelay time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	started bool
	stopped bool
}

// Watch 创建前缀监视器，需调用 Start 开始监视、Stop 停止。
func Watch(src *Source, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	if src.client.closed.Load() {
		return nil, ErrClientClosed
	}
	options := &watchOptions{debounce: 100 * time.Millisecond, retryDelay: time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		src:        src,
		callback:   callback,
		debounce:   options.debounce,
		retryDelay: options.retryDelay,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}, nil
}

// Start 在后台 goroutine 中开始监视，重复调用无效果。
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.run()
}

// Stop 停止监视并等待后台 goroutine 退出。不要在回调中调用 Stop。
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	started := w.started
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	w.cancel()
	if started {
		<-w.done
	}
}

func (w *Watcher) run() {
	defer close(w.done)
	for first := true; ; first = false {
		if !first {
			// 断开期间可能错过变更
			w.schedule()
		}
		ch := w.src.client.client.Watch(clientv3.WithRequireLeader(w.ctx), w.src.prefix, clientv3.WithPrefix())
		if !w.consume(ch) {
			return
		}

		t := time.NewTimer(w.retryDelay)
		select {
		case <-w.ctx.Done():
			t.Stop()
			return
		case <-w.src.client.closeCh:
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// consume 处理一个 watch 通道直到其关闭。返回 false 表示应退出。
func (w *Watcher) consume(ch clientv3.WatchChan) bool {
	for {
		select {
		case <-w.ctx.Done():
			return false
		case <-w.src.client.closeCh:
			return false
		case resp, ok := <-ch:
			if !ok {
				return true
			}
			if err := resp.Err(); err != nil {
				w.notify(fmt.Errorf("xetcd: watch %q: %w", w.src.prefix, err))
				continue
			}
			if len(resp.Events) > 0 {
				w.schedule()
			}
		}
	}
}

// schedule 防抖：窗口内的多次变更只回调一次。
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.notify(nil) })
}

func (w *Watcher) notify(err error) {
	if w.callback != nil && w.ctx.Err() == nil {
		w.callback(err)
	}
}
