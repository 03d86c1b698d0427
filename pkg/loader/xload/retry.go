package xload

import (
	"context"
	"errors"
	"time"

	retry "github.com/avast/retry-go/v5"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

// RetryOption 是 retry-go 的配置选项。
type RetryOption = retry.Option

// 常用的 retry-go 选项。
var (
	// Attempts 设置总尝试次数（包含首次）。
	Attempts = retry.Attempts
	// Delay 设置重试间隔。
	Delay = retry.Delay
	// MaxJitter 设置最大抖动时间。
	MaxJitter = retry.MaxJitter
	// RetryIf 覆盖默认的重试判断。
	RetryIf = retry.RetryIf
	// OnRetry 设置重试回调。
	OnRetry = retry.OnRetry
)

const (
	defaultAttempts = 3
	defaultDelay    = 50 * time.Millisecond
)

// WithRetry 为 load 增加重试。默认尝试 3 次，间隔 50ms 指数退避；
// ErrNotFound、ErrRateLimited 和 context 取消不重试。只返回最后一次的错误。
//
// opts 追加在默认选项之后，可以覆盖它们。
func WithRetry[V any](load xrescache.LoadFunc[V], opts ...RetryOption) xrescache.LoadFunc[V] {
	if load == nil {
		return failing[V](ErrNilLoader)
	}
	return func(ctx context.Context, key string) (V, error) {
		all := make([]RetryOption, 0, 5+len(opts))
		all = append(all,
			retry.Context(ctx),
			retry.Attempts(defaultAttempts),
			retry.Delay(defaultDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(retryable),
		)
		all = append(all, opts...)
		return retry.NewWithData[V](all...).Do(func() (V, error) {
			return load(ctx, key)
		})
	}
}

func retryable(err error) bool {
	return !isNotFound(err) &&
		!errors.Is(err, ErrRateLimited) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

func failing[V any](err error) xrescache.LoadFunc[V] {
	return func(context.Context, string) (V, error) {
		var zero V
		return zero, err
	}
}
