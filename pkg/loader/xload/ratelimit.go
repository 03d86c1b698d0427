package xload

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

// RateLimitError 表示回源被限流拒绝。
type RateLimitError struct {
	Name       string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("xload: %s rate limited, retry after %s", e.Name, e.RetryAfter)
}

// Is 使 errors.Is(err, ErrRateLimited) 成立。
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// WithRateLimit 用 Redis 分布式限流保护 load，同一 name 的所有进程共享配额。
// 配额耗尽时返回 *RateLimitError，不调用 load；限流器本身出错时放行。
func WithRateLimit[V any](load xrescache.LoadFunc[V], limiter *redis_rate.Limiter, name string, limit redis_rate.Limit) xrescache.LoadFunc[V] {
	if load == nil {
		return failing[V](ErrNilLoader)
	}
	if limiter == nil {
		return failing[V](ErrNilClient)
	}
	key := "xload:rate:" + name
	return func(ctx context.Context, k string) (V, error) {
		res, err := limiter.Allow(ctx, key, limit)
		if err == nil && res.Allowed == 0 {
			var zero V
			return zero, &RateLimitError{Name: name, RetryAfter: res.RetryAfter}
		}
		return load(ctx, k)
	}
}
