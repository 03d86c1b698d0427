package xload

import (
	"context"

	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

// 熔断器拒绝请求时返回的错误。
var (
	ErrOpenState       = gobreaker.ErrOpenState
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// WithBreaker 用熔断器保护 load。熔断打开期间直接返回 ErrOpenState，不调用 load。
//
// settings.IsSuccessful 为 nil 时，ErrNotFound 视为成功，不计入失败次数。
func WithBreaker[V any](load xrescache.LoadFunc[V], settings gobreaker.Settings) xrescache.LoadFunc[V] {
	if load == nil {
		return failing[V](ErrNilLoader)
	}
	if settings.IsSuccessful == nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || isNotFound(err)
		}
	}
	cb := gobreaker.NewCircuitBreaker[V](settings)
	return func(ctx context.Context, key string) (V, error) {
		return cb.Execute(func() (V, error) {
			return load(ctx, key)
		})
	}
}
