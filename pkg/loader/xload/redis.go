package xload

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

// Redis 返回从 Redis 读取字符串值的回源函数，实际读取的键为 prefix+key。
// 键不存在时返回 ErrNotFound。
func Redis(client redis.UniversalClient, prefix string) (xrescache.LoadFunc[[]byte], error) {
	if client == nil {
		return nil, ErrNilClient
	}
	return func(ctx context.Context, key string) ([]byte, error) {
		data, err := client.Get(ctx, prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix+key)
		}
		if err != nil {
			return nil, fmt.Errorf("xload: redis get %s: %w", prefix+key, err)
		}
		return data, nil
	}, nil
}
