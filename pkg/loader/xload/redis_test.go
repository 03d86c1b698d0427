package xload

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr:         mr.Addr(),
		DialTimeout:  100 * time.Millisecond,
		ReadTimeout:  100 * time.Millisecond,
		WriteTimeout: 100 * time.Millisecond,
		PoolSize:     2,
		MaxRetries:   1,
	})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

func TestRedis_NilClient(t *testing.T) {
	_, err := Redis(nil, "")
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestRedis_Get(t *testing.T) {
	client, mr := newTestRedis(t)
	require.NoError(t, mr.Set("res:logo", "png-bytes"))

	load, err := Redis(client, "res:")
	require.NoError(t, err)

	data, err := load(context.Background(), "logo")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestRedis_NotFound(t *testing.T) {
	client, _ := newTestRedis(t)
	load, err := Redis(client, "res:")
	require.NoError(t, err)

	_, err = load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "res:missing")
}

func TestRedis_ServerError(t *testing.T) {
	client, mr := newTestRedis(t)
	load, err := Redis(client, "")
	require.NoError(t, err)

	mr.SetError("LOADING server is loading")
	_, err = load(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedis_WrongType(t *testing.T) {
	client, mr := newTestRedis(t)
	_, err := mr.Lpush("list", "a")
	require.NoError(t, err)

	load, err := Redis(client, "")
	require.NoError(t, err)
	_, err = load(context.Background(), "list")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
