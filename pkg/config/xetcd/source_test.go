package xetcd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/mock/gomock"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

func TestDottedKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/ResourceManager/properties/cash/size", "ResourceManager.properties.cash.size"},
		{"ResourceManager/properties", "ResourceManager.properties"},
		{"/a//b/", "a.b"},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DottedKey(tt.in), tt.in)
	}
}

func TestNewSource_Errors(t *testing.T) {
	_, err := NewSource(nil, DefaultPrefix)
	assert.ErrorIs(t, err, ErrNilClient)

	c, _ := newMockClient(t)
	_, err = NewSource(c, "")
	assert.ErrorIs(t, err, ErrEmptyPrefix)
}

func TestSource_FlattenFeedsCache(t *testing.T) {
	c, m := newMockClient(t)
	m.EXPECT().Get(gomock.Any(), DefaultPrefix, gomock.Any()).Return(kvs(
		"/ResourceManager/properties/cash/size", "64",
		"/ResourceManager/properties/cash/max_uses", "10",
		"/ResourceManager/properties/cash/min_keep_time", "1000",
		"/ResourceManager/properties/cash/quite_old_time", "60000",
		"/ResourceManager/properties/cash/clear_percent", "0.25",
		"/ResourceManager/", "",
	), nil)

	src, err := NewSource(c, DefaultPrefix, WithReadTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, DefaultPrefix, src.Prefix())

	cfg, err := xrescache.LoadConfig(src)
	require.NoError(t, err)
	assert.Equal(t, uint(64), cfg.Capacity)
	assert.Equal(t, time.Minute, cfg.QuietOldTime)
	assert.InDelta(t, 0.25, cfg.ClearFraction, 1e-9)
}

func TestSource_FlattenDeadline(t *testing.T) {
	c, m := newMockClient(t)
	m.EXPECT().Get(gomock.Any(), DefaultPrefix, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...clientv3.OpOption) (*clientv3.GetResponse, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
			return nil, context.DeadlineExceeded
		})

	src, err := NewSource(c, DefaultPrefix, WithReadTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = src.Flatten()
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSource_FailureIsConfigError(t *testing.T) {
	c, m := newMockClient(t)
	boom := errors.New("no leader")
	m.EXPECT().Get(gomock.Any(), DefaultPrefix, gomock.Any()).Return(nil, boom)

	src, err := NewSource(c, DefaultPrefix)
	require.NoError(t, err)
	cache, err := xrescache.New(src, xrescache.WithSink(xrescache.NoopSink{}))
	require.NoError(t, err)

	_, err = cache.Config(context.Background())
	assert.ErrorIs(t, err, xrescache.ErrConfig)
	assert.ErrorIs(t, err, boom)
}
