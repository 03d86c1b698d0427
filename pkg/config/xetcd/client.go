package xetcd

import (
	"context"
	"fmt"
	"sync/atomic"

	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

// etcdClient 是 Client 用到的 clientv3 方法子集，测试时注入 mock。
type etcdClient interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Watch(ctx context.Context, key string, opts ...clientv3.OpOption) clientv3.WatchChan
	Close() error
}

var _ etcdClient = (*clientv3.Client)(nil)

// Client 是只读的 etcd 客户端封装，并发安全。
type Client struct {
	client  etcdClient
	closed  atomic.Bool
	closeCh chan struct{}
}

// NewClient 创建 etcd 客户端。clientv3 异步建立连接，
// 端点不可达时错误出现在第一次读取上，而不是这里。
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	cfg := config.applyDefaults()

	raw, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
		DialOptions: []grpc.DialOption{
			grpc.WithKeepaliveParams(keepalive.ClientParameters{
				Time:                cfg.DialKeepAliveTime,
				Timeout:             cfg.DialKeepAliveTimeout,
				PermitWithoutStream: true,
			}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("xetcd: create client: %w", err)
	}
	return newClient(raw), nil
}

func newClient(c etcdClient) *Client {
	return &Client{client: c, closeCh: make(chan struct{})}
}

// List 读取前缀下的全部键值。
func (c *Client) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	resp, err := c.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("xetcd: list %q: %w", prefix, err)
	}
	out := make(map[string][]byte, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		out[string(kv.Key)] = kv.Value
	}
	return out, nil
}

// Close 关闭连接并让所有 Watcher 退出，重复调用无效果。
func (c *Client) Close() error {
	if c == nil || c.closed.Swap(true) {
		return nil
	}
	close(c.closeCh)
	return c.client.Close()
}
