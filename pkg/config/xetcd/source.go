package xetcd

import (
	"context"
	"strings"
	"time"
)

// DefaultPrefix 是资源管理器配置在 etcd 中的默认前缀。
const DefaultPrefix = "/ResourceManager/"

const defaultReadTimeout = 5 * time.Second

// Source 以 etcd 前缀作为缓存配置来源，实现 xrescache.ConfigSource。
type Source struct {
	client  *Client
	prefix  string
	timeout time.Duration
}

// SourceOption 配置 Source。
type SourceOption func(*Source)

// WithReadTimeout 设置单次 Flatten 的读取超时，默认 5 秒。非正值会被忽略。
func WithReadTimeout(d time.Duration) SourceOption {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSource 创建读取 prefix 下键值的配置来源。
func NewSource(client *Client, prefix string, opts ...SourceOption) (*Source, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	s := &Source{client: client, prefix: prefix, timeout: defaultReadTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Prefix 返回监听的键前缀。
func (s *Source) Prefix() string {
	return s.prefix
}

// Flatten 读取前缀下的全部键并转换为点分路径。
func (s *Source) Flatten() (map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	kvs, err := s.client.List(ctx, s.prefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(kvs))
	for k, v := range kvs {
		if key := DottedKey(k); key != "" {
			out[key] = string(v)
		}
	}
	return out, nil
}

// DottedKey 把 etcd 键路径转换为点分路径："/a/b//c" → "a.b.c"。
func DottedKey(key string) string {
	return strings.Join(strings.FieldsFunc(key, func(r rune) bool { return r == '/' }), ".")
}
