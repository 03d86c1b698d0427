package xetcd

import (
	"fmt"
	"strings"
	"time"
)

// Config etcd 客户端配置。
type Config struct {
	// Endpoints etcd 服务端点列表，必填，格式 "host:port"。
	Endpoints []string `json:"endpoints" yaml:"endpoints"`

	// Username 用户名，启用认证时配置。
	Username string `json:"username" yaml:"username"`

	// Password 密码，启用认证时配置。
	Password string `json:"password" yaml:"password"`

	// DialTimeout 连接超时，零值时为 5 秒。
	DialTimeout time.Duration `json:"dialTimeout" yaml:"dialTimeout"`

	// DialKeepAliveTime gRPC keepalive 探测间隔，零值时为 10 秒。
	DialKeepAliveTime time.Duration `json:"dialKeepAliveTime" yaml:"dialKeepAliveTime"`

	// DialKeepAliveTimeout gRPC keepalive 超时，零值时为 3 秒。
	DialKeepAliveTimeout time.Duration `json:"dialKeepAliveTimeout" yaml:"dialKeepAliveTimeout"`
}

const (
	defaultDialTimeout          = 5 * time.Second
	defaultDialKeepAliveTime    = 10 * time.Second
	defaultDialKeepAliveTimeout = 3 * time.Second
)

// Validate 检查端点列表。
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return ErrNoEndpoints
	}
	for i, ep := range c.Endpoints {
		if ep == "" {
			return fmt.Errorf("%w: endpoint[%d] is empty", ErrInvalidEndpoint, i)
		}
		if !strings.Contains(ep, ":") {
			return fmt.Errorf("%w: endpoint[%d]=%q missing port", ErrInvalidEndpoint, i, ep)
		}
	}
	return nil
}

// applyDefaults 返回填充默认值后的副本。
func (c *Config) applyDefaults() *Config {
	cfg := *c
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
	if cfg.DialKeepAliveTime <= 0 {
		cfg.DialKeepAliveTime = defaultDialKeepAliveTime
	}
	if cfg.DialKeepAliveTimeout <= 0 {
		cfg.DialKeepAliveTimeout = defaultDialKeepAliveTimeout
	}
	return &cfg
}
