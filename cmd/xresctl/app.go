package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xresource/pkg/config/xconf"
	"github.com/omeyang/xresource/pkg/config/xetcd"
	"github.com/omeyang/xresource/pkg/observability/xmetrics"
	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

// app 保存一次命令执行期间共享的资源。
type app struct {
	logger  *slog.Logger
	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    "xresctl",
		Usage:   "资源缓存命令行工具",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "缓存配置文件（.yaml/.yml/.json/.xml）",
			},
			&cli.StringSliceFlag{
				Name:  "etcd",
				Usage: "从 etcd 读取缓存配置，值为端点 host:port，可重复",
			},
			&cli.StringFlag{
				Name:  "etcd-prefix",
				Usage: "etcd 配置键前缀",
				Value: xetcd.DefaultPrefix,
			},
			&cli.DurationFlag{
				Name:  "etcd-timeout",
				Usage: "读取 etcd 配置的超时",
				Value: 5 * time.Second,
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 text|json",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别 debug|info|warn|error",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件，按大小轮转；未设置时写 stderr",
			},
			&cli.IntFlag{
				Name:  "log-max-size",
				Usage: "单个日志文件上限（MB）",
				Value: defaultLogMaxSizeMB,
			},
		},
		Commands:     a.commands(),
		Before:       a.before,
		After:        a.after,
		OnUsageError: onUsageError,
		// 退出码统一由 run 映射，不让 urfave/cli 直接 os.Exit
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Authors:        []any{"xresource"},
	}
}

func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{msg: err.Error()}
}

func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logger, closer, err := newLogger(logOptions{
		format:    cmd.String("log-format"),
		level:     cmd.String("log-level"),
		file:      cmd.String("log-file"),
		maxSizeMB: cmd.Int("log-max-size"),
	}, cmd.Root().ErrWriter)
	if err != nil {
		return ctx, err
	}
	a.logger = logger.With("run_id", uuid.NewString())
	a.closers = append(a.closers, closer)
	return ctx, nil
}

// after 按注册的逆序释放资源。
func (a *app) after(context.Context, *cli.Command) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *app) onClose(c io.Closer) {
	a.closers = append(a.closers, c)
}

// loadConfig 读取 --config 指定的配置文件，或 --etcd 指定集群中的配置键。
func (a *app) loadConfig(cmd *cli.Command) (xrescache.ConfigSource, error) {
	root := cmd.Root()
	path, endpoints := root.String("config"), root.StringSlice("etcd")
	switch {
	case path != "" && len(endpoints) > 0:
		return nil, usageErrorf("--config 与 --etcd 不能同时使用")
	case len(endpoints) > 0:
		return a.openEtcd(endpoints, root.String("etcd-prefix"), root.Duration("etcd-timeout"))
	case path == "":
		return nil, usageErrorf("缺少 --config 或 --etcd")
	}
	cfg, err := xconf.New(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) openEtcd(endpoints []string, prefix string, timeout time.Duration) (*xetcd.Source, error) {
	config := &xetcd.Config{Endpoints: endpoints}
	if err := config.Validate(); err != nil {
		return nil, usageErrorf("%v", err)
	}
	if timeout <= 0 {
		return nil, usageErrorf("--etcd-timeout 必须为正数")
	}
	client, err := xetcd.NewClient(config)
	if err != nil {
		return nil, err
	}
	a.onClose(client)
	src, err := xetcd.NewSource(client, prefix, xetcd.WithReadTimeout(timeout))
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	return src, nil
}

// openCache 基于配置来源创建缓存，事件同时写日志和 OTel 指标。
func (a *app) openCache(cmd *cli.Command) (*xrescache.Cache, xrescache.ConfigSource, error) {
	src, err := a.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	metrics, err := xmetrics.NewCacheSink(xmetrics.WithCacheName("xresctl"))
	if err != nil {
		return nil, nil, err
	}
	cache, err := xrescache.New(src,
		xrescache.WithLogger(a.logger),
		xrescache.WithSink(xrescache.MultiSink{xrescache.NewLogSink(a.logger), metrics}),
	)
	if err != nil {
		return nil, nil, err
	}

	reg, err := xmetrics.RegisterStats(cache, xmetrics.WithCacheName("xresctl"))
	if err != nil {
		return nil, nil, err
	}
	a.onClose(closerFunc(reg.Unregister))
	return cache, src, nil
}
