package main

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xresource/pkg/config/xconf"
	"github.com/omeyang/xresource/pkg/config/xetcd"
	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

func (a *app) watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "从 stdin 逐行读取 key 加载，配置文件或 etcd 键变化时重试失败的配置",
		ArgsUsage: " ",
		Flags: append(sourceFlags(),
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "配置变化的防抖间隔",
				Value: 100 * time.Millisecond,
			},
			&cli.StringFlag{
				Name:  "stats-schedule",
				Usage: "按 cron 表达式定期记录缓存统计，如 \"@every 30s\"",
			},
		),
		OnUsageError: onUsageError,
		Action:       a.runWatch,
	}
}

func (a *app) runWatch(ctx context.Context, cmd *cli.Command) error {
	cache, src, err := a.openCache(cmd)
	if err != nil {
		return err
	}
	fetch, err := a.newFetcher(cmd, cache)
	if err != nil {
		return err
	}
	if spec := cmd.String("stats-schedule"); spec != "" {
		stop, err := a.scheduleStats(spec, cache)
		if err != nil {
			return err
		}
		defer stop()
	}

	stopWatch, err := a.watchSource(ctx, src, cache, cmd.Duration("debounce"))
	if err != nil {
		return err
	}
	defer stopWatch()

	out := cmd.Root().Writer
	lines, errCh := readLines(ctx, cmd.Root().Reader)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errCh:
					return err
				default:
					return nil
				}
			}
			key := strings.TrimSpace(line)
			if key == "" {
				continue
			}
			fetch(ctx, key).write(out)
		}
	}
}

// watchSource 监听配置来源的变化，返回的函数停止监听。
func (a *app) watchSource(ctx context.Context, src xrescache.ConfigSource, cache *xrescache.Cache, debounce time.Duration) (func(), error) {
	switch src := src.(type) {
	case xconf.Config:
		handle := a.reloadHandler(ctx, cache, src.Path())
		w, err := xconf.Watch(src, func(_ xconf.Config, err error) { handle(err) }, xconf.WithDebounce(debounce))
		if err != nil {
			return nil, err
		}
		w.Start()
		return func() { _ = w.Stop() }, nil
	case *xetcd.Source:
		w, err := xetcd.Watch(src, a.reloadHandler(ctx, cache, src.Prefix()), xetcd.WithDebounce(debounce))
		if err != nil {
			return nil, err
		}
		w.Start()
		return w.Stop, nil
	default:
		return func() {}, nil
	}
}

// reloadHandler 在配置来源重新读取成功后让缓存重试配置。
// 已生效的配置不可变，此时只记录需要重启。
func (a *app) reloadHandler(ctx context.Context, cache *xrescache.Cache, origin string) func(err error) {
	return func(err error) {
		if err != nil {
			a.logger.Warn("xresctl: config reload failed", "source", origin, "error", err)
			return
		}
		switch err := cache.ReloadConfig(ctx); {
		case err == nil:
			a.logger.Info("xresctl: cache config applied", "source", origin)
		case isConfigLoaded(err):
			a.logger.Info("xresctl: cache config already in effect, restart to apply changes", "source", origin)
		default:
			a.logger.Error("xresctl: cache config still invalid", "source", origin, "error", err)
		}
	}
}

// scheduleStats 按 spec 定期把缓存统计写入日志，返回的函数停止调度并等待进行中的任务。
func (a *app) scheduleStats(spec string, cache *xrescache.Cache) (func(), error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { a.logStats(cache.Stats()) }); err != nil {
		return nil, usageErrorf("无效的 --stats-schedule %q: %v", spec, err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}

func (a *app) logStats(st xrescache.Stats) {
	a.logger.Info("xresctl: cache stats",
		"hits", st.Hits,
		"misses", st.Misses,
		"loads", st.Loads,
		"load_errors", st.LoadErrors,
		"evictions", st.Evictions,
		"evicted", st.EvictedEntries,
		"entries", st.Entries,
		"hit_ratio", st.HitRatio(),
	)
}

// readLines 在独立 goroutine 中读取 r，ctx 取消后停止发送。
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- err
		}
	}()
	return lines, errCh
}
