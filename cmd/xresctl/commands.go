package main

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
	"github.com/omeyang/xresource/pkg/util/xchecksum"
)

func (a *app) commands() []*cli.Command {
	return []*cli.Command{
		a.getCommand(),
		a.watchCommand(),
		a.configCommand(),
		a.checksumCommand(),
	}
}

func (a *app) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "输出解析后的缓存配置",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "flat",
				Usage: "输出配置文件展开后的全部键值",
			},
		},
		OnUsageError: onUsageError,
		Action:       a.runConfig,
	}
}

func (a *app) runConfig(_ context.Context, cmd *cli.Command) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.Root().Writer

	if cmd.Bool("flat") {
		props, err := cfg.Flatten()
		if err != nil {
			return err
		}
		for _, k := range slices.Sorted(maps.Keys(props)) {
			_, _ = fmt.Fprintf(out, "%s=%s\n", k, props[k])
		}
		return nil
	}

	c, err := xrescache.LoadConfig(cfg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "capacity\t%d\n", c.Capacity)
	_, _ = fmt.Fprintf(out, "max_uses\t%d\n", c.MaxUses)
	_, _ = fmt.Fprintf(out, "min_keep_time\t%s\n", c.MinKeepTime)
	_, _ = fmt.Fprintf(out, "quiet_old_time\t%s\n", c.QuietOldTime)
	_, _ = fmt.Fprintf(out, "clear_fraction\t%g\n", c.ClearFraction)
	return nil
}

func (a *app) checksumCommand() *cli.Command {
	return &cli.Command{
		Name:      "checksum",
		Usage:     "计算文件摘要",
		ArgsUsage: "<path>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "algorithm",
				Aliases: []string{"a"},
				Usage:   "摘要算法 md5|xxhash",
				Value:   string(xchecksum.MD5),
			},
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Usage:   "并发计算数",
				Value:   4,
			},
		},
		OnUsageError: onUsageError,
		Action:       a.runChecksum,
	}
}

func (a *app) runChecksum(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return usageErrorf("checksum 需要至少一个路径")
	}
	alg, err := xchecksum.ParseAlgorithm(cmd.String("algorithm"))
	if err != nil {
		return usageErrorf("%v", err)
	}
	parallel := cmd.Int("parallel")
	if parallel < 1 {
		return usageErrorf("--parallel 必须不小于 1")
	}

	// 重复出现的路径由 memo 去重
	memo, err := xchecksum.NewMemo(len(paths))
	if err != nil {
		return err
	}
	defer memo.Close()

	sums := make([]string, len(paths))
	errs := make([]error, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range paths {
		g.Go(func() error {
			sums[i], errs[i] = memo.Sum(path, alg)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out, errOut := cmd.Root().Writer, cmd.Root().ErrWriter
	failed := false
	for i, path := range paths {
		if errs[i] != nil {
			a.logger.Debug("xresctl: checksum failed", "path", path, "error", errs[i])
			_, _ = fmt.Fprintf(errOut, "xresctl: %s: %v\n", path, errs[i])
			failed = true
			continue
		}
		_, _ = fmt.Fprintf(out, "%s  %s\n", sums[i], path)
	}
	if failed {
		return &exitError{code: 1}
	}
	return nil
}
