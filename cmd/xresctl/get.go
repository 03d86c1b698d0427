package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/urfave/cli/v3"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xresource/pkg/loader/xload"
	"github.com/omeyang/xresource/pkg/storage/xrescache"
	"github.com/omeyang/xresource/pkg/util/xchecksum"
)

const (
	defaultAttempts        = 3
	defaultBreakerTimeout  = 30 * time.Second
	mongoDisconnectTimeout = 5 * time.Second
)

// sourceFlags 是 get 与 watch 共用的资源来源参数。
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "root",
			Usage: "从该目录读取文件资源，key 为相对路径",
		},
		&cli.StringFlag{
			Name:  "redis",
			Usage: "从该 Redis 地址读取资源",
		},
		&cli.StringFlag{
			Name:  "redis-prefix",
			Usage: "Redis 键前缀",
		},
		&cli.IntFlag{
			Name:  "redis-rate",
			Usage: "每秒最多回源 Redis 的次数，所有进程共享；0 表示不限",
		},
		&cli.StringFlag{
			Name:  "mongo",
			Usage: "从该 MongoDB URI 读取资源",
		},
		&cli.StringFlag{
			Name:  "mongo-db",
			Usage: "MongoDB 数据库名",
			Value: "xresource",
		},
		&cli.StringFlag{
			Name:  "mongo-collection",
			Usage: "MongoDB 集合名，文档 _id 为 key，data 字段为内容",
			Value: "resources",
		},
		&cli.BoolFlag{
			Name:  "image",
			Usage: "按图片解码文件资源（PNG/JPEG/GIF）",
		},
		&cli.StringFlag{
			Name:  "checksum",
			Usage: "为字节资源输出摘要 md5|xxhash",
		},
		&cli.UintFlag{
			Name:  "attempts",
			Usage: "单个资源的最大加载尝试次数",
			Value: defaultAttempts,
		},
	}
}

func (a *app) getCommand() *cli.Command {
	flags := append(sourceFlags(),
		&cli.IntFlag{
			Name:    "parallel",
			Aliases: []string{"p"},
			Usage:   "并发加载数",
			Value:   1,
		},
		&cli.IntFlag{
			Name:  "repeat",
			Usage: "把 key 列表完整加载的轮数",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  "stats",
			Usage: "结束时输出缓存统计",
		},
	)
	return &cli.Command{
		Name:         "get",
		Usage:        "通过缓存加载资源",
		ArgsUsage:    "<key>...",
		Flags:        flags,
		OnUsageError: onUsageError,
		Action:       a.runGet,
	}
}

// result 是一次加载的输出行。
type result struct {
	key  string
	hit  bool
	desc string
	sum  string
	err  error
}

func (r result) write(w io.Writer) {
	if r.err != nil {
		_, _ = fmt.Fprintf(w, "%s\terror\t%v\n", r.key, r.err)
		return
	}
	state := "miss"
	if r.hit {
		state = "hit"
	}
	if r.sum != "" {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.key, state, r.desc, r.sum)
		return
	}
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.key, state, r.desc)
}

// fetcher 通过缓存加载一个 key 并生成输出行。
type fetcher func(ctx context.Context, key string) result

func (a *app) runGet(ctx context.Context, cmd *cli.Command) error {
	keys := cmd.Args().Slice()
	if len(keys) == 0 {
		return usageErrorf("get 需要至少一个 key")
	}
	parallel, repeat := cmd.Int("parallel"), cmd.Int("repeat")
	if parallel < 1 || repeat < 1 {
		return usageErrorf("--parallel 和 --repeat 必须不小于 1")
	}

	cache, _, err := a.openCache(cmd)
	if err != nil {
		return err
	}
	fetch, err := a.newFetcher(cmd, cache)
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	failed := false
	for range repeat {
		results := make([]result, len(keys))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(parallel)
		for i, key := range keys {
			g.Go(func() error {
				results[i] = fetch(gctx, key)
				return gctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, r := range results {
			r.write(out)
			failed = failed || r.err != nil
		}
	}

	if cmd.Bool("stats") {
		writeStats(out, cache.Stats())
	}
	if failed {
		return &exitError{code: 1}
	}
	return nil
}

func writeStats(w io.Writer, st xrescache.Stats) {
	_, _ = fmt.Fprintf(w, "hits=%d misses=%d loads=%d load_errors=%d type_errors=%d evictions=%d evicted=%d entries=%d hit_ratio=%.2f\n",
		st.Hits, st.Misses, st.Loads, st.LoadErrors, st.TypeErrors,
		st.Evictions, st.EvictedEntries, st.Entries, st.HitRatio())
}

// newFetcher 按来源参数组装回源链：tracing → breaker → retry → 来源。
func (a *app) newFetcher(cmd *cli.Command, cache *xrescache.Cache) (fetcher, error) {
	root, addr, uri := cmd.String("root"), cmd.String("redis"), cmd.String("mongo")
	sources := 0
	for _, s := range []string{root, addr, uri} {
		if s != "" {
			sources++
		}
	}
	if sources > 1 {
		return nil, usageErrorf("--root、--redis 与 --mongo 只能使用其一")
	}
	if (addr != "" || uri != "") && cmd.Bool("image") {
		return nil, usageErrorf("--image 只支持文件资源")
	}
	rate := cmd.Int("redis-rate")
	if rate < 0 {
		return nil, usageErrorf("--redis-rate 不能为负数")
	}
	var alg xchecksum.Algorithm
	if name := cmd.String("checksum"); name != "" {
		if cmd.Bool("image") {
			return nil, usageErrorf("--checksum 不能与 --image 同时使用")
		}
		parsed, err := xchecksum.ParseAlgorithm(name)
		if err != nil {
			return nil, usageErrorf("%v", err)
		}
		alg = parsed
	}
	attempts := cmd.Uint("attempts")
	if attempts == 0 {
		return nil, usageErrorf("--attempts 必须不小于 1")
	}

	if cmd.Bool("image") {
		load := resilient(xload.Image(xload.WithRoot(root)), "file", attempts)
		return func(ctx context.Context, key string) result {
			_, hit := cache.Info(key)
			img, err := xrescache.Get(ctx, cache, key, load)
			if err != nil {
				return result{key: key, err: err}
			}
			return result{key: key, hit: hit, desc: describeImage(img)}
		}, nil
	}

	var (
		source xrescache.LoadFunc[[]byte]
		name   = "file"
	)
	if addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		a.onClose(client)
		load, err := xload.Redis(client, cmd.String("redis-prefix"))
		if err != nil {
			return nil, err
		}
		if rate > 0 {
			load = xload.WithRateLimit(load, redis_rate.NewLimiter(client), "xresctl", redis_rate.PerSecond(rate))
		}
		source, name = load, "redis"
	} else if uri != "" {
		load, err := a.openMongo(uri, cmd.String("mongo-db"), cmd.String("mongo-collection"))
		if err != nil {
			return nil, err
		}
		source, name = load, "mongo"
	} else {
		var opts []xload.FileOption
		if root != "" {
			opts = append(opts, xload.WithRoot(root))
		}
		source = xload.File(opts...)
	}

	load := resilient(source, name, attempts)
	return func(ctx context.Context, key string) result {
		_, hit := cache.Info(key)
		data, err := xrescache.Get(ctx, cache, key, load)
		if err != nil {
			return result{key: key, err: err}
		}
		r := result{key: key, hit: hit, desc: fmt.Sprintf("%d bytes", len(data))}
		if alg != "" {
			// alg 已校验，SumBytes 不会失败
			r.sum, _ = xchecksum.SumBytes(data, alg)
		}
		return r
	}, nil
}

// openMongo 连接 MongoDB 并返回按 _id 读取集合文档的加载函数。
func (a *app) openMongo(uri, db, collection string) (xrescache.LoadFunc[[]byte], error) {
	if db == "" || collection == "" {
		return nil, usageErrorf("--mongo-db 和 --mongo-collection 不能为空")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, usageErrorf("无效的 --mongo %q: %v", uri, err)
	}
	a.onClose(closerFunc(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
		defer cancel()
		return client.Disconnect(ctx)
	}))
	return xload.Mongo(client.Database(db).Collection(collection))
}

func resilient[V any](load xrescache.LoadFunc[V], source string, attempts uint) xrescache.LoadFunc[V] {
	load = xload.WithRetry(load, xload.Attempts(attempts))
	load = xload.WithBreaker(load, gobreaker.Settings{
		Name:    source,
		Timeout: defaultBreakerTimeout,
	})
	return xload.WithTracing(load, xload.WithSpanAttributes(attribute.String("resource.source", source)))
}

func describeImage(img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
}

// isConfigLoaded 判断 ReloadConfig 是否因配置已生效而被拒绝。
func isConfigLoaded(err error) bool {
	return errors.Is(err, xrescache.ErrConfigLoaded)
}
