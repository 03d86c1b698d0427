// xresctl 是资源缓存的命令行工具。
//
// 用法:
//
//	xresctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config        缓存配置文件（.yaml/.yml/.json/.xml）
//	    --log-format    日志格式 text|json (默认: text)
//	    --log-level     日志级别 debug|info|warn|error (默认: info)
//	    --log-file      日志文件，按大小轮转；未设置时写 stderr
//	    --log-max-size  单个日志文件上限，MB (默认: 100)
//
// 命令:
//
//	get <key>...        通过缓存加载资源，逐行输出命中情况、大小和摘要
//	watch               从 stdin 逐行读取 key 加载，同时监听配置文件变化
//	config              输出解析后的缓存配置
//	checksum <path>...  计算文件摘要
//
// 退出码:
//
//	0: 成功
//	1: 执行失败（配置无效、部分资源加载失败等）
//	2: 参数错误
//
// 示例:
//
//	xresctl -c cache.xml get --root ./assets --repeat 2 --stats logo.png icon.png
//	xresctl -c cache.yaml get --redis 127.0.0.1:6379 --redis-prefix res: banner
//	xresctl -c cache.xml config --flat
//	xresctl checksum -a xxhash ./assets/*.png
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	root := a.command()
	root.Reader = stdin
	root.Writer = stdout
	root.ErrWriter = stderr

	err := root.Run(ctx, args)
	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		_, _ = fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	_, _ = fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}
