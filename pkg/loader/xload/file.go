package xload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"os"

	// 注册图片解码器
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

type fileOptions struct {
	root string
}

// FileOption 配置文件回源。
type FileOption func(*fileOptions)

// WithRoot 限定 key 为 root 目录下的相对路径，越出 root 的 key 会被拒绝。
// 未设置时 key 按普通文件路径解析。
func WithRoot(dir string) FileOption {
	return func(o *fileOptions) {
		o.root = dir
	}
}

// File 返回按 key 读取文件全部内容的回源函数。
func File(opts ...FileOption) xrescache.LoadFunc[[]byte] {
	o := applyFileOptions(opts)
	return func(_ context.Context, key string) ([]byte, error) {
		return o.read(key)
	}
}

// Image 返回按 key 读取并解码图片的回源函数，支持 PNG、JPEG 和 GIF。
func Image(opts ...FileOption) xrescache.LoadFunc[image.Image] {
	o := applyFileOptions(opts)
	return func(_ context.Context, key string) (image.Image, error) {
		data, err := o.read(key)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecode, key, err)
		}
		return img, nil
	}
}

func applyFileOptions(opts []FileOption) *fileOptions {
	o := &fileOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *fileOptions) read(key string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if o.root == "" {
		data, err = os.ReadFile(key)
	} else {
		data, err = readInRoot(o.root, key)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, key, err)
	}
	if err != nil {
		return nil, fmt.Errorf("xload: read %s: %w", key, err)
	}
	return data, nil
}

func readInRoot(root, name string) ([]byte, error) {
	f, err := os.OpenInRoot(root, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
