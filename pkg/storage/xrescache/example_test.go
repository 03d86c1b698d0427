package xrescache_test

import (
	"context"
	"fmt"
	"image"

	"github.com/omeyang/xresource/pkg/storage/xrescache"
)

func ExampleCache_Get() {
	cache, err := xrescache.New(xrescache.MapSource{
		xrescache.KeyCapacity:      "2",
		xrescache.KeyMaxUses:       "10",
		xrescache.KeyMinKeepTime:   "1000",
		xrescache.KeyQuietOldTime:  "60000",
		xrescache.KeyClearFraction: "0.5",
	}, xrescache.WithSink(xrescache.NoopSink{}))
	if err != nil {
		fmt.Println("new:", err)
		return
	}

	load := func(_ context.Context, key string) (any, error) {
		return "content of " + key, nil
	}

	v, err := cache.Get(context.Background(), "readme.txt", load)
	if err != nil {
		fmt.Println("get:", err)
		return
	}
	fmt.Println(v)
	fmt.Println(cache.Len())

	// Output:
	// content of readme.txt
	// 1
}

func ExampleGet() {
	cache, _ := xrescache.NewWithConfig(xrescache.Config{
		Capacity:      8,
		MaxUses:       100,
		ClearFraction: 0.25,
	}, xrescache.WithSink(xrescache.NoopSink{}))

	img, err := xrescache.Get(context.Background(), cache, "tile",
		func(context.Context, string) (image.Image, error) {
			return image.NewRGBA(image.Rect(0, 0, 16, 16)), nil
		})
	if err != nil {
		fmt.Println("get:", err)
		return
	}
	fmt.Println(img.Bounds().Dx())

	_, err = xrescache.Lookup[string](context.Background(), cache, "tile")
	fmt.Println(err)

	// Output:
	// 16
	// xrescache: key "tile" holds *image.RGBA, want string
}
