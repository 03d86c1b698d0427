package xrescache

import "time"

// Clock 提供当前时间，测试中可替换为可控时钟。
type Clock interface {
	Now() time.Time
}

// SystemClock 使用 time.Now。
type SystemClock struct{}

// Now 返回当前系统时间。
func (SystemClock) Now() time.Time { return time.Now() }
