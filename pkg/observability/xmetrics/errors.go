package xmetrics

import "errors"

var (
	// ErrCreateInstrument 表示创建 OTel 指标失败。
	ErrCreateInstrument = errors.New("xmetrics: create instrument failed")
	// ErrRegisterCallback 表示注册 Observable 回调失败。
	ErrRegisterCallback = errors.New("xmetrics: register callback failed")
	// ErrNilStats 表示传入了 nil 的统计源。
	ErrNilStats = errors.New("xmetrics: nil stats source")
)
