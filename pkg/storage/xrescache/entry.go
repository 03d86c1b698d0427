package xrescache

import "time"

// entry 是缓存条目：值加使用元数据。只归 store 所有，不对外暴露。
type entry struct {
	value    any
	lastUse  int64 // epoch 毫秒
	useCount uint
	seq      uint64 // 插入序号，用于同 useCount 条目的排序
}

// touch 记录一次成功读取。lastUse 不回退。
func (e *entry) touch(now int64) {
	e.useCount++
	if now > e.lastUse {
		e.lastUse = now
	}
}

// EntryInfo 是条目元数据的只读快照。
type EntryInfo struct {
	Key      string
	UseCount uint
	LastUse  time.Time
}

func (e *entry) info(key string) EntryInfo {
	return EntryInfo{
		Key:      key,
		UseCount: e.useCount,
		LastUse:  time.UnixMilli(e.lastUse),
	}
}
