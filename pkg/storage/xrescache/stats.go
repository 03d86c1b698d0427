package xrescache

import "sync/atomic"

// Stats 是缓存统计快照。
type Stats struct {
	// Hits 命中次数。
	Hits uint64

	// Misses 未命中次数（含随后回源失败的）。
	Misses uint64

	// Loads 成功回源次数。
	Loads uint64

	// LoadErrors 回源失败次数。
	LoadErrors uint64

	// TypeErrors 类型不匹配次数。
	TypeErrors uint64

	// Evictions 淘汰轮数。
	Evictions uint64

	// EvictedEntries 被淘汰的条目总数。
	EvictedEntries uint64

	// Entries 当前条目数。
	Entries int
}

// HitRatio 返回命中率 (0.0 - 1.0)，无访问时为 0。
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type counters struct {
	hits           atomic.Uint64
	misses         atomic.Uint64
	loads          atomic.Uint64
	loadErrors     atomic.Uint64
	typeErrors     atomic.Uint64
	evictions      atomic.Uint64
	evictedEntries atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:           c.hits.Load(),
		Misses:         c.misses.Load(),
		Loads:          c.loads.Load(),
		LoadErrors:     c.loadErrors.Load(),
		TypeErrors:     c.typeErrors.Load(),
		Evictions:      c.evictions.Load(),
		EvictedEntries: c.evictedEntries.Load(),
	}
}
