package xrescache

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Tier 表示一轮淘汰所使用的候选层。
type Tier int

const (
	// TierStale 陈旧层：超过 QuietOldTime 未被访问的条目。
	TierStale Tier = iota + 1
	// TierHot 热数据层：MinKeepTime 内被访问过的条目。
	TierHot
	// TierFallback 兜底层：全部条目。
	TierFallback
)

// String 返回 Tier 的可读名称，用于日志和指标属性。
func (t Tier) String() string {
	switch t {
	case TierStale:
		return "stale"
	case TierHot:
		return "hot"
	case TierFallback:
		return "fallback"
	default:
		return "Tier(" + strconv.Itoa(int(t)) + ")"
	}
}

// 各层计算移除数量时的取整修正量：floor(N*f + fudge)。
// 兜底层与前两层不同，分数边界处的取整结果也随之不同，不要合并。
const (
	staleFudge    = 0.99
	hotFudge      = 0.99
	fallbackFudge = 0.90
)

// removalCount 返回 floor(n*fraction + fudge)，上限为 n。
// 这是近似向上取整，n*fraction 为整数时不会多删。
func removalCount(n int, fraction, fudge float64) int {
	return min(n, int(math.Floor(float64(n)*fraction+fudge)))
}

type candidate struct {
	key string
	e   *entry
}

// evictor 实现三层回退淘汰策略。每次调用最多执行一层，
// 按 陈旧 → 热 → 兜底 的顺序选择第一个非空候选集。
type evictor struct {
	cfg Config
}

// evict 在 store 已满（len >= Capacity）时执行一轮淘汰。
// 未满时不做任何事并返回 false。
func (v evictor) evict(s *store, now int64) (EvictEvent, bool) {
	if s.len() < int(v.cfg.Capacity) {
		return EvictEvent{}, false
	}

	staleCutoff := now - v.cfg.QuietOldTime.Milliseconds()
	if cands := collect(s, func(e *entry) bool { return e.lastUse < staleCutoff }); len(cands) > 0 {
		return v.removeLowest(s, TierStale, cands, staleFudge), true
	}

	hotCutoff := now - v.cfg.MinKeepTime.Milliseconds()
	if cands := collect(s, func(e *entry) bool { return e.lastUse > hotCutoff }); len(cands) > 0 {
		// useCount >= MaxUses 时钳制为 MaxUses；严格大于时会丢失计数。
		// 只处理本层候选，陈旧层和兜底层按原始计数排序。
		for _, c := range cands {
			if c.e.useCount >= v.cfg.MaxUses {
				c.e.useCount = v.cfg.MaxUses
			}
		}
		return v.removeLowest(s, TierHot, cands, hotFudge), true
	}

	cands := collect(s, func(*entry) bool { return true })
	return v.removeLowest(s, TierFallback, cands, fallbackFudge), true
}

// removeLowest 按 useCount 升序排序候选并移除前 n 个。
// useCount 相同时先插入的排在前面。
func (v evictor) removeLowest(s *store, tier Tier, cands []candidate, fudge float64) EvictEvent {
	slices.SortFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.e.useCount, b.e.useCount); c != 0 {
			return c
		}
		return cmp.Compare(a.e.seq, b.e.seq)
	})

	n := removalCount(len(cands), v.cfg.ClearFraction, fudge)
	keys := make([]string, 0, n)
	for _, c := range cands[:n] {
		s.remove(c.key)
		keys = append(keys, c.key)
	}

	if s.len() >= int(v.cfg.Capacity) {
		panic(fmt.Sprintf("xrescache: %s eviction left %d entries at capacity %d",
			tier, s.len(), v.cfg.Capacity))
	}

	return EvictEvent{
		Tier:       tier,
		Candidates: len(cands),
		Removed:    n,
		Keys:       keys,
	}
}

func collect(s *store, match func(*entry) bool) []candidate {
	var out []candidate
	for k, e := range s.all() {
		if match(e) {
			out = append(out, candidate{key: k, e: e})
		}
	}
	return out
}
