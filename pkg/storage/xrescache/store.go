package xrescache

import "iter"

// store 是 key → entry 映射，拥有全部条目。
// 自身不加锁，由 Cache 的互斥锁保护。
type store struct {
	items   map[string]*entry
	nextSeq uint64
}

func newStore(capacity uint) *store {
	return &store{items: make(map[string]*entry, capacity)}
}

// get 查找条目，不产生副作用；命中后由调用方决定是否 touch。
func (s *store) get(key string) (*entry, bool) {
	e, ok := s.items[key]
	return e, ok
}

// insert 以 useCount = 1 创建新条目，覆盖同名旧条目。
func (s *store) insert(key string, value any, now int64) *entry {
	s.nextSeq++
	e := &entry{
		value:    value,
		lastUse:  now,
		useCount: 1,
		seq:      s.nextSeq,
	}
	s.items[key] = e
	return e
}

func (s *store) remove(key string) bool {
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	return true
}

func (s *store) len() int {
	return len(s.items)
}

// all 惰性遍历所有条目。遍历期间不得修改 store。
func (s *store) all() iter.Seq2[string, *entry] {
	return func(yield func(string, *entry) bool) {
		for k, e := range s.items {
			if !yield(k, e) {
				return
			}
		}
	}
}

// infos 返回全部条目元数据快照。
func (s *store) infos() []EntryInfo {
	out := make([]EntryInfo, 0, len(s.items))
	for k, e := range s.all() {
		out = append(out, e.info(k))
	}
	return out
}
