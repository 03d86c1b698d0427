package xrescache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertAndGet(t *testing.T) {
	s := newStore(4)

	_, ok := s.get("missing")
	assert.False(t, ok)

	e := s.insert("a", "value-a", 1000)
	assert.Equal(t, uint(1), e.useCount)
	assert.Equal(t, int64(1000), e.lastUse)

	got, ok := s.get("a")
	require.True(t, ok)
	assert.Same(t, e, got)
	// get 本身不 touch
	assert.Equal(t, uint(1), got.useCount)
	assert.Equal(t, 1, s.len())
}

func TestStore_InsertOverwrites(t *testing.T) {
	s := newStore(4)
	first := s.insert("a", 1, 1000)
	first.touch(2000)

	second := s.insert("a", 2, 3000)
	assert.Equal(t, 1, s.len())
	assert.Equal(t, uint(1), second.useCount)
	assert.Equal(t, 2, second.value)
	assert.Greater(t, second.seq, first.seq)
}

func TestStore_Remove(t *testing.T) {
	s := newStore(4)
	s.insert("a", 1, 0)

	assert.True(t, s.remove("a"))
	assert.False(t, s.remove("a"))
	assert.Equal(t, 0, s.len())
}

func TestEntry_Touch(t *testing.T) {
	e := &entry{useCount: 1, lastUse: 1000}

	e.touch(1500)
	assert.Equal(t, uint(2), e.useCount)
	assert.Equal(t, int64(1500), e.lastUse)

	// 时钟回拨时 lastUse 不回退
	e.touch(1200)
	assert.Equal(t, uint(3), e.useCount)
	assert.Equal(t, int64(1500), e.lastUse)
}

func TestStore_AllStopsEarly(t *testing.T) {
	s := newStore(4)
	for _, k := range []string{"a", "b", "c"} {
		s.insert(k, k, 0)
	}

	n := 0
	for range s.all() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	assert.Len(t, s.infos(), 3)
}
