package xchecksum

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMemo 统计实际计算次数。
func countingMemo(t *testing.T, size int, opts ...MemoOption) (*Memo, *int) {
	t.Helper()
	m, err := NewMemo(size, opts...)
	require.NoError(t, err)
	t.Cleanup(m.Close)

	calls := 0
	m.compute = func(path string, alg Algorithm) (string, error) {
		calls++
		return Sum(path, alg)
	}
	return m, &calls
}

func TestNewMemo_Invalid(t *testing.T) {
	_, err := NewMemo(0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewMemo(1, WithTTL(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidTTL)
}

func TestMemo_Caches(t *testing.T) {
	m, calls := countingMemo(t, 8)
	path := writeFile(t, "f", "hello")

	first, err := m.Sum(path, MD5)
	require.NoError(t, err)
	second, err := m.Sum(path, MD5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, MemoStats{Hits: 1, Misses: 1}, m.Stats())
	assert.Equal(t, 1, m.Len())
}

func TestMemo_AlgorithmsCachedSeparately(t *testing.T) {
	m, calls := countingMemo(t, 8)
	path := writeFile(t, "f", "hello")

	a, err := m.Sum(path, MD5)
	require.NoError(t, err)
	b, err := m.Sum(path, XXHash)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, *calls)
}

func TestMemo_InvalidatedOnChange(t *testing.T) {
	m, calls := countingMemo(t, 8)
	path := writeFile(t, "f", "hello")

	before, err := m.Sum(path, MD5)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("hello, world"), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	after, err := m.Sum(path, MD5)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	assert.Equal(t, 2, *calls)
}

func TestMemo_Errors(t *testing.T) {
	m, _ := countingMemo(t, 8)

	_, err := m.Sum(t.TempDir(), MD5)
	assert.ErrorIs(t, err, ErrNotRegular)

	_, err = m.Sum(t.TempDir()+"/missing", MD5)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = m.Sum(writeFile(t, "f", "x"), "sha256")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestMemo_Eviction(t *testing.T) {
	m, _ := countingMemo(t, 2)
	for _, name := range []string{"a", "b", "c"} {
		_, err := m.Sum(writeFile(t, name, name), MD5)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, m.Len())
}

func TestMemo_TTLAndClose(t *testing.T) {
	m, err := NewMemo(4, WithTTL(time.Minute))
	require.NoError(t, err)

	_, err = m.Sum(writeFile(t, "f", "hello"), MD5)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	m.Close()
	m.Close()
	assert.Equal(t, 0, m.Len())

	// 关闭后仍可计算，但不缓存
	sum, err := m.Sum(writeFile(t, "g", "hello"), MD5)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", sum)
}

func TestStopCleanup_NotLRU(t *testing.T) {
	assert.False(t, stopCleanup(nil))
	assert.False(t, stopCleanup(struct{}{}))
	assert.False(t, stopCleanup(&struct{ done int }{}))
}
