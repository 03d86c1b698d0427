package xrescache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSource() MapSource {
	return MapSource{
		KeyCapacity:      "3",
		KeyMaxUses:       "10",
		KeyMinKeepTime:   "1000",
		KeyQuietOldTime:  "5000",
		KeyClearFraction: "0.5",
	}
}

type failingSource struct{ err error }

func (f failingSource) Flatten() (map[string]string, error) { return nil, f.err }

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := LoadConfig(validSource())
	require.NoError(t, err)

	assert.Equal(t, Config{
		Capacity:      3,
		MaxUses:       10,
		MinKeepTime:   time.Second,
		QuietOldTime:  5 * time.Second,
		ClearFraction: 0.5,
	}, cfg)
}

func TestLoadConfig_TrimsWhitespace(t *testing.T) {
	src := validSource()
	src[KeyCapacity] = "\n\t 8 \n"
	src[KeyClearFraction] = " 0.25 "

	cfg, err := LoadConfig(src)
	require.NoError(t, err)
	assert.Equal(t, uint(8), cfg.Capacity)
	assert.InDelta(t, 0.25, cfg.ClearFraction, 1e-9)
}

func TestLoadConfig_MissingKey(t *testing.T) {
	for _, key := range []string{KeyCapacity, KeyMaxUses, KeyMinKeepTime, KeyQuietOldTime, KeyClearFraction} {
		t.Run(key, func(t *testing.T) {
			src := validSource()
			delete(src, key)

			_, err := LoadConfig(src)
			require.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"capacity_not_int", KeyCapacity, "three"},
		{"capacity_negative", KeyCapacity, "-1"},
		{"capacity_float", KeyCapacity, "3.5"},
		{"max_uses_empty", KeyMaxUses, ""},
		{"min_keep_negative", KeyMinKeepTime, "-10"},
		{"quiet_old_garbage", KeyQuietOldTime, "5s"},
		{"fraction_not_float", KeyClearFraction, "half"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := validSource()
			src[tt.key] = tt.value

			_, err := LoadConfig(src)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestLoadConfig_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero_capacity", KeyCapacity, "0"},
		{"zero_max_uses", KeyMaxUses, "0"},
		{"zero_fraction", KeyClearFraction, "0"},
		{"fraction_above_one", KeyClearFraction, "1.5"},
		{"fraction_nan", KeyClearFraction, "NaN"},
		{"fraction_removes_nothing", KeyClearFraction, "0.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := validSource()
			src[tt.key] = tt.value

			_, err := LoadConfig(src)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestLoadConfig_SourceErrors(t *testing.T) {
	_, err := LoadConfig(nil)
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, ErrNilSource)

	boom := errors.New("boom")
	_, err = LoadConfig(failingSource{err: boom})
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, boom)
}

func TestConfig_ValidateRemovesAtLeastOne(t *testing.T) {
	tests := []struct {
		name     string
		capacity uint
		fraction float64
		ok       bool
	}{
		{"small_fraction_large_capacity", 10, 0.02, true},
		{"fraction_below_hundredth", 1000, 0.005, false},
		{"fallback_rounds_to_zero", 1, 0.05, false},
		{"same_fraction_more_capacity", 4, 0.05, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Capacity: tt.capacity, MaxUses: 1, ClearFraction: tt.fraction}
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), "removes nothing")
		})
	}
}

func TestConfig_ValidateFullFraction(t *testing.T) {
	cfg := Config{Capacity: 1, MaxUses: 1, ClearFraction: 1}
	assert.NoError(t, cfg.Validate())
}

func TestMapSource_FlattenCopies(t *testing.T) {
	src := validSource()
	flat, err := src.Flatten()
	require.NoError(t, err)

	flat[KeyCapacity] = "99"
	assert.Equal(t, "3", src[KeyCapacity])
}
