package xrescache

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// 配置键。沿用资源管理器 XML 配置文档展平后的点分路径。
const (
	KeyCapacity      = "ResourceManager.properties.cash.size"
	KeyMaxUses       = "ResourceManager.properties.cash.max_uses"
	KeyMinKeepTime   = "ResourceManager.properties.cash.min_keep_time"
	KeyQuietOldTime  = "ResourceManager.properties.cash.quite_old_time"
	KeyClearFraction = "ResourceManager.properties.cash.clear_percent"
)

// Config 定义缓存容量与淘汰阈值。
// 加载后不可变。
type Config struct {
	// Capacity 缓存最大条目数，必须大于 0。
	Capacity uint

	// MaxUses 热数据层预处理时 useCount 的钳制上限，必须 >= 1。
	MaxUses uint

	// MinKeepTime 最近访问保护窗口，毫秒精度。
	// 在此窗口内被访问过的条目属于热数据层。
	MinKeepTime time.Duration

	// QuietOldTime 冷数据判定窗口，毫秒精度。
	// 超过此时间未被访问的条目属于陈旧层。
	QuietOldTime time.Duration

	// ClearFraction 每轮淘汰移除的候选比例，取值 (0, 1]。
	ClearFraction float64
}

// ConfigSource 提供展平后的配置：点分路径 → 字符串值。
// xconf.Config 实现了此接口。
type ConfigSource interface {
	Flatten() (map[string]string, error)
}

// MapSource 是基于内存 map 的 ConfigSource。
type MapSource map[string]string

// Flatten 返回 map 的副本。
func (m MapSource) Flatten() (map[string]string, error) {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// LoadConfig 从配置来源读取五个固定键并解析为 Config。
// 任一键缺失、解析失败或取值越界时返回包装了 ErrConfig 的错误。
//
// 取值范围比 (0, 1] 更严：ClearFraction 须保证单个候选的陈旧/热淘汰
// 以及满容量的兜底淘汰至少移除一个条目，即 f >= 0.01 且 Capacity*f >= 0.1，
// 否则插入后会超出容量。
func LoadConfig(src ConfigSource) (Config, error) {
	if src == nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, ErrNilSource)
	}
	props, err := src.Flatten()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	var cfg Config
	if cfg.Capacity, err = parseUint(props, KeyCapacity); err != nil {
		return Config{}, err
	}
	if cfg.MaxUses, err = parseUint(props, KeyMaxUses); err != nil {
		return Config{}, err
	}
	minKeep, err := parseUint(props, KeyMinKeepTime)
	if err != nil {
		return Config{}, err
	}
	quietOld, err := parseUint(props, KeyQuietOldTime)
	if err != nil {
		return Config{}, err
	}
	cfg.MinKeepTime = time.Duration(minKeep) * time.Millisecond
	cfg.QuietOldTime = time.Duration(quietOld) * time.Millisecond

	raw, ok := props[KeyClearFraction]
	if !ok {
		return Config{}, fmt.Errorf("%w: missing key %s", ErrConfig, KeyClearFraction)
	}
	if cfg.ClearFraction, err = strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
		return Config{}, fmt.Errorf("%w: key %s: %w", ErrConfig, KeyClearFraction, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查配置取值范围。
//
// 除基本范围外，还要求单个陈旧/热候选以及满容量兜底淘汰至少移除一个条目，
// 否则插入新条目后会突破容量上限。
func (c Config) Validate() error {
	if c.Capacity == 0 {
		return fmt.Errorf("%w: capacity must be greater than 0", ErrConfig)
	}
	if c.MaxUses == 0 {
		return fmt.Errorf("%w: max uses must be at least 1", ErrConfig)
	}
	if c.MinKeepTime < 0 || c.QuietOldTime < 0 {
		return fmt.Errorf("%w: time windows must not be negative", ErrConfig)
	}
	if math.IsNaN(c.ClearFraction) || c.ClearFraction <= 0 || c.ClearFraction > 1 {
		return fmt.Errorf("%w: clear fraction %v out of range (0, 1]", ErrConfig, c.ClearFraction)
	}
	if removalCount(1, c.ClearFraction, staleFudge) < 1 ||
		removalCount(int(c.Capacity), c.ClearFraction, fallbackFudge) < 1 {
		return fmt.Errorf("%w: clear fraction %v removes nothing at capacity %d",
			ErrConfig, c.ClearFraction, c.Capacity)
	}
	return nil
}

func parseUint(props map[string]string, key string) (uint, error) {
	raw, ok := props[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing key %s", ErrConfig, key)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: key %s: %w", ErrConfig, key, err)
	}
	return uint(v), nil
}
