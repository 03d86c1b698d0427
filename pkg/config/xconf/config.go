package xconf

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	// FormatYAML YAML 格式。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"

	// FormatXML XML 格式。每层嵌套标签追加 ".标签名"，叶子文本为值，属性忽略。
	FormatXML Format = "xml"
)

// Config 定义配置接口。
type Config interface {
	// Flatten 返回展平后的配置：点分路径 → 字符串值。
	// 满足 xrescache.ConfigSource，可直接作为缓存的配置来源。
	Flatten() (map[string]string, error)

	// Reload 重新加载配置文件。
	// 仅对从文件创建的 Config 有效，从字节数据创建的 Config 调用会返回错误。
	Reload() error

	// Path 返回配置文件路径。从字节数据创建的 Config 返回空字符串。
	Path() string

	// Format 返回配置格式。
	Format() Format
}
