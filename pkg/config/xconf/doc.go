// Package xconf 提供配置文件的加载、展平和热重载，基于 koanf 实现。
//
// # 设计理念
//
// xconf 定位为最小化配置加载器：负责文件/字节数据的加载与展平，
// 不负责配置治理（必选字段校验、默认值注入），这些由使用方完成。
// 例如 xrescache.LoadConfig 直接消费 Flatten() 的结果并做校验。
//
// # 支持的格式
//
//   - YAML：.yaml, .yml
//   - JSON：.json
//   - XML：.xml。嵌套标签逐层追加 ".标签名"，叶子文本为值：
//
//	<ResourceManager><properties><cash><size>64</size></cash></properties></ResourceManager>
//
// 展平后得到 "ResourceManager.properties.cash.size" = "64"。
//
// # 并发安全
//
// 所有方法都是并发安全的。Reload 解析成功后才替换内部 koanf 实例，
// 解析失败时保留旧配置。
//
// # 配置监视
//
// Watch 基于 fsnotify 监视配置文件所在目录，内置防抖，
// 支持 vim/emacs 的原子写入。从字节数据创建的 Config 不支持监视。
package xconf
