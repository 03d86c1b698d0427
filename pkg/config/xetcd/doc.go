// Package xetcd 把 etcd 中一个前缀下的键值作为缓存配置来源。
//
// # 键映射
//
// etcd 键按 "/" 切分后以 "." 连接，与 xconf 展平 XML 文档得到的点分路径一致：
//
//	/ResourceManager/properties/cash/size = 64
//
// 展平后得到 "ResourceManager.properties.cash.size" = "64"。空路径段被忽略。
// 前缀应以 "/" 结尾，否则 "/ResourceManager" 也会匹配 "/ResourceManagerX/..."。
//
// # 使用
//
//	client, err := xetcd.NewClient(&xetcd.Config{Endpoints: []string{"127.0.0.1:2379"}})
//	src, err := xetcd.NewSource(client, xetcd.DefaultPrefix)
//	cache, err := xrescache.New(src)
//
// Source 实现 xrescache.ConfigSource，每次 Flatten 都重新读取前缀，
// 因此 Cache.ReloadConfig 总能看到最新的键值。
//
// # 监视
//
// Watch 监听前缀下的变化，防抖后回调。etcd 关闭 watch 通道
// （压缩、leader 丢失等）时按 WithRetryDelay 的间隔重建，
// 重建后补发一次回调以覆盖断开期间的变更。
package xetcd
