package core

import "context"

// Store 是存储的领域接口，由 store 包实现（MemoryStore / RedisStore）。
//
// 使用场景：
//   - catalog 快照：recall.StoreCatalog 读取 JSON listing 数组
//   - 用户画像：profile.Loader 读取 UserActivity JSON
//   - 黑名单：filter.Blacklist 读取 JSON ID 列表
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl 单位为秒
	Set(ctx context.Context, key string, value []byte, ttl ...int) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// BatchGet 批量读取，不存在的 key 不出现在结果中
	BatchGet(ctx context.Context, keys []string) (map[string][]byte, error)

	// BatchSet 批量写入
	BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error

	// Close 关闭连接/释放资源
	Close() error
}

// KeyValueStore 是 Store 的扩展接口。
//   - 有序集合：热门 listing 排行（recall.StoreCatalog 的 trending 标记）
//   - 哈希表：按 listing ID 存放单条数据
type KeyValueStore interface {
	Store

	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZRange 按分数降序获取成员
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	ZScore(ctx context.Context, key string, member string) (float64, error)

	HGet(ctx context.Context, key, field string) ([]byte, error)
	HSet(ctx context.Context, key, field string, value []byte) error
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
}

// ErrStoreNotFound 表示 key 不存在
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 检查错误是否为 store 模块的 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}
