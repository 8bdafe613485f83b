// Package store 提供 core.Store / core.KeyValueStore 的实现。
//
// 接口定义在 core 包，这里只包含实现：
//
//	var s core.Store = store.NewMemoryStore()
//	kv, err := store.NewRedisStore("localhost:6379", 0)
package store

import "github.com/rushteam/toppicks/core"

var (
	_ core.KeyValueStore = (*MemoryStore)(nil)
	_ core.KeyValueStore = (*RedisStore)(nil)
)
