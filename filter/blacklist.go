package filter

import (
	"context"

	"github.com/rushteam/toppicks/core"
)

// Blacklist 过滤掉黑名单中的 listing。
// 名单条目既可以是 listing ID，也可以是匹配 key（"category/title"，见 core.ListingKey.String）。
type Blacklist struct {
	// Entries 是内存中的黑名单
	Entries []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklist 创建一个黑名单过滤器，storeAdapter 可为 nil。
func NewBlacklist(entries []string, storeAdapter *StoreAdapter, key string) *Blacklist {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &Blacklist{
		Entries: entries,
		Store:   store,
		Key:     key,
	}
}

func (f *Blacklist) Name() string {
	return "filter.blacklist"
}

func (f *Blacklist) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Listing == nil {
		return true, nil
	}

	if matches(f.Entries, item) {
		return true, nil
	}

	if f.Store != nil && f.Key != "" {
		entries, err := f.Store.GetBlacklist(ctx, f.Key)
		if err != nil {
			if core.IsStoreNotFound(err) {
				return false, nil
			}
			return false, err
		}
		if matches(entries, item) {
			return true, nil
		}
	}

	return false, nil
}

func matches(entries []string, item *core.Item) bool {
	key := item.Listing.Key().String()
	for _, e := range entries {
		if e == "" {
			continue
		}
		if e == item.Listing.ID || e == key {
			return true
		}
	}
	return false
}
