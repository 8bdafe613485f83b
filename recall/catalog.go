package recall

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/utils"
)

// Catalog 把调用方提供的 listing 快照物化为 items，保持 catalog 原始顺序。
// items 引用 Listings 中的元素，不做拷贝，Node 只读。
type Catalog struct {
	Listings []core.Listing
}

func (c *Catalog) Name() string        { return "recall.catalog" }
func (c *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 忽略上游 items，直接输出 catalog。
func (c *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return c.Recall(ctx, rctx)
}

func (c *Catalog) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	return wrapListings(c.Listings, c.Name()), nil
}

func wrapListings(listings []core.Listing, source string) []*core.Item {
	out := make([]*core.Item, 0, len(listings))
	for i := range listings {
		it := core.NewListingItem(&listings[i])
		it.Position = i
		it.PutLabel(utils.LabelRecallSource, utils.Label{Value: source, Source: "recall"})
		out = append(out, it)
	}
	return out
}

const (
	DefaultCatalogKey   = "catalog:listings"
	DefaultTrendingTopN = 100
)

// StoreCatalog 从 Store 读取 catalog 快照（JSON listing 数组）。
//   - Key 不存在时返回空候选集（catalog 为空不是错误）
//   - 如果 Store 实现了 KeyValueStore 且设置了 TrendingKey，
//     有序集合中排名前 TrendingTopN 的 listing ID 会被标记为 trending
type StoreCatalog struct {
	Store core.Store
	Key   string // 默认 "catalog:listings"

	TrendingKey  string
	TrendingTopN int64 // 默认 100
}

func (s *StoreCatalog) Name() string        { return "recall.store_catalog" }
func (s *StoreCatalog) Kind() pipeline.Kind { return pipeline.KindRecall }

func (s *StoreCatalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return s.Recall(ctx, rctx)
}

func (s *StoreCatalog) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	listings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return wrapListings(listings, s.Name()), nil
}

// Load 读取并解码 catalog，每次调用都返回新的 listing 切片。
func (s *StoreCatalog) Load(ctx context.Context) ([]core.Listing, error) {
	if s.Store == nil {
		return nil, nil
	}
	key := s.Key
	if key == "" {
		key = DefaultCatalogKey
	}

	data, err := s.Store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load catalog %s: %w", key, err)
	}

	var listings []core.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput,
			fmt.Sprintf("decode catalog %s: %v", key, err))
	}

	if err := s.markTrending(ctx, listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *StoreCatalog) markTrending(ctx context.Context, listings []core.Listing) error {
	if s.TrendingKey == "" {
		return nil
	}
	kv, ok := s.Store.(core.KeyValueStore)
	if !ok {
		return nil
	}
	topN := s.TrendingTopN
	if topN <= 0 {
		topN = DefaultTrendingTopN
	}
	members, err := kv.ZRange(ctx, s.TrendingKey, 0, topN-1)
	if err != nil {
		return fmt.Errorf("load trending %s: %w", s.TrendingKey, err)
	}
	if len(members) == 0 {
		return nil
	}
	hot := make(map[string]struct{}, len(members))
	for _, m := range members {
		hot[m] = struct{}{}
	}
	for i := range listings {
		if _, ok := hot[listings[i].ID]; ok && listings[i].ID != "" {
			listings[i].Trending = true
		}
	}
	return nil
}
