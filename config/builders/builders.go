// Package builders 注册内置 Node 的配置构建器。
package builders

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/toppicks/config"
	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/filter"
	"github.com/rushteam/toppicks/model"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/conv"
	"github.com/rushteam/toppicks/postprocess"
	"github.com/rushteam/toppicks/rank"
	"github.com/rushteam/toppicks/recall"
	"github.com/rushteam/toppicks/rerank"
)

func init() {
	d := Deps{}
	for typeName, builder := range d.Builders() {
		config.Register(typeName, builder)
	}
}

// Deps 是依赖外部资源的 Node（Store 读取、日志）构建时需要的依赖。
// 零值可用：需要 Store 的 Node 在构建时返回错误。
type Deps struct {
	Store  core.Store
	Logger *zap.Logger
}

// Builders 返回全部内置构建器，依赖 Store/Logger 的构建器绑定到 d。
func (d Deps) Builders() map[string]pipeline.NodeBuilder {
	return map[string]pipeline.NodeBuilder{
		"recall.store_catalog": d.BuildStoreCatalogNode,
		"recall.fanout":        d.BuildFanoutNode,
		"filter":               d.BuildFilterNode,
		"filter.eligibility":   BuildEligibilityNode,
		"rank.activity":        BuildActivityNode,
		"rerank.diversity":     BuildDiversityNode,
		"rerank.fallback":      BuildFallbackNode,
		"rerank.dedup":         BuildDedupNode,
		"rerank.topn":          BuildTopNNode,
		"postprocess.query":    BuildQueryNode,
		"postprocess.expr":     BuildExprNode,
	}
}

// Register 把绑定了 d 的构建器注册到 factory，覆盖同名的零依赖版本。
func (d Deps) Register(factory *pipeline.NodeFactory) {
	for typeName, builder := range d.Builders() {
		factory.Register(typeName, builder)
	}
}

func (d Deps) BuildStoreCatalogNode(cfg map[string]any) (pipeline.Node, error) {
	if d.Store == nil {
		return nil, fmt.Errorf("recall.store_catalog: store not configured")
	}
	return d.storeCatalog(cfg), nil
}

func (d Deps) storeCatalog(cfg map[string]any) *recall.StoreCatalog {
	return &recall.StoreCatalog{
		Store:        d.Store,
		Key:          conv.ConfigGet(cfg, "key", recall.DefaultCatalogKey),
		TrendingKey:  conv.ConfigGet(cfg, "trending_key", ""),
		TrendingTopN: conv.ConfigGetInt64(cfg, "trending_top_n", recall.DefaultTrendingTopN),
	}
}

func (d Deps) BuildFanoutNode(cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet(sourceMap, "type", ""); sourceType {
		case "store_catalog":
			if d.Store == nil {
				return nil, fmt.Errorf("recall.fanout: store not configured")
			}
			sources = append(sources, d.storeCatalog(sourceMap))
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources: sources,
		Dedup:   conv.ConfigGet(cfg, "dedup", false),
		Logger:  d.Logger,
	}
	if ms := conv.ConfigGetInt64(cfg, "timeout_ms", 0); ms > 0 {
		fanout.Timeout = time.Duration(ms) * time.Millisecond
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildEligibilityNode(cfg map[string]any) (pipeline.Node, error) {
	return filter.EligibilityNode(conv.ConfigGetFloat64(cfg, "min_rating", filter.DefaultMinRating)), nil
}

func (d Deps) BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	var adapter *filter.StoreAdapter
	if d.Store != nil {
		adapter = filter.NewStoreAdapter(d.Store)
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet(filterMap, "type", ""); filterType {
		case "eligibility":
			filters = append(filters, &filter.Eligibility{
				MinRating: conv.ConfigGetFloat64(filterMap, "min_rating", filter.DefaultMinRating),
			})
		case "blacklist":
			entries := conv.SliceAnyToString(filterMap["entries"])
			key := conv.ConfigGet(filterMap, "key", "")
			if key != "" && adapter == nil {
				return nil, fmt.Errorf("blacklist key %q: store not configured", key)
			}
			filters = append(filters, filter.NewBlacklist(entries, adapter, key))
		case "seller_block":
			if adapter == nil {
				return nil, fmt.Errorf("seller_block: store not configured")
			}
			filters = append(filters, filter.NewSellerBlock(adapter, conv.ConfigGet(filterMap, "key_prefix", "")))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters, Logger: d.Logger}, nil
}

func BuildActivityNode(cfg map[string]any) (pipeline.Node, error) {
	var weights map[string]float64
	if raw, ok := cfg["weights"].(map[string]any); ok {
		weights = conv.MapToFloat64(raw)
	}
	bias := conv.ConfigGetFloat64(cfg, "bias", 0)

	switch modelType := conv.ConfigGet(cfg, "model", "activity"); modelType {
	case "activity", "":
		m := model.NewActivityModel(weights)
		m.Bias = bias
		return &rank.ActivityNode{Model: m}, nil
	case "lr":
		if path := conv.ConfigGet(cfg, "model_path", ""); path != "" {
			m, err := model.LoadLRModel(path)
			if err != nil {
				return nil, err
			}
			return &rank.ActivityNode{Model: m}, nil
		}
		return &rank.ActivityNode{Model: &model.LRModel{Bias: bias, Weights: model.NewActivityModel(weights).Weights}}, nil
	default:
		return nil, fmt.Errorf("unknown rank model: %s", modelType)
	}
}

func BuildDiversityNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Diversity{Limit: int(conv.ConfigGetInt64(cfg, "limit", 0))}, nil
}

func BuildFallbackNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.Fallback{Limit: int(conv.ConfigGetInt64(cfg, "limit", 0))}, nil
}

func BuildDedupNode(map[string]any) (pipeline.Node, error) {
	return &rerank.Dedup{}, nil
}

func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildQueryNode(cfg map[string]any) (pipeline.Node, error) {
	return &postprocess.QueryFilter{
		Category: conv.ConfigGet(cfg, "category", ""),
		Keyword:  conv.ConfigGet(cfg, "keyword", ""),
	}, nil
}

func BuildExprNode(cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	return postprocess.NewExprFilter(expr)
}
