package builders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rushteam/toppicks/config"
	"github.com/rushteam/toppicks/config/builders"
	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/filter"
	"github.com/rushteam/toppicks/model"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/rank"
	"github.com/rushteam/toppicks/recall"
	"github.com/rushteam/toppicks/rerank"
	"github.com/rushteam/toppicks/store"
)

func TestInitRegistersBuiltins(t *testing.T) {
	types := config.SupportedTypes()
	for typeName := range (builders.Deps{}).Builders() {
		assert.Contains(t, types, typeName)
	}
}

func TestValidatePipelineConfig(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "rerank.diversity"}, {Type: "rerank.topn"}}
	assert.NoError(t, config.ValidatePipelineConfig(cfg))

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, pipeline.NodeConfig{Type: "rank.deepfm"})
	assert.ErrorContains(t, config.ValidatePipelineConfig(cfg), "rank.deepfm")
}

func TestBuildActivityNode(t *testing.T) {
	n, err := builders.BuildActivityNode(map[string]any{
		"weights": map[string]any{"purchased": 20, "trending": -1.5},
		"bias":    0.5,
	})
	require.NoError(t, err)
	m := n.(*rank.ActivityNode).Model.(*model.ActivityModel)
	assert.Equal(t, 20.0, m.Weights[model.FeaturePurchased])
	assert.Equal(t, -1.5, m.Weights[model.FeatureTrending])
	assert.Equal(t, 8.0, m.Weights[model.FeatureWishlisted])
	assert.Equal(t, 0.5, m.Bias)

	n, err = builders.BuildActivityNode(map[string]any{"model": "lr"})
	require.NoError(t, err)
	assert.IsType(t, &model.LRModel{}, n.(*rank.ActivityNode).Model)

	_, err = builders.BuildActivityNode(map[string]any{"model": "xgb"})
	assert.Error(t, err)

	_, err = builders.BuildActivityNode(map[string]any{"model": "lr", "model_path": "testdata/missing.json"})
	assert.Error(t, err)
}

func TestBuildRerankNodes(t *testing.T) {
	n, err := builders.BuildDiversityNode(map[string]any{"limit": 3})
	require.NoError(t, err)
	assert.Equal(t, 3, n.(*rerank.Diversity).Limit)

	n, err = builders.BuildFallbackNode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n.(*rerank.Fallback).Limit)

	n, err = builders.BuildTopNNode(map[string]any{"n": int64(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, n.(*rerank.TopNNode).N)
}

func TestBuildExprNode(t *testing.T) {
	_, err := builders.BuildExprNode(map[string]any{})
	assert.Error(t, err)

	_, err = builders.BuildExprNode(map[string]any{"expr": "item.rating >"})
	assert.Error(t, err)

	n, err := builders.BuildExprNode(map[string]any{"expr": `item.category == "Vehicles"`})
	require.NoError(t, err)
	assert.Equal(t, pipeline.KindPostProcess, n.Kind())
}

func TestBuildFilterNode(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	require.NoError(t, s.Set(ctx, "bl", []byte(`["2"]`)))

	d := builders.Deps{Store: s, Logger: zaptest.NewLogger(t)}
	n, err := d.BuildFilterNode(map[string]any{
		"filters": []any{
			map[string]any{"type": "eligibility", "min_rating": 4.0},
			map[string]any{"type": "blacklist", "key": "bl", "entries": []any{"Vehicles/Car"}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, n.(*filter.FilterNode).Filters, 2)

	items := []*core.Item{
		core.NewListingItem(&core.Listing{ID: "1", Title: "Bike", Category: "Sporting Goods", Rating: 4.2, InStock: true}),
		core.NewListingItem(&core.Listing{ID: "2", Title: "Lamp", Category: "Home Goods", Rating: 4.6, InStock: true}),
		core.NewListingItem(&core.Listing{ID: "3", Title: "Car", Category: "Vehicles", Rating: 4.9, InStock: true}),
		core.NewListingItem(&core.Listing{ID: "4", Title: "Desk", Category: "Office Supplies", Rating: 3.9, InStock: true}),
	}
	out, err := n.Process(ctx, &core.RecommendContext{}, items)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Bike", out[0].Listing.Title)

	_, err = builders.Deps{}.BuildFilterNode(map[string]any{
		"filters": []any{map[string]any{"type": "seller_block"}},
	})
	assert.ErrorContains(t, err, "store not configured")

	_, err = d.BuildFilterNode(map[string]any{
		"filters": []any{map[string]any{"type": "bloom"}},
	})
	assert.Error(t, err)

	_, err = d.BuildFilterNode(map[string]any{})
	assert.Error(t, err)
}

func TestBuildFanoutNode(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	n, err := builders.Deps{Store: s}.BuildFanoutNode(map[string]any{
		"dedup":          false,
		"timeout_ms":     150,
		"max_concurrent": 2,
		"sources": []any{
			map[string]any{"type": "store_catalog", "key": "a", "trending_top_n": 10},
			map[string]any{"type": "store_catalog", "key": "b"},
		},
	})
	require.NoError(t, err)
	f := n.(*recall.Fanout)
	assert.False(t, f.Dedup)
	assert.Equal(t, 2, f.MaxConcurrent)
	require.Len(t, f.Sources, 2)
	assert.Equal(t, "a", f.Sources[0].(*recall.StoreCatalog).Key)
	assert.EqualValues(t, 10, f.Sources[0].(*recall.StoreCatalog).TrendingTopN)

	n, err = builders.Deps{Store: s}.BuildFanoutNode(map[string]any{
		"sources": []any{map[string]any{"type": "store_catalog"}},
	})
	require.NoError(t, err)
	assert.False(t, n.(*recall.Fanout).Dedup)

	_, err = builders.Deps{}.BuildFanoutNode(map[string]any{
		"sources": []any{map[string]any{"type": "store_catalog"}},
	})
	assert.Error(t, err)

	_, err = builders.Deps{Store: s}.BuildFanoutNode(map[string]any{
		"sources": []any{map[string]any{"type": "rpc"}},
	})
	assert.Error(t, err)
}
