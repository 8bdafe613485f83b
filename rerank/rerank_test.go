package rerank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pkg/utils"
)

func items(listings ...core.Listing) []*core.Item {
	out := make([]*core.Item, 0, len(listings))
	for i := range listings {
		it := core.NewListingItem(&listings[i])
		it.Position = i
		out = append(out, it)
	}
	return out
}

func titles(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Listing.Title)
	}
	return out
}

func pickLabel(it *core.Item) string {
	return it.Labels[utils.LabelPick].Value
}

func TestDiversity_OnePerCategory(t *testing.T) {
	in := items(
		core.Listing{Title: "Laptop", Category: "Electronics"},
		core.Listing{Title: "Phone", Category: "Electronics"},
		core.Listing{Title: "Sofa", Category: "Home Goods"},
		core.Listing{Title: "Mystery", Category: ""},
		core.Listing{Title: "Lamp", Category: "Home Goods"},
		core.Listing{Title: "Guitar", Category: "Musical Instruments"},
	)

	out, err := (&Diversity{Limit: 2}).Process(context.Background(), nil, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Sofa", "Phone", "Mystery", "Lamp", "Guitar"}, titles(out))
	assert.Equal(t, utils.PickDiversity, pickLabel(out[0]))
	assert.Equal(t, utils.PickDiversity, pickLabel(out[1]))
	for _, it := range out[2:] {
		assert.Empty(t, pickLabel(it))
	}
}

func TestDiversity_UsesContextLimitAndUnlimited(t *testing.T) {
	in := items(
		core.Listing{Title: "a", Category: "A"},
		core.Listing{Title: "b", Category: "B"},
		core.Listing{Title: "c", Category: "C"},
	)
	out, err := (&Diversity{}).Process(context.Background(), &core.RecommendContext{Limit: 1}, in)
	require.NoError(t, err)
	assert.Equal(t, utils.PickDiversity, pickLabel(out[0]))
	assert.Empty(t, pickLabel(out[1]))

	out, err = (&Diversity{}).Process(context.Background(), nil, items(
		core.Listing{Title: "a", Category: "A"},
		core.Listing{Title: "b", Category: "B"},
		core.Listing{Title: "c", Category: "C"},
	))
	require.NoError(t, err)
	for _, it := range out {
		assert.Equal(t, utils.PickDiversity, pickLabel(it))
	}
}

func TestFallback_FillsByTrendingThenRating(t *testing.T) {
	in := items(
		core.Listing{Title: "Laptop", Category: "Electronics", Rating: 4.5},
		core.Listing{Title: "Sofa", Category: "Home Goods", Rating: 4.0},
		core.Listing{Title: "Phone", Category: "Electronics", Rating: 4.9},
		core.Listing{Title: "Lamp", Category: "Home Goods", Rating: 3.6, Trending: true},
		core.Listing{Title: "TV", Category: "Electronics", Rating: 4.9},
		core.Listing{Title: "Rug", Category: "Home Goods", Rating: 3.9},
	)
	ctx := context.Background()
	rctx := &core.RecommendContext{Limit: 5}

	div, err := (&Diversity{}).Process(ctx, rctx, in)
	require.NoError(t, err)
	out, err := (&Fallback{}).Process(ctx, rctx, div)
	require.NoError(t, err)

	assert.Equal(t, []string{"Laptop", "Sofa", "Lamp", "Phone", "TV"}, titles(out))
	assert.Equal(t, utils.PickFallback, pickLabel(out[2]))
}

func TestFallback_SkipsPickedKeys(t *testing.T) {
	in := items(
		core.Listing{ID: "1", Title: "Sofa", Category: "Home Goods", Rating: 4.0},
		core.Listing{ID: "2", Title: "Sofa", Category: "Home Goods", Rating: 5.0},
		core.Listing{ID: "3", Title: "Sofa", Category: "Home Goods", Rating: 4.5},
		core.Listing{ID: "4", Title: "Sofa", Category: "Free Stuff", Rating: 3.5},
	)
	ctx := context.Background()
	rctx := &core.RecommendContext{Limit: 6}
	div, err := (&Diversity{}).Process(ctx, rctx, in)
	require.NoError(t, err)
	out, err := (&Fallback{}).Process(ctx, rctx, div)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].Listing.ID)
	assert.Equal(t, "4", out[1].Listing.ID)
}

func TestFallback_NoNeed(t *testing.T) {
	in := items(
		core.Listing{Title: "a", Category: "A"},
		core.Listing{Title: "b", Category: "B"},
		core.Listing{Title: "c", Category: "B"},
	)
	ctx := context.Background()
	rctx := &core.RecommendContext{Limit: 2}
	div, err := (&Diversity{}).Process(ctx, rctx, in)
	require.NoError(t, err)
	out, err := (&Fallback{}).Process(ctx, rctx, div)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles(out))
}

func TestDedup(t *testing.T) {
	in := items(
		core.Listing{ID: "1", Title: "Sofa", Category: "Home Goods"},
		core.Listing{ID: "2", Title: "Sofa", Category: "Home Goods"},
		core.Listing{ID: "3", Title: "Sofa", Category: "Free Stuff"},
	)
	in = append(in, nil)
	out, err := (&Dedup{}).Process(context.Background(), nil, in)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].Listing.ID)
	assert.Equal(t, "3", out[1].Listing.ID)
}

func TestTopNNode(t *testing.T) {
	in := items(core.Listing{Title: "a"}, core.Listing{Title: "b"}, core.Listing{Title: "c"})
	tests := []struct {
		name string
		n    int
		rctx *core.RecommendContext
		want int
	}{
		{"explicit n", 2, nil, 2},
		{"n larger than input", 10, nil, 3},
		{"context limit", 0, &core.RecommendContext{Limit: 1}, 1},
		{"no limit", 0, nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), tt.rctx, in)
			require.NoError(t, err)
			assert.Len(t, out, tt.want)
		})
	}
}
