package recall

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pkg/utils"
	"github.com/rushteam/toppicks/store"
)

func sampleListings() []core.Listing {
	return []core.Listing{
		{ID: "1", Title: "Modern Sofa", Category: "Home Goods", Rating: 4.2, InStock: true},
		{ID: "2", Title: "Acoustic Guitar", Category: "Musical Instruments", Rating: 4.8, InStock: true},
		{ID: "3", Title: "Laptop", Category: "Electronics", Rating: 4.5, InStock: true},
	}
}

func titles(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Listing.Title)
	}
	return out
}

func TestCatalog_RecallKeepsOrderAndReferences(t *testing.T) {
	listings := sampleListings()
	c := &Catalog{Listings: listings}

	items, err := c.Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Modern Sofa", "Acoustic Guitar", "Laptop"}, titles(items))
	assert.Same(t, &listings[1], items[1].Listing)
	assert.Equal(t, "Musical Instruments/Acoustic Guitar", items[1].ID)
	assert.Equal(t, "recall.catalog", items[0].Labels[utils.LabelRecallSource].Value)
}

func TestCatalog_Empty(t *testing.T) {
	items, err := (&Catalog{}).Recall(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStoreCatalog_Load(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()

	data, err := json.Marshal(sampleListings())
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, DefaultCatalogKey, data))
	require.NoError(t, s.ZAdd(ctx, "trending:listings", 10, "3"))
	require.NoError(t, s.ZAdd(ctx, "trending:listings", 1, "2"))

	sc := &StoreCatalog{Store: s, TrendingKey: "trending:listings", TrendingTopN: 1}
	items, err := sc.Recall(ctx, &core.RecommendContext{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.False(t, items[0].Listing.Trending)
	assert.False(t, items[1].Listing.Trending)
	assert.True(t, items[2].Listing.Trending)
}

func TestStoreCatalog_MissingKeyIsEmpty(t *testing.T) {
	s := store.NewMemoryStore()
	defer s.Close()

	items, err := (&StoreCatalog{Store: s}).Recall(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = (&StoreCatalog{}).Recall(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStoreCatalog_BadPayload(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	defer s.Close()
	require.NoError(t, s.Set(ctx, "catalog", []byte(`{"not":"an array"}`)))

	_, err := (&StoreCatalog{Store: s, Key: "catalog"}).Load(ctx)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

type stubSource struct {
	name  string
	items []core.Listing
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return wrapListings(s.items, s.name), nil
}

func TestFanout_MergesInSourceOrder(t *testing.T) {
	all := sampleListings()
	f := &Fanout{
		Sources: []Source{
			&stubSource{name: "slow", items: all[:1], delay: 20 * time.Millisecond},
			&stubSource{name: "fast", items: all[1:]},
		},
		Logger: zaptest.NewLogger(t),
	}

	items, err := f.Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Modern Sofa", "Acoustic Guitar", "Laptop"}, titles(items))
}

func TestFanout_DedupByKey(t *testing.T) {
	all := sampleListings()
	dup := []core.Listing{all[2], all[0]}

	f := &Fanout{
		Sources: []Source{
			&stubSource{name: "a", items: all},
			&stubSource{name: "b", items: dup},
		},
		Dedup:         true,
		MaxConcurrent: 1,
	}
	items, err := f.Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, "a|b", items[2].Labels[utils.LabelRecallSource].Value)

	f.Dedup = false
	items, err = f.Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestFanout_SkipsFailingAndSlowSources(t *testing.T) {
	all := sampleListings()
	f := &Fanout{
		Sources: []Source{
			&stubSource{name: "broken", err: errors.New("redis down")},
			&stubSource{name: "slow", items: all[:1], delay: time.Second},
			&stubSource{name: "ok", items: all[1:2]},
		},
		Timeout: 10 * time.Millisecond,
		Logger:  zaptest.NewLogger(t),
	}
	items, err := f.Process(context.Background(), &core.RecommendContext{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acoustic Guitar"}, titles(items))
}

func TestFanout_NoSources(t *testing.T) {
	items, err := (&Fanout{}).Process(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, items)
}
