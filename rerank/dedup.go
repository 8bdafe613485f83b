package rerank

import (
	"context"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
)

// Dedup 按 (title, category) 去重，保留首次出现的 item。
type Dedup struct{}

func (n *Dedup) Name() string        { return "rerank.dedup" }
func (n *Dedup) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Dedup) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	seen := make(map[core.ListingKey]bool, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		if seen[it.Key()] {
			continue
		}
		seen[it.Key()] = true
		out = append(out, it)
	}
	return out, nil
}
