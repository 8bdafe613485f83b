package rerank

import (
	"context"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/utils"
)

// Diversity 按输入顺序（通常是 rank 之后的分数顺序）为每个类目挑选第一个出现的 listing，
// 直到挑满 Limit 个或候选耗尽。
//
// 输出 = 入选 items（labels["pick"]="diversity"）+ 未入选 items（保持输入顺序），
// 未入选部分留给 Fallback 补位。类目为空的 listing 不参与本阶段。
//
// Limit <= 0 时使用 rctx.Limit；两者都未设置时每个类目各取一个，不限数量。
type Diversity struct {
	Limit int
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	limit := resolveLimit(n.Limit, rctx)

	seen := make(map[string]bool, 32)
	picks := make([]*core.Item, 0, len(items))
	rest := make([]*core.Item, 0, len(items))

	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		cate := it.Listing.Category
		if cate == "" || seen[cate] || (limit > 0 && len(picks) >= limit) {
			rest = append(rest, it)
			continue
		}
		seen[cate] = true
		it.PutLabel(utils.LabelPick, utils.Label{Value: utils.PickDiversity, Source: n.Name()})
		picks = append(picks, it)
	}

	return append(picks, rest...), nil
}

func resolveLimit(limit int, rctx *core.RecommendContext) int {
	if limit > 0 {
		return limit
	}
	if rctx != nil && rctx.Limit > 0 {
		return rctx.Limit
	}
	return 0
}

func isPicked(it *core.Item) bool {
	_, ok := it.Labels[utils.LabelPick]
	return ok
}
