package rerank

import (
	"context"
	"sort"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/utils"
)

// Fallback 在 Diversity 挑不满 Limit 时补位：
// 从未入选的候选中按 热门优先、评分降序、catalog 位置升序 选取，允许同类目多条，
// 跳过与已入选 listing (title, category) 相同的候选。
//
// 输入需要是 Diversity 的输出（入选在前、带 pick label）；输出只包含入选与补位的 items。
type Fallback struct {
	Limit int
}

func (n *Fallback) Name() string {
	return "rerank.fallback"
}

func (n *Fallback) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Fallback) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := resolveLimit(n.Limit, rctx)

	picks := make([]*core.Item, 0, len(items))
	rest := make([]*core.Item, 0, len(items))
	used := make(map[core.ListingKey]bool, len(items))
	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		if isPicked(it) {
			picks = append(picks, it)
			used[it.Key()] = true
			continue
		}
		rest = append(rest, it)
	}

	need := len(rest)
	if limit > 0 {
		need = limit - len(picks)
	}
	if need <= 0 {
		return picks, nil
	}

	sort.SliceStable(rest, func(i, j int) bool {
		a, b := rest[i].Listing, rest[j].Listing
		if a.Trending != b.Trending {
			return a.Trending
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return rest[i].Position < rest[j].Position
	})

	for _, it := range rest {
		if need == 0 {
			break
		}
		if used[it.Key()] {
			continue
		}
		used[it.Key()] = true
		it.PutLabel(utils.LabelPick, utils.Label{Value: utils.PickFallback, Source: n.Name()})
		picks = append(picks, it)
		need--
	}
	return picks, nil
}
