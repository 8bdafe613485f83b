package rank

import (
	"context"
	"sort"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/model"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/utils"
)

// ActivityNode 根据用户行为为每个 item 抽取特征、打分并排序。
//   - 写入 item.Features / item.Score / labels["rank_model"]
//   - 按 Score 降序、Rating 降序稳定排序，完全相同时保持输入（catalog）顺序
//
// Model 为空时使用默认权重的 ActivityModel。
type ActivityNode struct {
	Model model.RankModel
}

func (n *ActivityNode) Name() string        { return "rank.activity" }
func (n *ActivityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ActivityNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	m := n.Model
	if m == nil {
		m = model.NewActivityModel(nil)
	}
	user := rctx.Activity()

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		ExtractFeatures(it, user)
		score, err := m.Predict(it.Features)
		if err != nil {
			return nil, err
		}
		it.Score = score
		it.PutLabel(utils.LabelRankModel, utils.Label{Value: m.Name(), Source: "rank"})
		out = append(out, it)
	}

	SortByScore(out)
	return out, nil
}

// ExtractFeatures 把用户行为与 listing 属性写入 item.Features。
func ExtractFeatures(it *core.Item, user *core.UserActivity) {
	if it.Features == nil {
		it.Features = make(map[string]float64, 6)
	}
	l := it.Listing
	it.Features[model.FeaturePurchased] = boolFeature(user.Purchased(l.Title))
	it.Features[model.FeatureWishlisted] = boolFeature(user.Wishlisted(l.Title))
	it.Features[model.FeatureBrowsed] = boolFeature(user.Browsed(l.Category))
	it.Features[model.FeatureAffinity] = user.Affinity(l.Category)
	it.Features[model.FeatureRating] = l.Rating
	it.Features[model.FeatureTrending] = boolFeature(l.Trending)
}

// SortByScore 按 Score 降序、Rating 降序、catalog 位置升序稳定排序。
func SortByScore(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if items[i].Listing.Rating != items[j].Listing.Rating {
			return items[i].Listing.Rating > items[j].Listing.Rating
		}
		return items[i].Position < items[j].Position
	})
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
