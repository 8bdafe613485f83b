package filter

import (
	"context"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
)

// DefaultMinRating 是进入 Top Picks 的最低评分（含）。
const DefaultMinRating = 3.5

// Eligibility 剔除缺货、已下架、评分低于 MinRating 的 listing。
// 被剔除的 listing 不会出现在任何后续阶段（包括补位）。
type Eligibility struct {
	MinRating float64
}

// NewEligibility 使用默认最低评分 3.5 创建过滤器。
func NewEligibility() *Eligibility {
	return &Eligibility{MinRating: DefaultMinRating}
}

func (f *Eligibility) Name() string { return "filter.eligibility" }

// Eligible 判断单个 listing 是否可参与排序。
func (f *Eligibility) Eligible(l *core.Listing) bool {
	if l == nil {
		return false
	}
	return l.InStock && !l.Discontinued && l.Rating >= f.MinRating
}

func (f *Eligibility) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil {
		return true, nil
	}
	return !f.Eligible(item.Listing), nil
}

// EligibilityNode 是只包含 Eligibility 的 FilterNode 快捷构建。
func EligibilityNode(minRating float64) pipeline.Node {
	return &FilterNode{Filters: []Filter{&Eligibility{MinRating: minRating}}}
}
