package filter

import (
	"context"

	"go.uber.org/zap"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/logger"
	"github.com/rushteam/toppicks/pkg/utils"
)

// FilterNode 组合多个过滤器，任何一个过滤器返回 true 该 item 即被剔除。
// 过滤器出错时视为不过滤并记录日志，不中断流程。
type FilterNode struct {
	Filters []Filter
	Logger  *zap.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}
	log := logger.OrNop(n.Logger)

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil || item.Listing == nil {
			continue
		}

		reason := ""
		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, item)
			if err != nil {
				log.Warn("filter error ignored", zap.String("filter", f.Name()), zap.String("item", item.ID), zap.Error(err))
				continue
			}
			if ok {
				reason = f.Name()
				break
			}
		}

		if reason != "" {
			item.PutLabel(utils.LabelFiltered, utils.Label{Value: "true", Source: reason})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
