package rerank

import (
	"context"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
)

// TopNNode 截取前 N 个 item，通常放在 Pipeline 的重排之后。
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ActivityNode{},
//	        &rerank.Diversity{},
//	        &rerank.Fallback{},
//	        &rerank.Dedup{},
//	        &rerank.TopNNode{N: 6},
//	    },
//	}
type TopNNode struct {
	// N <= 0 时使用 rctx.Limit；两者都未设置时不截断。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := resolveLimit(n.N, rctx)
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
