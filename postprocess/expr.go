package postprocess

import (
	"context"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/dsl"
)

// ExprFilter 保留 CEL 表达式为 true 的 item，表达式语法见 dsl.Program。
type ExprFilter struct {
	Program *dsl.Program
}

// NewExprFilter 编译表达式并创建过滤 Node。
func NewExprFilter(expr string) (*ExprFilter, error) {
	p, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{Program: p}, nil
}

func (n *ExprFilter) Name() string        { return "postprocess.expr" }
func (n *ExprFilter) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *ExprFilter) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Program == nil {
		return items, nil
	}
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		keep, err := n.Program.Eval(it, rctx)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, it)
		}
	}
	return out, nil
}
