// Package dsl 提供基于 CEL (Common Expression Language) 的 item 表达式求值。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/toppicks/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的布尔表达式，可被多个 goroutine 并发求值。
//
// 可用变量：
//   - item.title / item.category / item.rating / item.score / item.trending / item.in_stock / item.price / item.location
//   - item.features["affinity"] 等排序特征
//   - label.pick / label.recall_source（值为 label.Value；不存在时请先用 "pick" in label 判断）
//   - rctx.user_id / rctx.scene / rctx.limit / rctx.params
//
// 示例：
//   - `item.rating >= 4.5 && item.category != "Free Stuff"`
//   - `"pick" in label && label.pick == "diversity"`
//   - `item.title.lowerAscii().contains("sofa")`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，表达式结果必须是 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compile %q: expression must return bool, got %v", expr, t)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对单个 item 求值。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eval %q: expression must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}

// Evaluate 编译并求值一次，适合一次性校验；热路径请复用 Compile 的结果。
func Evaluate(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, rctx)
}

func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	labels := make(map[string]any, len(it.Labels))
	for k, v := range it.Labels {
		labels[k] = v.Value
	}
	features := make(map[string]any, len(it.Features))
	for k, v := range it.Features {
		features[k] = v
	}

	item := map[string]any{
		"id":       it.ID,
		"score":    it.Score,
		"features": features,
	}
	if l := it.Listing; l != nil {
		item["title"] = l.Title
		item["category"] = l.Category
		item["rating"] = l.Rating
		item["in_stock"] = l.InStock
		item["discontinued"] = l.Discontinued
		item["trending"] = l.Trending
		item["price"] = l.Price
		item["location"] = l.Location
		item["seller_id"] = l.SellerID
	}

	ctx := map[string]any{
		"user_id": "",
		"scene":   "",
		"limit":   int64(0),
		"params":  map[string]any{},
	}
	if rctx != nil {
		ctx["user_id"] = rctx.UserID
		ctx["scene"] = rctx.Scene
		ctx["limit"] = int64(rctx.Limit)
		if rctx.Params != nil {
			ctx["params"] = rctx.Params
		}
	}

	return map[string]any{
		"item":  item,
		"label": labels,
		"rctx":  ctx,
	}
}
