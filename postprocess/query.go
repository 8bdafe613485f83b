// Package postprocess 提供调用方在排序之后应用的过滤：类目、搜索关键词与 CEL 表达式。
// 这些过滤发生在 Top Picks 截断之后，结果可能少于 limit。
package postprocess

import (
	"context"
	"strings"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
)

// Params 中约定的请求参数 key。
const (
	ParamCategory = "category"
	ParamQuery    = "query"
)

// QueryFilter 保留类目等于 Category 且标题包含 Keyword（不区分大小写）的 item。
// 字段为空时从 rctx.Params 读取；仍为空的条件不生效。
type QueryFilter struct {
	Category string
	Keyword  string
}

func (n *QueryFilter) Name() string        { return "postprocess.query" }
func (n *QueryFilter) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *QueryFilter) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	category := n.Category
	if category == "" {
		category = param(rctx, ParamCategory)
	}
	keyword := n.Keyword
	if keyword == "" {
		keyword = param(rctx, ParamQuery)
	}
	if category == "" && keyword == "" {
		return items, nil
	}
	keyword = strings.ToLower(keyword)

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		if category != "" && it.Listing.Category != category {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(it.Listing.Title), keyword) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func param(rctx *core.RecommendContext, key string) string {
	if rctx == nil || rctx.Params == nil {
		return ""
	}
	s, _ := rctx.Params[key].(string)
	return s
}

// DefaultSuggestions 是搜索联想默认返回的条数。
const DefaultSuggestions = 5

// Suggest 按 catalog 顺序返回标题包含 query（不区分大小写）的前 n 个标题，用于搜索联想。
// query 为空时返回 nil；n <= 0 时使用 DefaultSuggestions。
func Suggest(catalog []core.Listing, query string, n int) []string {
	if query == "" {
		return nil
	}
	if n <= 0 {
		n = DefaultSuggestions
	}
	q := strings.ToLower(query)
	out := make([]string, 0, n)
	for i := range catalog {
		if len(out) == n {
			break
		}
		if strings.Contains(strings.ToLower(catalog[i].Title), q) {
			out = append(out, catalog[i].Title)
		}
	}
	return out
}
