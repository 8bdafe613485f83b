// Package toppicks 为二手市场首页计算 "Top Picks"：按用户行为打分、保证类目多样、去重并限定条数。
//
// 设计要点：
// - Pipeline-first: 排序逻辑由 Node 串联（Recall → Filter → Rank → ReRank → PostProcess）
// - Labels-first: 每个 item 带 labels（召回来源、打分模型、入选阶段），便于 explain
// - 纯函数入口: Rank 不修改输入、结果确定，可并发调用
package toppicks

import (
	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/engine"
	"github.com/rushteam/toppicks/pipeline"
)

// 轻量 facade：便于直接 import "toppicks" 使用核心抽象。
type (
	Listing      = core.Listing
	UserActivity = core.UserActivity
	Pipeline     = pipeline.Pipeline
	Node         = pipeline.Node
	Kind         = pipeline.Kind
)

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess

	DefaultLimit = engine.DefaultLimit
)

// Rank 见 engine.Rank。
func Rank(catalog []Listing, user UserActivity, limit int) []Listing {
	return engine.Rank(catalog, user, limit)
}
