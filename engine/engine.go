// Package engine 组装默认的 Top Picks Pipeline，并提供纯函数入口 Rank。
//
//	picks := engine.Rank(catalog, user, engine.DefaultLimit)
//
// 默认 Pipeline：
//
//	filter.eligibility → rank.activity → rerank.diversity → rerank.fallback → rerank.dedup → rerank.topn
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/toppicks/config"
	"github.com/rushteam/toppicks/config/builders"
	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/filter"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/logger"
	"github.com/rushteam/toppicks/profile"
	"github.com/rushteam/toppicks/rank"
	"github.com/rushteam/toppicks/recall"
	"github.com/rushteam/toppicks/rerank"
)

// DefaultLimit 是首页 Top Picks 的默认条数。
const DefaultLimit = 6

// DefaultNodes 返回默认 Pipeline 的 Node 链，每次调用返回新实例。
func DefaultNodes() []pipeline.Node {
	return []pipeline.Node{
		filter.EligibilityNode(filter.DefaultMinRating),
		&rank.ActivityNode{},
		&rerank.Diversity{},
		&rerank.Fallback{},
		&rerank.Dedup{},
		&rerank.TopNNode{},
	}
}

var defaultEngine = New()

// Rank 对 catalog 排序并返回至多 limit 条、(title, category) 不重复的 listing。
// 纯函数：不修改输入，相同输入得到相同输出，可并发调用。
// limit <= 0、catalog 为空或没有合格 listing 时返回空切片。
func Rank(catalog []core.Listing, user core.UserActivity, limit int) []core.Listing {
	picks, err := defaultEngine.TopPicks(context.Background(), catalog, &user, limit)
	if err != nil {
		// 默认 Node 链不会返回错误
		return []core.Listing{}
	}
	return picks
}

// Engine 持有一条可复用的 Pipeline。Engine 创建后只读，可被多个请求并发使用。
type Engine struct {
	pipeline *pipeline.Pipeline
	profiles *profile.Loader
	logger   *zap.Logger
}

type Option func(*Engine)

// WithLogger 设置日志，同时用于 Pipeline 的逐 Node 调试日志。
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithPipeline 替换默认 Pipeline。
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(e *Engine) { e.pipeline = p }
}

// WithProfiles 设置用户画像加载器，供 TopPicksForUser 使用。
func WithProfiles(l *profile.Loader) Option {
	return func(e *Engine) { e.profiles = l }
}

func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logger.OrNop(e.logger)
	if e.pipeline == nil {
		e.pipeline = &pipeline.Pipeline{Nodes: DefaultNodes()}
	}
	if e.pipeline.Logger == nil {
		e.pipeline.Logger = e.logger
	}
	return e
}

// NewFromConfig 按配置构建 Pipeline。deps 提供 Store 与日志给依赖外部资源的 Node。
func NewFromConfig(cfg *pipeline.Config, deps builders.Deps, opts ...Option) (*Engine, error) {
	if err := config.ValidatePipelineConfig(cfg); err != nil {
		return nil, core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput, err.Error())
	}
	factory := config.DefaultFactory()
	deps.Register(factory)

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		return nil, fmt.Errorf("build pipeline %s: %w", cfg.Pipeline.Name, err)
	}
	return New(append([]Option{WithPipeline(p)}, opts...)...), nil
}

// TopPicks 以 catalog 为候选集运行 Pipeline。
// 配置中的 recall Node（例如 recall.store_catalog）会替换传入的 catalog。
func (e *Engine) TopPicks(ctx context.Context, catalog []core.Listing, user *core.UserActivity, limit int) ([]core.Listing, error) {
	rctx := &core.RecommendContext{User: user, Limit: limit}
	items, err := e.Run(ctx, rctx, catalog)
	if err != nil {
		return nil, err
	}
	return core.Listings(items), nil
}

// TopPicksForUser 从画像存储加载用户行为后排序，params 透传给 postprocess 等 Node（如 category / query）。
func (e *Engine) TopPicksForUser(ctx context.Context, userID string, catalog []core.Listing, limit int, params map[string]any) ([]core.Listing, error) {
	user := &core.UserActivity{}
	if e.profiles != nil {
		var err error
		user, err = e.profiles.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
	}
	rctx := &core.RecommendContext{UserID: userID, User: user, Limit: limit, Params: params}
	items, err := e.Run(ctx, rctx, catalog)
	if err != nil {
		return nil, err
	}
	return core.Listings(items), nil
}

// Run 运行 Pipeline 并返回带分数与 labels 的 items，用于 explain / 调试。
func (e *Engine) Run(ctx context.Context, rctx *core.RecommendContext, catalog []core.Listing) ([]*core.Item, error) {
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}
	if rctx.Limit <= 0 {
		return []*core.Item{}, nil
	}

	items, err := (&recall.Catalog{Listings: catalog}).Recall(ctx, rctx)
	if err != nil {
		return nil, err
	}
	out, err := e.pipeline.Run(ctx, rctx, items)
	if err != nil {
		e.logger.Error("top picks failed", zap.String("user", rctx.UserID), zap.Error(err))
		return nil, err
	}
	e.logger.Debug("top picks",
		zap.String("user", rctx.UserID),
		zap.Int("catalog", len(catalog)),
		zap.Int("limit", rctx.Limit),
		zap.Int("picks", len(out)),
	)
	return out, nil
}
