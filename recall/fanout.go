package recall

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pipeline"
	"github.com/rushteam/toppicks/pkg/logger"
)

// Fanout 是一个 Recall Node：并发执行多个 catalog 来源，并按 Sources 顺序合并结果。
//   - 单个来源超时或失败时跳过该来源，不影响其他来源
//   - Dedup 为 true 时按 (title, category) 去重，保留先出现的来源。
//     去重发生在过滤之前：先出现的副本若随后被 eligibility 剔除，同 key 的合格副本也已丢失，
//     Top Picks 的 Pipeline 应保持 Dedup 为 false，由 rerank.dedup 在排序后去重
type Fanout struct {
	Sources       []Source
	Dedup         bool
	Timeout       time.Duration // 每个来源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示不限制）
	Logger        *zap.Logger
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}
	log := logger.OrNop(n.Logger)

	// 每个来源写入自己的槽位，合并时按来源顺序拼接，保证结果确定
	results := make([][]*core.Item, len(n.Sources))

	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		i, src := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				log.Warn("catalog source skipped", zap.String("source", src.Name()), zap.Error(err))
				return nil
			}
			results[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return n.merge(results), nil
}

func (n *Fanout) merge(results [][]*core.Item) []*core.Item {
	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]*core.Item, 0, total)
	seen := make(map[core.ListingKey]*core.Item, total)

	for _, items := range results {
		for _, it := range items {
			if it == nil {
				continue
			}
			if n.Dedup {
				if old, ok := seen[it.Key()]; ok {
					for k, v := range it.Labels {
						old.PutLabel(k, v)
					}
					continue
				}
				seen[it.Key()] = it
			}
			it.Position = len(out)
			out = append(out, it)
		}
	}
	return out
}
