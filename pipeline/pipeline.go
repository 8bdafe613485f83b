package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/toppicks/core"
	"github.com/rushteam/toppicks/pkg/logger"
)

// Pipeline 把排序逻辑拆成可组合的 Node 链，按顺序执行。
// Pipeline 本身无状态，可被多个请求并发复用。
type Pipeline struct {
	Nodes  []Node
	Logger *zap.Logger
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	log := logger.OrNop(p.Logger)
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			log.Warn("node failed",
				zap.String("node", node.Name()),
				zap.String("kind", string(node.Kind())),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		log.Debug("node done",
			zap.String("node", node.Name()),
			zap.String("kind", string(node.Kind())),
			zap.Int("in", len(cur)),
			zap.Int("out", len(next)),
			zap.Duration("took", time.Since(start)),
		)
		cur = next
	}
	return cur, nil
}
