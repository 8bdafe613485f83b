package recall

import (
	"context"

	"github.com/rushteam/toppicks/core"
)

// Source 表示一个可复用的 catalog 来源（内存快照 / Store 快照 / ...）。
// 可以单独作为 Node 使用，也可以交给 Fanout 并发拉取后合并。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
