package filter

import (
	"context"

	"github.com/rushteam/toppicks/core"
)

// SellerBlock 过滤掉当前用户拉黑的卖家发布的 listing。
type SellerBlock struct {
	Store SellerBlockStore

	// KeyPrefix 是 Store 中的 key 前缀，实际 key 为 {KeyPrefix}:{UserID}
	KeyPrefix string
}

// SellerBlockStore 是用户拉黑卖家列表的存储接口。
type SellerBlockStore interface {
	GetUserBlocks(ctx context.Context, userID string, keyPrefix string) ([]string, error)
}

// NewSellerBlock 创建一个卖家拉黑过滤器。
func NewSellerBlock(storeAdapter *StoreAdapter, keyPrefix string) *SellerBlock {
	var store SellerBlockStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &SellerBlock{
		Store:     store,
		KeyPrefix: keyPrefix,
	}
}

func (f *SellerBlock) Name() string {
	return "filter.seller_block"
}

func (f *SellerBlock) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Listing == nil || item.Listing.SellerID == "" {
		return false, nil
	}
	if rctx == nil || rctx.UserID == "" || f.Store == nil {
		return false, nil
	}

	keyPrefix := f.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "user:block"
	}

	blocked, err := f.Store.GetUserBlocks(ctx, rctx.UserID, keyPrefix)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return false, nil
		}
		return false, err
	}

	for _, sellerID := range blocked {
		if sellerID == item.Listing.SellerID {
			return true, nil
		}
	}
	return false, nil
}
