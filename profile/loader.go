// Package profile 从 Store 读写用户行为画像（core.UserActivity）。
package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/toppicks/core"
)

const DefaultKeyPrefix = "user:activity"

// Loader 以 JSON 形式在 {KeyPrefix}:{userID} 下存放用户画像。
type Loader struct {
	Store     core.Store
	KeyPrefix string
}

// NewLoader 创建画像加载器，keyPrefix 为空时使用 DefaultKeyPrefix。
func NewLoader(s core.Store, keyPrefix string) *Loader {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Loader{Store: s, KeyPrefix: keyPrefix}
}

func (l *Loader) key(userID string) string {
	prefix := l.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + userID
}

// Load 读取用户画像。用户不存在或 userID 为空时返回空画像（匿名用户同样可以获得 Top Picks）。
func (l *Loader) Load(ctx context.Context, userID string) (*core.UserActivity, error) {
	if userID == "" || l.Store == nil {
		return &core.UserActivity{}, nil
	}
	data, err := l.Store.Get(ctx, l.key(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return &core.UserActivity{}, nil
		}
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}

	var ua core.UserActivity
	if err := json.Unmarshal(data, &ua); err != nil {
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput,
			fmt.Sprintf("decode profile %s: %v", userID, err))
	}
	return &ua, nil
}

// Save 写入用户画像，ttl 单位为秒（可选）。
func (l *Loader) Save(ctx context.Context, userID string, ua *core.UserActivity, ttl ...int) error {
	if userID == "" {
		return core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput, "profile: empty user id")
	}
	data, err := json.Marshal(ua)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", userID, err)
	}
	return l.Store.Set(ctx, l.key(userID), data, ttl...)
}
