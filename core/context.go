package core

// RecommendContext 承载用户/场景/请求参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Scene  string

	// User 是本次请求的用户行为画像；为空时所有个性化加分为 0。
	User *UserActivity

	// Limit 是本次请求期望返回的条数（Top Picks 数量）。
	Limit int

	// Params 请求级上下文参数，例如 category / query 等调用方过滤条件。
	Params map[string]any
}

// Activity 返回用户行为画像，未设置时返回空画像（非 nil）。
func (rctx *RecommendContext) Activity() *UserActivity {
	if rctx == nil || rctx.User == nil {
		return &UserActivity{}
	}
	return rctx.User
}
