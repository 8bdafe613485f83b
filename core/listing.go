package core

// Listing 是市场中的一条在售商品，对排序引擎只读。
// Title + Category 组合是匹配 key（不保证唯一，也不是主键）。
// Price / Image / Location / Time / Description / Email 是透传载荷，引擎不解读。
type Listing struct {
	ID           string  `json:"id,omitempty" yaml:"id,omitempty"`
	SellerID     string  `json:"sellerId,omitempty" yaml:"sellerId,omitempty"`
	Title        string  `json:"title" yaml:"title"`
	Category     string  `json:"category" yaml:"category"`
	Rating       float64 `json:"rating" yaml:"rating"`
	InStock      bool    `json:"inStock" yaml:"inStock"`
	Discontinued bool    `json:"discontinued,omitempty" yaml:"discontinued,omitempty"`
	Trending     bool    `json:"trending,omitempty" yaml:"trending,omitempty"`

	Price       string `json:"price,omitempty" yaml:"price,omitempty"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	Time        string `json:"time,omitempty" yaml:"time,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
}

// ListingKey 是 (title, category) 匹配 key，用于去重。
type ListingKey struct {
	Title    string
	Category string
}

func (k ListingKey) String() string {
	return k.Category + "/" + k.Title
}

// Key 返回 listing 的去重 key。
func (l *Listing) Key() ListingKey {
	return ListingKey{Title: l.Title, Category: l.Category}
}

// UserActivity 是用户行为画像，由调用方每次请求时提供。
// 三个 slice 按集合语义使用；CategoryAffinity 缺失的类目权重视为 0。
type UserActivity struct {
	PurchaseHistory    []string           `json:"purchaseHistory" yaml:"purchaseHistory"`
	BrowsingCategories []string           `json:"browsingCategories" yaml:"browsingCategories"`
	Wishlist           []string           `json:"wishlist" yaml:"wishlist"`
	CategoryAffinity   map[string]float64 `json:"categoryAffinity" yaml:"categoryAffinity"`
}

// Purchased 判断用户是否购买过该标题。
func (u *UserActivity) Purchased(title string) bool {
	return u != nil && contains(u.PurchaseHistory, title)
}

// Wishlisted 判断标题是否在心愿单中。
func (u *UserActivity) Wishlisted(title string) bool {
	return u != nil && contains(u.Wishlist, title)
}

// Browsed 判断用户是否浏览过该类目。
func (u *UserActivity) Browsed(category string) bool {
	return u != nil && contains(u.BrowsingCategories, category)
}

// Affinity 返回类目偏好权重，未知类目返回 0。
func (u *UserActivity) Affinity(category string) float64 {
	if u == nil || u.CategoryAffinity == nil {
		return 0
	}
	return u.CategoryAffinity[category]
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
