package core

import "github.com/rushteam/toppicks/pkg/utils"

// Item 是推荐链路中的统一承载结构：listing 引用、分数、特征、标签。
// Score 是单次排序调用内的临时打分，不写回 Listing。
type Item struct {
	ID       string
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label

	// Listing 指向调用方的原始数据，Node 只读不写。
	Listing *Listing

	// Position 是 listing 在 catalog 中的位置，由 recall 写入，作为排序的最终 tie-break。
	Position int
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// NewListingItem 用 listing 的匹配 key 作为 ID 包装一个 Item。
func NewListingItem(l *Listing) *Item {
	it := NewItem(l.Key().String())
	it.Listing = l
	return it
}

// Key 返回 Item 所承载 listing 的去重 key；没有 listing 时返回零值。
func (it *Item) Key() ListingKey {
	if it == nil || it.Listing == nil {
		return ListingKey{}
	}
	return it.Listing.Key()
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Listings 按顺序取出 items 中的 listing，跳过空 item。
func Listings(items []*Item) []Listing {
	out := make([]Listing, 0, len(items))
	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		out = append(out, *it.Listing)
	}
	return out
}
