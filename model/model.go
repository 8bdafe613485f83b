package model

import "sort"

// RankModel 是排序阶段的最小抽象：输入特征，输出一个可比较的分数。
type RankModel interface {
	Name() string
	Predict(features map[string]float64) (float64, error)
}

// 排序特征名，由 rank.ActivityNode 从用户行为与 listing 中抽取。
// 布尔特征取值 0/1。
const (
	FeaturePurchased  = "purchased"  // 标题在购买历史中
	FeatureWishlisted = "wishlisted" // 标题在心愿单中
	FeatureBrowsed    = "browsed"    // 类目在浏览历史中
	FeatureAffinity   = "affinity"   // 类目偏好权重，缺失为 0
	FeatureRating     = "rating"     // listing 评分
	FeatureTrending   = "trending"   // 是否热门
)

// Features 是打分时的求和顺序。浮点加法不满足结合律，固定顺序才能保证同一输入得到同一分数。
var Features = []string{
	FeaturePurchased,
	FeatureWishlisted,
	FeatureBrowsed,
	FeatureAffinity,
	FeatureRating,
	FeatureTrending,
}

// weightedSum 计算 bias + sum(w*x)：先按 Features 顺序，再按 key 字典序累加其余带权重的特征。
func weightedSum(bias float64, weights, features map[string]float64) float64 {
	sum := bias
	known := make(map[string]bool, len(Features))
	for _, k := range Features {
		known[k] = true
		if w, ok := weights[k]; ok {
			sum += w * features[k]
		}
	}
	extra := make([]string, 0, len(weights))
	for k := range weights {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		if v, ok := features[k]; ok {
			sum += weights[k] * v
		}
	}
	return sum
}
