package model

// ActivityModel 是基于用户行为的加性打分模型：
//
//	score = Bias + sum(Weight_i * Feature_i)
//
// 默认权重表：购买 +10，心愿单 +8，浏览类目 +5，类目偏好 ×2，评分 ×1，热门 +2。
// 不做归一化，也不假设权重或分数非负。
type ActivityModel struct {
	Bias    float64
	Weights map[string]float64
}

// DefaultActivityWeights 返回默认权重表的副本。
func DefaultActivityWeights() map[string]float64 {
	return map[string]float64{
		FeaturePurchased:  10,
		FeatureWishlisted: 8,
		FeatureBrowsed:    5,
		FeatureAffinity:   2,
		FeatureRating:     1,
		FeatureTrending:   2,
	}
}

// NewActivityModel 使用默认权重创建模型；overrides 中的同名权重会覆盖默认值。
func NewActivityModel(overrides map[string]float64) *ActivityModel {
	w := DefaultActivityWeights()
	for k, v := range overrides {
		w[k] = v
	}
	return &ActivityModel{Weights: w}
}

func (m *ActivityModel) Name() string { return "activity" }

func (m *ActivityModel) Predict(features map[string]float64) (float64, error) {
	score := weightedSum(m.Bias, m.Weights, features)
	return score, nil
}
