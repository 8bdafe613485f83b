package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityModel_DefaultWeights(t *testing.T) {
	m := NewActivityModel(nil)
	tests := []struct {
		name     string
		features map[string]float64
		want     float64
	}{
		{"rating only", map[string]float64{FeatureRating: 4}, 4},
		{"purchased sofa", map[string]float64{FeaturePurchased: 1, FeatureRating: 4}, 14},
		{
			name: "all bonuses stack",
			features: map[string]float64{
				FeaturePurchased:  1,
				FeatureWishlisted: 1,
				FeatureBrowsed:    1,
				FeatureAffinity:   3,
				FeatureRating:     4.5,
				FeatureTrending:   1,
			},
			want: 10 + 8 + 5 + 6 + 4.5 + 2,
		},
		{"unknown feature ignored", map[string]float64{"price": 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Predict(tt.features)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestActivityModel_OverridesAllowNegative(t *testing.T) {
	m := NewActivityModel(map[string]float64{FeaturePurchased: -20})
	got, err := m.Predict(map[string]float64{FeaturePurchased: 1, FeatureRating: 4})
	require.NoError(t, err)
	assert.Equal(t, -16.0, got)
	assert.Equal(t, 8.0, m.Weights[FeatureWishlisted])

	// 默认表不被修改
	assert.Equal(t, 10.0, DefaultActivityWeights()[FeaturePurchased])
}

func TestLRModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lr.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bias":0,"weights":{"purchased":2}}`), 0o600))

	m, err := LoadLRModel(path)
	require.NoError(t, err)
	assert.Equal(t, "lr", m.Name())

	zero, err := m.Predict(map[string]float64{})
	require.NoError(t, err)
	assert.Equal(t, 0.5, zero)

	hi, err := m.Predict(map[string]float64{FeaturePurchased: 1})
	require.NoError(t, err)
	assert.Greater(t, hi, zero)

	_, err = LoadLRModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPredict_FixedSummationOrder(t *testing.T) {
	features := map[string]float64{
		FeaturePurchased:  1,
		FeatureWishlisted: 0,
		FeatureBrowsed:    0,
		FeatureAffinity:   0.1,
		FeatureRating:     3.42,
		FeatureTrending:   0,
	}
	w := DefaultActivityWeights()
	want := 0.0
	for _, k := range Features {
		want += w[k] * features[k]
	}

	m := NewActivityModel(nil)
	lr := &LRModel{Weights: DefaultActivityWeights()}
	wantLR, err := lr.Predict(features)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		got, err := m.Predict(features)
		require.NoError(t, err)
		require.Equal(t, want, got)

		got, err = lr.Predict(features)
		require.NoError(t, err)
		require.Equal(t, wantLR, got)
	}
}

func TestPredict_ExtraWeightsAfterBuiltins(t *testing.T) {
	m := NewActivityModel(map[string]float64{"seller_score": 0.5, "distance": -1})
	got, err := m.Predict(map[string]float64{
		FeatureRating:  4,
		"seller_score": 2,
		"distance":     3,
		"unweighted":   100,
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0+1-3, got)
}
