package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LRModel 是逻辑回归打分：P = 1 / (1 + exp(-(Bias + sum(w*x))))。
// 输出是单调变换，排序结果与同权重的 ActivityModel 一致，适合需要 (0, 1) 分数做展示或阈值的场景。
type LRModel struct {
	Bias    float64
	Weights map[string]float64
}

// LoadLRModel 从 JSON 文件加载模型：{"bias": 0, "weights": {"purchased": 1.2}}
func LoadLRModel(path string) (*LRModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Bias    float64            `json:"bias"`
		Weights map[string]float64 `json:"weights"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode lr model: %w", err)
	}
	return &LRModel{Bias: raw.Bias, Weights: raw.Weights}, nil
}

func (m *LRModel) Name() string { return "lr" }

func (m *LRModel) Predict(features map[string]float64) (float64, error) {
	z := weightedSum(m.Bias, m.Weights, features)
	return 1 / (1 + math.Exp(-z)), nil
}
