package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由各 Node 自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rank / rerank / postprocess
}

// 内置 Node 写入的 label key。
const (
	LabelRecallSource = "recall_source"
	LabelRankModel    = "rank_model"
	LabelPick         = "pick"     // diversity / fallback
	LabelFiltered     = "filtered" // 被哪个过滤器剔除
)

// pick 阶段取值
const (
	PickDiversity = "diversity"
	PickFallback  = "fallback"
)

// MergeLabel 合并同名 Label，保留历史：
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
