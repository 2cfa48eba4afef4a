package negotiation

import (
	"encoding/json"

	"gorm.io/datatypes"
)

const (
	RecommendationAccept  = "accept"
	RecommendationReject  = "reject"
	RecommendationCounter = "counter"
	RecommendationReview  = "review"
)

// AnalysisResult is the structured risk assessment for one change.
// The same shape is produced by the model path and the heuristic path;
// provenance is carried alongside, never inside.
type AnalysisResult struct {
	Category          string   `json:"category"`
	RiskLevel         string   `json:"risk_level"`
	Summary           string   `json:"summary"`
	Impact            string   `json:"impact"`
	HistoricalContext string   `json:"historical_context,omitempty"`
	ClauseComparison  string   `json:"clause_comparison,omitempty"`
	ComplianceFlags   []string `json:"compliance_flags,omitempty"`
	Recommendation    string   `json:"recommendation"`
	Reasoning         string   `json:"reasoning"`
}

func (a *AnalysisResult) ToJSON() datatypes.JSON {
	if a == nil {
		return nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func AnalysisFromJSON(raw datatypes.JSON) (*AnalysisResult, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out AnalysisResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
