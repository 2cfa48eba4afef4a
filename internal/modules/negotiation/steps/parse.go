package steps

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	types "github.com/redlinehq/redline-backend/internal/domain"
)

// ErrUnparseableResponse marks model output that survived no parse tier.
var ErrUnparseableResponse = errors.New("model response could not be parsed")

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

type analysisPayload struct {
	ChangeIndex       *int     `json:"change_index"`
	Category          string   `json:"category"`
	RiskLevel         string   `json:"risk_level"`
	Summary           string   `json:"summary"`
	Impact            string   `json:"impact"`
	HistoricalContext string   `json:"historical_context"`
	ClauseComparison  string   `json:"clause_comparison"`
	ComplianceFlags   []string `json:"compliance_flags"`
	Recommendation    string   `json:"recommendation"`
	Reasoning         string   `json:"reasoning"`
}

type counterproposalPayload struct {
	ProposedText string   `json:"proposed_text"`
	Rationale    string   `json:"rationale"`
	Concessions  []string `json:"concessions"`
	Preserved    []string `json:"preserved"`
}

// decodeTiered runs the tiered decode: the whole response as JSON first,
// then the interior of a fenced block. A nil error means v is populated.
func decodeTiered(raw string, v any) error {
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}
	if m := fencedBlockPattern.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), v); err == nil {
			return nil
		}
	}
	return ErrUnparseableResponse
}

func parseAnalysisResponse(raw string) (*types.AnalysisResult, error) {
	var p analysisPayload
	if err := decodeTiered(raw, &p); err != nil {
		return nil, err
	}
	res, ok := normalizeAnalysis(&p)
	if !ok {
		return nil, fmt.Errorf("%w: missing summary", ErrUnparseableResponse)
	}
	return res, nil
}

// parseBatchAnalysisResponse maps a JSON-array response back to input
// positions via each element's change_index. Elements with a missing,
// duplicate, or out-of-range index are dropped; the caller back-fills
// anything left unmapped.
func parseBatchAnalysisResponse(raw string, n int) (map[int]*types.AnalysisResult, error) {
	var payloads []analysisPayload
	if err := decodeTiered(raw, &payloads); err != nil {
		return nil, err
	}
	out := make(map[int]*types.AnalysisResult, len(payloads))
	for i := range payloads {
		p := &payloads[i]
		if p.ChangeIndex == nil || *p.ChangeIndex < 0 || *p.ChangeIndex >= n {
			continue
		}
		if _, dup := out[*p.ChangeIndex]; dup {
			continue
		}
		if res, ok := normalizeAnalysis(p); ok {
			out[*p.ChangeIndex] = res
		}
	}
	return out, nil
}

func parseCounterproposalResponse(raw string) (*counterproposalPayload, error) {
	var p counterproposalPayload
	if err := decodeTiered(raw, &p); err != nil {
		return nil, err
	}
	p.ProposedText = strings.TrimSpace(p.ProposedText)
	p.Rationale = strings.TrimSpace(p.Rationale)
	if p.ProposedText == "" {
		return nil, fmt.Errorf("%w: missing proposed_text", ErrUnparseableResponse)
	}
	if p.Rationale == "" {
		return nil, fmt.Errorf("%w: missing rationale", ErrUnparseableResponse)
	}
	return &p, nil
}

// normalizeAnalysis coerces unknown enum values to safe defaults so a
// partially well-formed response is not wasted. Only a missing summary
// rejects the element.
func normalizeAnalysis(p *analysisPayload) (*types.AnalysisResult, bool) {
	summary := strings.TrimSpace(p.Summary)
	if summary == "" {
		return nil, false
	}
	return &types.AnalysisResult{
		Category:          normalizeCategory(p.Category),
		RiskLevel:         normalizeRisk(p.RiskLevel),
		Summary:           summary,
		Impact:            strings.TrimSpace(p.Impact),
		HistoricalContext: strings.TrimSpace(p.HistoricalContext),
		ClauseComparison:  strings.TrimSpace(p.ClauseComparison),
		ComplianceFlags:   p.ComplianceFlags,
		Recommendation:    normalizeRecommendation(p.Recommendation),
		Reasoning:         strings.TrimSpace(p.Reasoning),
	}, true
}

func normalizeCategory(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case types.CategoryEditorial:
		return types.CategoryEditorial
	case types.CategoryStructural:
		return types.CategoryStructural
	default:
		return types.CategorySubstantive
	}
}

func normalizeRisk(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case types.RiskLow:
		return types.RiskLow
	case types.RiskHigh:
		return types.RiskHigh
	case types.RiskCritical:
		return types.RiskCritical
	default:
		return types.RiskMedium
	}
}

func normalizeRecommendation(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case types.RecommendationAccept:
		return types.RecommendationAccept
	case types.RecommendationReject:
		return types.RecommendationReject
	case types.RecommendationCounter:
		return types.RecommendationCounter
	default:
		return types.RecommendationReview
	}
}
