package steps

import (
	"errors"
	"reflect"
	"testing"

	types "github.com/redlinehq/redline-backend/internal/domain"
)

const validAnalysisJSON = `{
	"category": "substantive",
	"risk_level": "high",
	"summary": "Raises the liability cap.",
	"impact": "Exposure grows from 1x to 3x fees.",
	"compliance_flags": ["liability-cap"],
	"recommendation": "counter",
	"reasoning": "The cap increase exceeds policy."
}`

func TestParseAnalysisDirectAndFenced(t *testing.T) {
	direct, err := parseAnalysisResponse(validAnalysisJSON)
	if err != nil {
		t.Fatalf("direct parse: %v", err)
	}

	fenced, err := parseAnalysisResponse("Here is my assessment:\n```json\n" + validAnalysisJSON + "\n```\nLet me know.")
	if err != nil {
		t.Fatalf("fenced parse: %v", err)
	}

	if !reflect.DeepEqual(direct, fenced) {
		t.Fatalf("direct and fenced parses differ: %+v vs %+v", direct, fenced)
	}
	if direct.RiskLevel != types.RiskHigh || direct.Recommendation != types.RecommendationCounter {
		t.Fatalf("unexpected result: %+v", direct)
	}
}

func TestParseAnalysisProseFails(t *testing.T) {
	_, err := parseAnalysisResponse("I think this change is probably fine, low risk overall.")
	if !errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("err = %v, want ErrUnparseableResponse", err)
	}
}

func TestParseAnalysisCoercesUnknownEnums(t *testing.T) {
	raw := `{"category":"weird","risk_level":"catastrophic","summary":"Something.","recommendation":"escalate"}`
	res, err := parseAnalysisResponse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Category != types.CategorySubstantive {
		t.Fatalf("category = %q, want substantive", res.Category)
	}
	if res.RiskLevel != types.RiskMedium {
		t.Fatalf("risk = %q, want medium", res.RiskLevel)
	}
	if res.Recommendation != types.RecommendationReview {
		t.Fatalf("recommendation = %q, want review", res.Recommendation)
	}
}

func TestParseAnalysisRequiresSummary(t *testing.T) {
	_, err := parseAnalysisResponse(`{"risk_level":"low","recommendation":"accept"}`)
	if !errors.Is(err, ErrUnparseableResponse) {
		t.Fatalf("err = %v, want ErrUnparseableResponse", err)
	}
}

func TestParseBatchMapsByIndex(t *testing.T) {
	raw := `[
		{"change_index": 1, "summary": "Second change.", "risk_level": "low", "recommendation": "accept"},
		{"change_index": 0, "summary": "First change.", "risk_level": "low", "recommendation": "accept"},
		{"change_index": 7, "summary": "Out of range.", "risk_level": "low", "recommendation": "accept"},
		{"summary": "No index.", "risk_level": "low", "recommendation": "accept"},
		{"change_index": 1, "summary": "Duplicate index.", "risk_level": "high", "recommendation": "review"}
	]`
	got, err := parseBatchAnalysisResponse(raw, 3)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (out-of-range, missing, duplicate dropped)", len(got))
	}
	if got[0].Summary != "First change." {
		t.Fatalf("index 0 = %q", got[0].Summary)
	}
	if got[1].Summary != "Second change." {
		t.Fatalf("index 1 = %q (duplicate should not win)", got[1].Summary)
	}
}

func TestParseBatchFencedArray(t *testing.T) {
	raw := "```\n[{\"change_index\":0,\"summary\":\"Only one.\",\"risk_level\":\"low\",\"recommendation\":\"accept\"}]\n```"
	got, err := parseBatchAnalysisResponse(raw, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].Summary != "Only one." {
		t.Fatalf("got %+v", got)
	}
}

func TestParseCounterproposal(t *testing.T) {
	raw := `{"proposed_text":"Each party's liability is capped at two times fees.","rationale":"Splits the difference.","concessions":["cap raised from 1x"],"preserved":["cap exists at all"]}`
	p, err := parseCounterproposalResponse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.ProposedText == "" || p.Rationale == "" || len(p.Concessions) != 1 || len(p.Preserved) != 1 {
		t.Fatalf("got %+v", p)
	}
}

func TestParseCounterproposalRejectsMissingFields(t *testing.T) {
	for _, raw := range []string{
		`{"rationale":"no text"}`,
		`{"proposed_text":"text but no rationale"}`,
		`{"proposed_text":"   ","rationale":"blank text"}`,
		"plain prose refusal",
	} {
		if _, err := parseCounterproposalResponse(raw); !errors.Is(err, ErrUnparseableResponse) {
			t.Fatalf("raw %q: err = %v, want ErrUnparseableResponse", raw, err)
		}
	}
}
