package steps

import (
	"fmt"
	"strings"

	types "github.com/redlinehq/redline-backend/internal/domain"
)

const (
	maxPromptTextLen   = 2000
	maxEntitiesShown   = 5
	maxClausesShown    = 3
	maxPoliciesShown   = 5
	shortTextThreshold = 50
)

const analysisSystemPrompt = `You are a contract review assistant. You assess one proposed edit ` +
	`to a negotiated document and respond with a single JSON object, no prose before or after: ` +
	`{"category":"substantive|editorial|structural","risk_level":"low|medium|high|critical",` +
	`"summary":"one sentence","impact":"short paragraph","historical_context":"optional",` +
	`"clause_comparison":"optional","compliance_flags":["optional"],` +
	`"recommendation":"accept|reject|counter|review","reasoning":"short paragraph"}`

const batchAnalysisSystemPrompt = `You are a contract review assistant. You assess several proposed ` +
	`edits at once and respond with a single JSON array, no prose before or after. Each element is ` +
	`{"change_index":<zero-based index from the prompt>,"category":"substantive|editorial|structural",` +
	`"risk_level":"low|medium|high|critical","summary":"one sentence","impact":"short paragraph",` +
	`"recommendation":"accept|reject|counter|review","reasoning":"short paragraph"}`

const counterproposalSystemPrompt = `You are a contract drafting assistant. You draft compromise ` +
	`language for one disputed edit and respond with a single JSON object, no prose before or after: ` +
	`{"proposed_text":"the full replacement text","rationale":"why this works for both sides",` +
	`"concessions":["what our side gives up"],"preserved":["what our side keeps"]}`

// truncateText cuts s to max runes, appending "…" when anything was cut.
func truncateText(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func buildAnalysisPrompt(change *types.DocumentChange, bundle *ContextBundle, documentType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review the following edit to a %s document.\n\n", orDefault(documentType, "contract"))
	writeChangeBlock(&b, change)
	writeContextBlocks(&b, bundle)
	b.WriteString("\nRespond with the JSON object described in your instructions.\n")
	return b.String()
}

func buildBatchAnalysisPrompt(changes []*types.DocumentChange, documentType string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review the following %d edits to a %s document. All are expected to be minor.\n",
		len(changes), orDefault(documentType, "contract"))
	for i, change := range changes {
		fmt.Fprintf(&b, "\nChange %d:\n", i)
		writeChangeBlock(&b, change)
	}
	b.WriteString("\nRespond with one JSON array element per change, keyed by change_index.\n")
	return b.String()
}

func buildCounterproposalPrompt(change *types.DocumentChange, bundle *ContextBundle, mode, documentType string) string {
	var b strings.Builder
	b.WriteString(modeInstruction(mode))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "The disputed edit is in a %s document.\n\n", orDefault(documentType, "contract"))
	writeChangeBlock(&b, change)
	writeContextBlocks(&b, bundle)
	if shortChangeText(change) {
		b.WriteString("\nBoth text variants are short. Keep the proposed replacement proportionally short.\n")
	}
	b.WriteString("\nRespond with the JSON object described in your instructions.\n")
	return b.String()
}

func modeInstruction(mode string) string {
	switch mode {
	case types.ModeFavorable:
		return "Draft replacement language that keeps as much of our original position as possible " +
			"while offering the counterparty one small, genuine concession."
	case types.ModeMinimalChange:
		return "Draft replacement language that stays as close to the original text as possible, " +
			"accepting only the smallest edits needed to address the counterparty's concern."
	default:
		return "Draft balanced replacement language that gives each side part of what it asked for, " +
			"splitting the difference where the positions conflict."
	}
}

func writeChangeBlock(b *strings.Builder, change *types.DocumentChange) {
	if change == nil {
		return
	}
	if change.SectionHeading != nil && *change.SectionHeading != "" {
		fmt.Fprintf(b, "Section: %s\n", *change.SectionHeading)
	}
	fmt.Fprintf(b, "Edit kind: %s\n", change.ChangeKind)
	fmt.Fprintf(b, "Heuristic category: %s\n", change.Category)
	if change.OriginalText != nil && *change.OriginalText != "" {
		fmt.Fprintf(b, "Original text:\n%s\n", truncateText(*change.OriginalText, maxPromptTextLen))
	}
	if change.ProposedText != nil && *change.ProposedText != "" {
		fmt.Fprintf(b, "Proposed text:\n%s\n", truncateText(*change.ProposedText, maxPromptTextLen))
	}
}

func writeContextBlocks(b *strings.Builder, bundle *ContextBundle) {
	if bundle == nil {
		return
	}
	if len(bundle.Entities) > 0 {
		b.WriteString("\nKnown entities relevant to this edit:\n")
		for i, e := range bundle.Entities {
			if i >= maxEntitiesShown {
				break
			}
			fmt.Fprintf(b, "- %s (%s, %d prior mentions)", e.Name, orDefault(e.Kind, "entity"), e.Mentions)
			if e.Summary != "" {
				fmt.Fprintf(b, ": %s", truncateText(e.Summary, 200))
			}
			b.WriteString("\n")
		}
	}
	if len(bundle.ClauseMatches) > 0 {
		b.WriteString("\nSimilar clauses from the clause library:\n")
		for i, m := range bundle.ClauseMatches {
			if i >= maxClausesShown || m.Clause == nil {
				break
			}
			fmt.Fprintf(b, "- [similarity %d] %s: %s (%s)\n",
				m.Similarity, m.Clause.Title, truncateText(m.Clause.Body, 300), m.MatchReason)
		}
	}
	if len(bundle.Policies) > 0 {
		b.WriteString("\nCompliance policies in force:\n")
		for i, p := range bundle.Policies {
			if i >= maxPoliciesShown || p == nil {
				break
			}
			fmt.Fprintf(b, "- %s (%s): %s\n", p.Name, p.Severity, truncateText(p.Description, 200))
		}
	}
	if bundle.DealHistory != "" {
		fmt.Fprintf(b, "\nHistory with this counterparty: %s\n", bundle.DealHistory)
	}
}

func shortChangeText(change *types.DocumentChange) bool {
	if change == nil {
		return true
	}
	orig, prop := "", ""
	if change.OriginalText != nil {
		orig = *change.OriginalText
	}
	if change.ProposedText != nil {
		prop = *change.ProposedText
	}
	return len([]rune(orig)) < shortTextThreshold && len([]rune(prop)) < shortTextThreshold
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
