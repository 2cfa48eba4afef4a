package steps

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	"github.com/redlinehq/redline-backend/internal/services"
)

const (
	minClauseSearchLen = 20
	maxEntityTerms     = 3
	maxTermsConsidered = 10
	clauseSearchLimit  = 5
)

// gatherContext fans the knowledge-source lookups out concurrently and
// joins them into one bundle. Each source runs under its own timeout and
// its failure only empties its own field; the bundle itself is always
// returned. The light variant skips clause search and deal history to
// bound per-item latency during batch runs.
func gatherContext(ctx context.Context, d Deps, scope Scope, change *types.DocumentChange, light bool) *ContextBundle {
	bundle := &ContextBundle{}

	var g errgroup.Group

	g.Go(func() error {
		sctx, cancel := context.WithTimeout(ctx, d.Cfg.SourceTimeout)
		defer cancel()
		bundle.Entities = lookupEntities(sctx, d, scope, change)
		return nil
	})

	g.Go(func() error {
		sctx, cancel := context.WithTimeout(ctx, d.Cfg.SourceTimeout)
		defer cancel()
		policies, err := d.Policies.ListEnabled(sctx, scope.WorkspaceID)
		if err != nil {
			d.Log.Warn("policy lookup failed", "workspace_id", scope.WorkspaceID, "error", err)
			return nil
		}
		bundle.Policies = policies
		return nil
	})

	if !light {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, d.Cfg.SourceTimeout)
			defer cancel()
			bundle.ClauseMatches = lookupClauses(sctx, d, scope, change)
			return nil
		})

		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, d.Cfg.SourceTimeout)
			defer cancel()
			bundle.DealHistory = lookupDealHistory(sctx, d, scope)
			return nil
		})
	}

	g.Wait()
	return bundle
}

func lookupEntities(ctx context.Context, d Deps, scope Scope, change *types.DocumentChange) []types.GraphEntity {
	terms := significantTerms(combinedText(change))
	if len(terms) > maxEntityTerms {
		terms = terms[:maxEntityTerms]
	}
	seen := make(map[string]bool)
	var out []types.GraphEntity
	for _, term := range terms {
		if len(out) >= d.Cfg.MaxEntities {
			break
		}
		found, err := d.Entities.Search(ctx, scope.WorkspaceID, term, d.Cfg.MaxEntities)
		if err != nil {
			d.Log.Warn("entity search failed", "term", term, "error", err)
			continue
		}
		for _, e := range found {
			key := e.ID
			if key == "" {
				key = strings.ToLower(e.Name)
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, e)
			if len(out) >= d.Cfg.MaxEntities {
				break
			}
		}
	}
	return out
}

func lookupClauses(ctx context.Context, d Deps, scope Scope, change *types.DocumentChange) []services.ClauseMatch {
	text := change.Text()
	if len([]rune(text)) < minClauseSearchLen {
		return nil
	}
	matches, err := d.Clauses.FindSimilar(ctx, scope.WorkspaceID, text, clauseSearchLimit)
	if err != nil {
		d.Log.Warn("clause search failed", "change_id", change.ID, "error", err)
		return nil
	}
	return matches
}

func lookupDealHistory(ctx context.Context, d Deps, scope Scope) string {
	sess, err := d.Sessions.GetByID(dbctx.Context{Ctx: ctx}, scope.SessionID)
	if err != nil || sess == nil {
		if err != nil {
			d.Log.Warn("session lookup failed", "session_id", scope.SessionID, "error", err)
		}
		return ""
	}
	summary, err := d.History.Summary(ctx, scope.WorkspaceID, sess.CounterpartyName)
	if err != nil {
		d.Log.Warn("deal history lookup failed", "counterparty", sess.CounterpartyName, "error", err)
		return ""
	}
	return summary
}

func combinedText(change *types.DocumentChange) string {
	if change == nil {
		return ""
	}
	var parts []string
	if change.OriginalText != nil {
		parts = append(parts, *change.OriginalText)
	}
	if change.ProposedText != nil {
		parts = append(parts, *change.ProposedText)
	}
	return strings.Join(parts, " ")
}

// significantTerms extracts deduplicated words of at least four runes,
// longest first, capped at the top ten candidates.
func significantTerms(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool)
	var terms []string
	for _, w := range words {
		if len([]rune(w)) < 4 {
			continue
		}
		key := strings.ToLower(w)
		if seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, w)
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return len(terms[i]) > len(terms[j])
	})
	if len(terms) > maxTermsConsidered {
		terms = terms[:maxTermsConsidered]
	}
	return terms
}
