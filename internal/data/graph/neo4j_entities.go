package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
	"github.com/redlinehq/redline-backend/internal/platform/neo4jdb"
)

// SearchEntities matches workspace knowledge-graph entities whose name
// contains the term, most-mentioned first. A nil client yields no matches.
func SearchEntities(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, workspaceID uuid.UUID, term string, limit int) ([]types.GraphEntity, error) {
	if client == nil || client.Driver == nil {
		return nil, nil
	}
	if workspaceID == uuid.Nil {
		return nil, fmt.Errorf("neo4j entity search: missing workspace id")
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 25 {
		limit = 10
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (e:Entity {workspace_id: $workspace_id})
WHERE toLower(e.name) CONTAINS toLower($term)
RETURN e.id AS id, e.name AS name, e.kind AS kind, e.summary AS summary, coalesce(e.mentions, 0) AS mentions
ORDER BY mentions DESC
LIMIT $limit
`, map[string]any{
			"workspace_id": workspaceID.String(),
			"term":         term,
			"limit":        limit,
		})
		if err != nil {
			return nil, err
		}
		var out []types.GraphEntity
		for res.Next(ctx) {
			rec := res.Record()
			ent := types.GraphEntity{}
			if v, ok := rec.Get("id"); ok {
				ent.ID, _ = v.(string)
			}
			if v, ok := rec.Get("name"); ok {
				ent.Name, _ = v.(string)
			}
			if v, ok := rec.Get("kind"); ok {
				ent.Kind, _ = v.(string)
			}
			if v, ok := rec.Get("summary"); ok {
				ent.Summary, _ = v.(string)
			}
			if v, ok := rec.Get("mentions"); ok {
				if n, isInt := v.(int64); isInt {
					ent.Mentions = int(n)
				}
			}
			out = append(out, ent)
		}
		return out, res.Err()
	})
	if err != nil {
		return nil, err
	}
	out, _ := rows.([]types.GraphEntity)
	return out, nil
}
