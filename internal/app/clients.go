package app

import (
	redisclient "github.com/redlinehq/redline-backend/internal/clients/redis"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
	"github.com/redlinehq/redline-backend/internal/platform/neo4jdb"
	"github.com/redlinehq/redline-backend/internal/platform/openai"
)

// Clients holds the external collaborators. Graph and PolicyCache are
// optional: a nil value means the corresponding knowledge source simply
// contributes nothing.
type Clients struct {
	AI          openai.Client
	Graph       *neo4jdb.Client
	PolicyCache redisclient.PolicyCache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	ai, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	graph, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("neo4j unavailable, entity search disabled", "error", err)
		graph = nil
	}

	cache, err := redisclient.NewPolicyCache(log)
	if err != nil {
		log.Warn("redis unavailable, policy cache disabled", "error", err)
		cache = nil
	}

	return Clients{AI: ai, Graph: graph, PolicyCache: cache}, nil
}
