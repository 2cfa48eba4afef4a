package app

import (
	"time"

	"github.com/redlinehq/redline-backend/internal/modules/negotiation/steps"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
	"github.com/redlinehq/redline-backend/internal/utils"
)

type Config struct {
	Addr     string
	Pipeline steps.Config
}

func LoadConfig(log *logger.Logger) Config {
	addr := utils.GetEnv("HTTP_ADDR", ":8080", log)

	pipeline := steps.DefaultConfig()
	pipeline.SourceTimeout = time.Duration(utils.GetEnvAsInt("SOURCE_TIMEOUT_SECONDS", 5, log)) * time.Second
	pipeline.ModelTimeout = time.Duration(utils.GetEnvAsInt("MODEL_TIMEOUT_SECONDS", 15, log)) * time.Second
	pipeline.MaxModelCalls = utils.GetEnvAsInt("BATCH_MAX_MODEL_CALLS", 10, log)
	pipeline.MaxBatchDuration = time.Duration(utils.GetEnvAsInt("BATCH_MAX_DURATION_SECONDS", 30, log)) * time.Second
	pipeline.EditorialGroupSize = utils.GetEnvAsInt("EDITORIAL_GROUP_SIZE", 8, log)
	pipeline.MaxEntities = utils.GetEnvAsInt("CONTEXT_MAX_ENTITIES", 10, log)
	pipeline.SimilarityFloor = utils.GetEnvAsInt("CLAUSE_SIMILARITY_FLOOR", 60, log)

	return Config{
		Addr:     addr,
		Pipeline: pipeline,
	}
}
