package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

// PolicyCache fronts the compliance-policy table. A cache error is never
// surfaced to callers; the policy service falls through to postgres.
type PolicyCache interface {
	GetEnabled(ctx context.Context, workspaceID uuid.UUID) ([]*types.CompliancePolicy, bool)
	SetEnabled(ctx context.Context, workspaceID uuid.UUID, policies []*types.CompliancePolicy)
	Invalidate(ctx context.Context, workspaceID uuid.UUID)
	Close() error
}

type policyCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewPolicyCache returns (nil, nil) when REDIS_ADDR is unset; the policy
// service treats a nil cache as a permanent miss.
func NewPolicyCache(log *logger.Logger) (PolicyCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	ttl := 60 * time.Second
	if v := strings.TrimSpace(os.Getenv("POLICY_CACHE_TTL_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttl = time.Duration(parsed) * time.Second
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &policyCache{
		log: log.With("client", "RedisPolicyCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func policyKey(workspaceID uuid.UUID) string {
	return "policy:enabled:" + workspaceID.String()
}

func (c *policyCache) GetEnabled(ctx context.Context, workspaceID uuid.UUID) ([]*types.CompliancePolicy, bool) {
	raw, err := c.rdb.Get(ctx, policyKey(workspaceID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("policy cache read failed", "workspace_id", workspaceID, "error", err)
		}
		return nil, false
	}
	var out []*types.CompliancePolicy
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("policy cache decode failed", "workspace_id", workspaceID, "error", err)
		return nil, false
	}
	return out, true
}

func (c *policyCache) SetEnabled(ctx context.Context, workspaceID uuid.UUID, policies []*types.CompliancePolicy) {
	raw, err := json.Marshal(policies)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, policyKey(workspaceID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("policy cache write failed", "workspace_id", workspaceID, "error", err)
	}
}

func (c *policyCache) Invalidate(ctx context.Context, workspaceID uuid.UUID) {
	if err := c.rdb.Del(ctx, policyKey(workspaceID)).Err(); err != nil {
		c.log.Warn("policy cache invalidate failed", "workspace_id", workspaceID, "error", err)
	}
}

func (c *policyCache) Close() error {
	return c.rdb.Close()
}
