package tenancy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Gate resolves the active tenant for a request and verifies its status.
// Every downstream repository call must use the tenant id it returns.
type Gate struct {
	repo   Repository
	logger *slog.Logger

	// AllowUnknown lets unknown tenant ids through for test deployments.
	// Evaluated once at startup from configuration; must stay off in
	// production.
	allowUnknown bool

	cache    *redis.Client
	cacheTTL time.Duration
	group    singleflight.Group
}

// GateConfig collects the gate's optional behavior.
type GateConfig struct {
	AllowUnknown bool
	Cache        *redis.Client
	CacheTTL     time.Duration
}

// NewGate constructs a Gate. Cache is optional; when present, tenant status
// is cached briefly so suspension still takes effect promptly.
func NewGate(repo Repository, logger *slog.Logger, cfg GateConfig) *Gate {
	ttl := cfg.CacheTTL
	if ttl <= 0 || ttl > 10*time.Second {
		ttl = 5 * time.Second
	}
	return &Gate{
		repo:         repo,
		logger:       logger,
		allowUnknown: cfg.AllowUnknown,
		cache:        cfg.Cache,
		cacheTTL:     ttl,
	}
}

// Resolve validates the candidate tenant and returns its id. An explicit
// candidate (request header) takes precedence over the tenant carried by the
// authenticated identity; with neither present resolution fails.
func (g *Gate) Resolve(ctx context.Context, candidate string) (string, error) {
	tenantID := candidate
	if tenantID == "" {
		if identity, ok := shared.IdentityFromContext(ctx); ok {
			tenantID = identity.TenantID
		}
	}
	if tenantID == "" {
		return "", shared.ErrMissingTenant
	}

	status, found, err := g.lookupStatus(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if !found {
		if g.allowUnknown {
			if g.logger != nil {
				g.logger.Warn("allowing unknown tenant", slog.String("tenant_id", tenantID))
			}
			return tenantID, nil
		}
		return "", fmt.Errorf("%w: %s", shared.ErrTenantNotFound, tenantID)
	}
	if status != StatusActive {
		return "", &shared.TenantStatusError{TenantID: tenantID, Status: status}
	}
	return tenantID, nil
}

const statusAbsent = "__absent__"

func (g *Gate) lookupStatus(ctx context.Context, tenantID string) (string, bool, error) {
	if g.cache != nil {
		cached, err := g.cache.Get(ctx, g.cacheKey(tenantID)).Result()
		if err == nil {
			return cached, cached != statusAbsent, nil
		}
		if !errors.Is(err, redis.Nil) && g.logger != nil {
			g.logger.Warn("tenant cache read", slog.Any("error", err))
		}
	}

	// Concurrent requests for the same tenant share one lookup.
	v, err, _ := g.group.Do(tenantID, func() (any, error) {
		tenant, err := g.repo.FindByID(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		status := statusAbsent
		if tenant != nil {
			status = tenant.Status
		}
		if g.cache != nil {
			if err := g.cache.Set(ctx, g.cacheKey(tenantID), status, g.cacheTTL).Err(); err != nil && g.logger != nil {
				g.logger.Warn("tenant cache write", slog.Any("error", err))
			}
		}
		return status, nil
	})
	if err != nil {
		return "", false, err
	}
	status := v.(string)
	return status, status != statusAbsent, nil
}

func (g *Gate) cacheKey(tenantID string) string {
	return "tenant_status:" + tenantID
}
