package tenancy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

type memoryTenantRepo struct {
	tenants map[string]Tenant
	lookups atomic.Int64
	findErr error
}

func newMemoryTenantRepo() *memoryTenantRepo {
	return &memoryTenantRepo{tenants: make(map[string]Tenant)}
}

func (r *memoryTenantRepo) put(t Tenant) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
		t.UpdatedAt = t.CreatedAt
	}
	r.tenants[t.ID] = t
}

func (r *memoryTenantRepo) Create(ctx context.Context, tenant Tenant) (Tenant, error) {
	if _, ok := r.tenants[tenant.ID]; ok {
		return Tenant{}, shared.ErrDuplicate
	}
	tenant.CreatedAt = time.Now()
	tenant.UpdatedAt = tenant.CreatedAt
	r.tenants[tenant.ID] = tenant
	return tenant, nil
}

func (r *memoryTenantRepo) FindByID(ctx context.Context, id string) (*Tenant, error) {
	r.lookups.Add(1)
	if r.findErr != nil {
		return nil, r.findErr
	}
	t, ok := r.tenants[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *memoryTenantRepo) FindByOwnerEmail(ctx context.Context, email string) (*Tenant, error) {
	for _, t := range r.tenants {
		if t.OwnerEmail == email {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *memoryTenantRepo) Update(ctx context.Context, id string, updates UpdateTenantInput) (Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return Tenant{}, shared.ErrNotFound
	}
	if updates.Name != nil {
		t.Name = *updates.Name
	}
	if updates.BusinessName != nil {
		t.BusinessName = *updates.BusinessName
	}
	if updates.OwnerName != nil {
		t.OwnerName = *updates.OwnerName
	}
	if updates.OwnerEmail != nil {
		t.OwnerEmail = *updates.OwnerEmail
	}
	if updates.Phone != nil {
		t.Phone = *updates.Phone
	}
	if updates.Address != nil {
		t.Address = *updates.Address
	}
	if updates.TaxID != nil {
		t.TaxID = *updates.TaxID
	}
	if updates.SubscriptionPlan != nil {
		t.SubscriptionPlan = *updates.SubscriptionPlan
	}
	if updates.Status != nil {
		t.Status = *updates.Status
	}
	t.UpdatedAt = time.Now()
	r.tenants[id] = t
	return t, nil
}

func (r *memoryTenantRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.tenants[id]; !ok {
		return false, nil
	}
	delete(r.tenants, id)
	return true, nil
}

func (r *memoryTenantRepo) Search(ctx context.Context, filters SearchFilters) (SearchResult, error) {
	var matched []Tenant
	for _, t := range r.tenants {
		if filters.ID != "" && t.ID != filters.ID {
			continue
		}
		if filters.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filters.Name)) {
			continue
		}
		if filters.OwnerEmail != "" && !strings.Contains(strings.ToLower(t.OwnerEmail), strings.ToLower(filters.OwnerEmail)) {
			continue
		}
		if filters.Status != "" && t.Status != filters.Status {
			continue
		}
		if filters.Plan != "" && t.SubscriptionPlan != filters.Plan {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	page := shared.NewPagination(filters.Page, filters.Limit, len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return SearchResult{
		Tenants:    matched[start:end],
		Total:      len(matched),
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}

var _ Repository = (*memoryTenantRepo)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGateResolveActiveTenant(t *testing.T) {
	repo := newMemoryTenantRepo()
	repo.put(Tenant{ID: "acme", Status: StatusActive})
	gate := NewGate(repo, discardLogger(), GateConfig{})

	tenantID, err := gate.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	require.Equal(t, "acme", tenantID)
}

func TestGateHeaderTakesPrecedenceOverIdentity(t *testing.T) {
	repo := newMemoryTenantRepo()
	repo.put(Tenant{ID: "from-header", Status: StatusActive})
	repo.put(Tenant{ID: "from-session", Status: StatusActive})
	gate := NewGate(repo, discardLogger(), GateConfig{})

	ctx := shared.ContextWithIdentity(context.Background(), shared.Identity{TenantID: "from-session"})
	tenantID, err := gate.Resolve(ctx, "from-header")
	require.NoError(t, err)
	require.Equal(t, "from-header", tenantID)
}

func TestGateFallsBackToIdentityTenant(t *testing.T) {
	repo := newMemoryTenantRepo()
	repo.put(Tenant{ID: "from-session", Status: StatusActive})
	gate := NewGate(repo, discardLogger(), GateConfig{})

	ctx := shared.ContextWithIdentity(context.Background(), shared.Identity{TenantID: "from-session"})
	tenantID, err := gate.Resolve(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "from-session", tenantID)
}

func TestGateMissingTenant(t *testing.T) {
	gate := NewGate(newMemoryTenantRepo(), discardLogger(), GateConfig{})

	_, err := gate.Resolve(context.Background(), "")
	require.ErrorIs(t, err, shared.ErrMissingTenant)
}

func TestGateUnknownTenant(t *testing.T) {
	gate := NewGate(newMemoryTenantRepo(), discardLogger(), GateConfig{})

	_, err := gate.Resolve(context.Background(), "ghost")
	require.ErrorIs(t, err, shared.ErrTenantNotFound)
	require.Contains(t, err.Error(), "ghost")
}

func TestGateInactiveTenant(t *testing.T) {
	repo := newMemoryTenantRepo()
	repo.put(Tenant{ID: "paused", Status: StatusSuspended})
	repo.put(Tenant{ID: "gone", Status: StatusCancelled})
	gate := NewGate(repo, discardLogger(), GateConfig{})

	_, err := gate.Resolve(context.Background(), "paused")
	require.ErrorIs(t, err, shared.ErrTenantInactive)
	var statusErr *shared.TenantStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, StatusSuspended, statusErr.Status)

	_, err = gate.Resolve(context.Background(), "gone")
	require.ErrorIs(t, err, shared.ErrTenantInactive)
}

func TestGateAllowUnknown(t *testing.T) {
	repo := newMemoryTenantRepo()
	repo.put(Tenant{ID: "paused", Status: StatusSuspended})
	gate := NewGate(repo, discardLogger(), GateConfig{AllowUnknown: true})

	// Unknown tenants pass through when the flag is set.
	tenantID, err := gate.Resolve(context.Background(), "test-tenant")
	require.NoError(t, err)
	require.Equal(t, "test-tenant", tenantID)

	// Known but inactive tenants are still rejected.
	_, err = gate.Resolve(context.Background(), "paused")
	require.ErrorIs(t, err, shared.ErrTenantInactive)
}

func TestGateRepositoryErrorPassesThrough(t *testing.T) {
	repo := newMemoryTenantRepo()
	repo.findErr = errors.New("connection refused")
	gate := NewGate(repo, discardLogger(), GateConfig{})

	_, err := gate.Resolve(context.Background(), "acme")
	require.EqualError(t, err, "connection refused")
}

func TestGateStatusCache(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryTenantRepo()
	repo.put(Tenant{ID: "acme", Status: StatusActive})
	gate := NewGate(repo, discardLogger(), GateConfig{Cache: client, CacheTTL: 5 * time.Second})

	for i := 0; i < 3; i++ {
		tenantID, err := gate.Resolve(context.Background(), "acme")
		require.NoError(t, err)
		require.Equal(t, "acme", tenantID)
	}
	require.Equal(t, int64(1), repo.lookups.Load())

	// A suspension is picked up once the cached status ages out.
	repo.put(Tenant{ID: "acme", Status: StatusSuspended})
	srv.FastForward(6 * time.Second)
	_, err := gate.Resolve(context.Background(), "acme")
	require.ErrorIs(t, err, shared.ErrTenantInactive)
	require.Equal(t, int64(2), repo.lookups.Load())
}

func TestGateCachesAbsence(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := newMemoryTenantRepo()
	gate := NewGate(repo, discardLogger(), GateConfig{Cache: client, CacheTTL: 5 * time.Second})

	for i := 0; i < 3; i++ {
		_, err := gate.Resolve(context.Background(), "ghost")
		require.ErrorIs(t, err, shared.ErrTenantNotFound)
	}
	require.Equal(t, int64(1), repo.lookups.Load())
}

func TestGateClampsCacheTTL(t *testing.T) {
	gate := NewGate(newMemoryTenantRepo(), discardLogger(), GateConfig{CacheTTL: time.Minute})
	require.Equal(t, 5*time.Second, gate.cacheTTL)

	gate = NewGate(newMemoryTenantRepo(), discardLogger(), GateConfig{CacheTTL: 2 * time.Second})
	require.Equal(t, 2*time.Second, gate.cacheTTL)

	gate = NewGate(newMemoryTenantRepo(), discardLogger(), GateConfig{})
	require.Equal(t, 5*time.Second, gate.cacheTTL)
}
