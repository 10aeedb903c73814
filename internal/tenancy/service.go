package tenancy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Service owns tenant lifecycle rules. Tenant id and owner email are globally
// unique; tenants are not themselves tenant-scoped.
type Service struct {
	repo      Repository
	audit     shared.AuditRecorder
	logger    *slog.Logger
	validator *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		audit:     audit,
		logger:    logger,
		validator: newValidator(),
	}
}

// Create registers a new tenant after checking both uniqueness probes. The
// database unique constraints backstop the probe-to-insert race.
func (s *Service) Create(ctx context.Context, in CreateTenantInput) (Tenant, error) {
	if err := s.validate(in); err != nil {
		return Tenant{}, err
	}

	existing, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return Tenant{}, err
	}
	if existing != nil {
		return Tenant{}, fmt.Errorf("%w: tenant with ID %s already exists", shared.ErrDuplicate, in.ID)
	}

	byEmail, err := s.repo.FindByOwnerEmail(ctx, in.OwnerEmail)
	if err != nil {
		return Tenant{}, err
	}
	if byEmail != nil {
		return Tenant{}, fmt.Errorf("%w: owner email %s is already registered", shared.ErrDuplicate, in.OwnerEmail)
	}

	plan := in.SubscriptionPlan
	if plan == "" {
		plan = "basic"
	}
	tenant, err := s.repo.Create(ctx, Tenant{
		ID:               in.ID,
		Name:             in.Name,
		BusinessName:     in.BusinessName,
		OwnerName:        in.OwnerName,
		OwnerEmail:       in.OwnerEmail,
		Phone:            in.Phone,
		Address:          in.Address,
		TaxID:            in.TaxID,
		SubscriptionPlan: plan,
		Status:           StatusActive,
	})
	if err != nil {
		return Tenant{}, err
	}
	s.recordAudit(ctx, "tenant.create", tenant.ID, nil)
	return tenant, nil
}

// Get fetches a tenant by id.
func (s *Service) Get(ctx context.Context, id string) (Tenant, error) {
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Tenant{}, err
	}
	if tenant == nil {
		return Tenant{}, fmt.Errorf("%w: tenant %s", shared.ErrNotFound, id)
	}
	return *tenant, nil
}

// Update applies a partial update. A changed owner email is re-checked for
// collision with another tenant first.
func (s *Service) Update(ctx context.Context, id string, in UpdateTenantInput) (Tenant, error) {
	if in.empty() {
		return Tenant{}, fmt.Errorf("%w: at least one field must be provided", shared.ErrValidation)
	}
	if err := s.validate(in); err != nil {
		return Tenant{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Tenant{}, err
	}
	if existing == nil {
		return Tenant{}, fmt.Errorf("%w: tenant %s", shared.ErrNotFound, id)
	}

	if in.OwnerEmail != nil && *in.OwnerEmail != existing.OwnerEmail {
		byEmail, err := s.repo.FindByOwnerEmail(ctx, *in.OwnerEmail)
		if err != nil {
			return Tenant{}, err
		}
		if byEmail != nil && byEmail.ID != id {
			return Tenant{}, fmt.Errorf("%w: owner email %s is already registered", shared.ErrDuplicate, *in.OwnerEmail)
		}
	}

	tenant, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Tenant{}, err
	}
	s.recordAudit(ctx, "tenant.update", id, nil)
	return tenant, nil
}

// Delete removes a tenant, reporting whether a row was affected.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, fmt.Errorf("%w: tenant %s", shared.ErrNotFound, id)
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.recordAudit(ctx, "tenant.delete", id, nil)
	}
	return deleted, nil
}

// Search lists tenants matching the optional filters. Filters combine with
// logical AND; no filters means all tenants, paged.
func (s *Service) Search(ctx context.Context, in SearchTenantsInput) (SearchResult, error) {
	if err := s.validate(in); err != nil {
		return SearchResult{}, err
	}

	page := in.Page
	if page == 0 {
		page = 1
	}
	limit := in.Limit
	if limit == 0 {
		limit = shared.DefaultPageSize
	}
	if page < 1 {
		return SearchResult{}, fmt.Errorf("%w: page must be greater than 0", shared.ErrValidation)
	}
	if limit < 1 || limit > shared.MaxPageSize {
		return SearchResult{}, fmt.Errorf("%w: limit must be between 1 and %d", shared.ErrValidation, shared.MaxPageSize)
	}

	return s.repo.Search(ctx, SearchFilters{
		ID:         in.ID,
		Name:       in.Name,
		OwnerEmail: in.OwnerEmail,
		Status:     in.Status,
		Plan:       in.Plan,
		Page:       page,
		Limit:      limit,
	})
}

// SetStatus moves a tenant between active, suspended and cancelled. The
// transition is recorded as a single tenant.status audit entry.
func (s *Service) SetStatus(ctx context.Context, id, status string) (Tenant, error) {
	if !ValidStatus(status) {
		return Tenant{}, fmt.Errorf("%w: unknown status %s", shared.ErrValidation, status)
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Tenant{}, err
	}
	if existing == nil {
		return Tenant{}, fmt.Errorf("%w: tenant %s", shared.ErrNotFound, id)
	}
	tenant, err := s.repo.Update(ctx, id, UpdateTenantInput{Status: &status})
	if err != nil {
		return Tenant{}, err
	}
	s.recordAudit(ctx, "tenant.status", id, map[string]any{"status": status})
	return tenant, nil
}

func (s *Service) recordAudit(ctx context.Context, action, tenantID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actorID := ""
	if identity, ok := shared.IdentityFromContext(ctx); ok {
		actorID = identity.UserID
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		TenantID: tenantID,
		Action:   action,
		Entity:   "tenant",
		EntityID: tenantID,
		Meta:     meta,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.Any("error", err))
	}
}
