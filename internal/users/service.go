package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-pos/internal/platform/hash"
	"github.com/meridian-pos/meridian-pos/internal/rbac"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Service implements the user management use cases. Every operation checks
// the caller's capability before touching the repository, and every
// repository call is scoped to the gate-resolved tenant passed in by the
// handler — never to raw request input.
type Service struct {
	repo      Repository
	hasher    hash.Service
	audit     shared.AuditRecorder
	logger    *slog.Logger
	validator *validator.Validate
}

// NewService builds a Service instance.
func NewService(repo Repository, hasher hash.Service, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		audit:     audit,
		logger:    logger,
		validator: newValidator(),
	}
}

// Create adds a user to the tenant. Email uniqueness and id uniqueness are
// probed independently among active rows; the database unique constraints
// catch the probe-to-insert race and surface as the same duplicate error.
func (s *Service) Create(ctx context.Context, tenantID string, in CreateUserInput) (User, error) {
	if err := s.requireCapability(ctx, rbac.CapUserCreate); err != nil {
		return User{}, err
	}
	if err := s.validate(in); err != nil {
		return User{}, err
	}

	byEmail, err := s.repo.FindByEmail(ctx, in.Email, tenantID)
	if err != nil {
		return User{}, err
	}
	if byEmail != nil {
		return User{}, fmt.Errorf("%w: user with email %s already exists", shared.ErrDuplicate, in.Email)
	}

	byID, err := s.repo.FindByID(ctx, in.ID, tenantID)
	if err != nil {
		return User{}, err
	}
	if byID != nil {
		return User{}, fmt.Errorf("%w: user with ID %s already exists", shared.ErrDuplicate, in.ID)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}
	created, err := s.repo.Create(ctx, User{
		ID:           in.ID,
		Name:         in.Name,
		Nickname:     in.Nickname,
		Phone:        in.Phone,
		Email:        in.Email,
		Role:         in.Role,
		TenantID:     tenantID,
		PasswordHash: digest,
	})
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, "user.create", tenantID, created.ID, nil)
	return created, nil
}

// Get fetches a single active user within the tenant.
func (s *Service) Get(ctx context.Context, tenantID, id string) (User, error) {
	if err := s.requireCapability(ctx, rbac.CapUserRead); err != nil {
		return User{}, err
	}
	user, err := s.repo.FindByID(ctx, id, tenantID)
	if err != nil {
		return User{}, err
	}
	if user == nil {
		return User{}, fmt.Errorf("%w: user with ID %s not found", shared.ErrNotFound, id)
	}
	return *user, nil
}

// Update applies a partial update to an existing user. A changed email is
// checked for collision with a different active user in the same tenant.
func (s *Service) Update(ctx context.Context, tenantID, id string, in UpdateUserInput) (User, error) {
	if err := s.requireCapability(ctx, rbac.CapUserUpdate); err != nil {
		return User{}, err
	}
	if in.empty() {
		return User{}, fmt.Errorf("%w: at least one field must be provided", shared.ErrValidation)
	}
	if err := s.validate(in); err != nil {
		return User{}, err
	}

	existing, err := s.repo.FindByID(ctx, id, tenantID)
	if err != nil {
		return User{}, err
	}
	if existing == nil {
		return User{}, fmt.Errorf("%w: user with ID %s not found", shared.ErrNotFound, id)
	}

	if in.Email != nil && *in.Email != existing.Email {
		collision, err := s.repo.FindByEmail(ctx, *in.Email, tenantID)
		if err != nil {
			return User{}, err
		}
		if collision != nil && collision.ID != id {
			return User{}, fmt.Errorf("%w: user with email %s already exists", shared.ErrDuplicate, *in.Email)
		}
	}

	updated, err := s.repo.UpdateUser(ctx, id, tenantID, in)
	if err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, "user.update", tenantID, id, nil)
	return updated, nil
}

// Delete flips the user inactive and reports whether a row was affected.
// Rows are never removed physically.
func (s *Service) Delete(ctx context.Context, tenantID, id string) (bool, error) {
	if err := s.requireCapability(ctx, rbac.CapUserDelete); err != nil {
		return false, err
	}
	existing, err := s.repo.FindByID(ctx, id, tenantID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, fmt.Errorf("%w: user with ID %s not found", shared.ErrNotFound, id)
	}
	deleted, err := s.repo.DeleteUser(ctx, id, tenantID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.recordAudit(ctx, "user.delete", tenantID, id, nil)
	}
	return deleted, nil
}

// Search lists active users matching the optional filters, always inside the
// resolved tenant.
func (s *Service) Search(ctx context.Context, tenantID string, in SearchUsersInput) (SearchResult, error) {
	if err := s.requireCapability(ctx, rbac.CapUserRead); err != nil {
		return SearchResult{}, err
	}
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
		ID:       in.ID,
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		TenantID: tenantID,
		Page:     page,
		Limit:    limit,
	})
}

func (s *Service) requireCapability(ctx context.Context, needed string) error {
	identity, ok := shared.IdentityFromContext(ctx)
	if !ok {
		return &shared.AuthError{Message: "Invalid or expired session"}
	}
	return rbac.Require(identity.Capabilities, needed)
}

func (s *Service) recordAudit(ctx context.Context, action, tenantID, entityID string, meta map[string]any) {
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
		Entity:   "user",
		EntityID: entityID,
		Meta:     meta,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.Any("error", err))
	}
}
