package auth

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-pos/meridian-pos/internal/rbac"
	"github.com/meridian-pos/meridian-pos/internal/shared"
	"github.com/meridian-pos/meridian-pos/internal/users"
)

// Credential mismatch and unknown email produce the same message on purpose:
// a caller must not be able to enumerate accounts.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgInactiveAccount    = "User account is inactive"
	msgInvalidSession     = "Invalid or expired session"
)

// CredentialStore is the slice of the user repository the authenticator
// consumes.
type CredentialStore interface {
	ValidateCredentials(ctx context.Context, email, password, tenantID string) (*users.User, error)
	UpdateLastLogin(ctx context.Context, id, tenantID string) error
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// Service authenticates credentials and owns session issuance.
type Service struct {
	store     CredentialStore
	sessions  *shared.SessionStore
	audit     shared.AuditRecorder
	logger    *slog.Logger
	validator *validator.Validate
}

// NewService constructs a new Service.
func NewService(store CredentialStore, sessions *shared.SessionStore, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		sessions:  sessions,
		audit:     audit,
		logger:    logger,
		validator: validator.New(),
	}
}

// Login validates credentials against the tenant's active users and mints a
// session carrying the capabilities of the user's current role. Malformed
// input surfaces as an authentication failure so the response does not leak
// which part of the request was wrong.
func (s *Service) Login(ctx context.Context, in LoginInput, tenantID string) (string, users.View, error) {
	if err := s.validator.Struct(in); err != nil {
		return "", users.View{}, &shared.AuthError{Message: msgInvalidCredentials}
	}

	user, err := s.store.ValidateCredentials(ctx, in.Email, in.Password, tenantID)
	if err != nil {
		// Infrastructure failure: surface as-is, never as bad credentials.
		return "", users.View{}, err
	}
	if user == nil {
		return "", users.View{}, &shared.AuthError{Message: msgInvalidCredentials}
	}
	if !user.Active {
		return "", users.View{}, &shared.AuthError{Message: msgInactiveAccount}
	}

	capabilities := rbac.CapabilitiesFor(user.Role)
	sessionID := s.sessions.Create(user.ID, user.TenantID, capabilities)

	if err := s.store.UpdateLastLogin(ctx, user.ID, user.TenantID); err != nil && s.logger != nil {
		s.logger.Warn("record last login", slog.Any("error", err))
	}
	s.recordAudit(ctx, "auth.login", user.TenantID, user.ID)

	return sessionID, users.NewView(*user), nil
}

// Logout deletes the session. An unknown or already-removed session id
// reports false rather than failing; logout is always safe to call.
func (s *Service) Logout(ctx context.Context, sessionID string) bool {
	sess, ok := s.sessions.Lookup(sessionID)
	deleted := s.sessions.Delete(sessionID)
	if ok && deleted {
		s.recordAudit(ctx, "auth.logout", sess.TenantID, sess.UserID)
	}
	return deleted
}

func (s *Service) recordAudit(ctx context.Context, action, tenantID, userID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  userID,
		TenantID: tenantID,
		Action:   action,
		Entity:   "session",
		EntityID: userID,
	}); err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.Any("error", err))
	}
}
