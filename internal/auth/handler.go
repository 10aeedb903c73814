package auth

import (
	"log/slog"
	"net/http"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// HandleLogin authenticates a login request. It expects tenant resolution
// middleware upstream; logout does not, so the two are mounted separately.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrMissingTenant)
		return
	}

	var in LoginInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, &shared.AuthError{Message: "Invalid email or password"})
		return
	}

	sessionID, view, err := h.service.Login(r.Context(), in, tenantID)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("login failed", slog.String("tenant_id", tenantID), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set(SessionHeader, sessionID)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Login successful",
		"sessionId": sessionID,
		"data":      view,
	})
}

// HandleLogout deletes the caller's session. Safe to call without one.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	deleted := h.service.Logout(r.Context(), r.Header.Get(SessionHeader))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"deleted": deleted,
	})
}
