package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/rbac"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Handler manages user management endpoints. All routes assume the
// authentication and tenant resolution middleware already ran.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers user routes. The middleware narrows each route to
// its capability; the service layer re-checks, so a miswired route cannot
// widen access.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.CapUserRead))
		r.Get("/", h.searchUsers)
		r.Get("/{id}", h.getUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.CapUserCreate))
		r.Post("/", h.createUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.CapUserUpdate))
		r.Put("/{id}", h.updateUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.CapUserDelete))
		r.Delete("/{id}", h.deleteUser)
	})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrMissingTenant)
		return
	}
	var in CreateUserInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	created, err := h.service.Create(r.Context(), tenantID, in)
	if err != nil {
		h.respondError(w, "create user", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User created successfully",
		"data":    NewView(created),
	})
}

func (h *Handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrMissingTenant)
		return
	}
	q := r.URL.Query()
	in := SearchUsersInput{
		ID:    q.Get("id"),
		Name:  q.Get("name"),
		Email: q.Get("email"),
		Role:  q.Get("role"),
	}
	var err error
	if in.Page, err = queryInt(q.Get("page")); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "page must be a number")
		return
	}
	if in.Limit, err = queryInt(q.Get("limit")); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "limit must be a number")
		return
	}

	result, err := h.service.Search(r.Context(), tenantID, in)
	if err != nil {
		h.respondError(w, "search users", err)
		return
	}
	message := "Users found successfully"
	if len(result.Users) == 0 {
		message = "No users found"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"data":    result,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrMissingTenant)
		return
	}
	user, err := h.service.Get(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": NewView(user)})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrMissingTenant)
		return
	}
	var in UpdateUserInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	updated, err := h.service.Update(r.Context(), tenantID, chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondError(w, "update user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User updated successfully",
		"data":    NewView(updated),
	})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrMissingTenant)
		return
	}
	deleted, err := h.service.Delete(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "delete user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
