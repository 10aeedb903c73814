package tenancy

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for tenant administration.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountPublicRoutes registers the routes that must work before any session
// exists: signing up a tenant and reading it back by id.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/", h.createTenant)
	r.Get("/{id}", h.getTenant)
}

// MountAdminRoutes registers the administrative tenant routes. Callers mount
// these behind session authentication.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/", h.searchTenants)
	r.Put("/{id}", h.updateTenant)
	r.Delete("/{id}", h.deleteTenant)
	r.Post("/{id}/activate", h.setStatus(StatusActive))
	r.Post("/{id}/suspend", h.setStatus(StatusSuspended))
	r.Post("/{id}/cancel", h.setStatus(StatusCancelled))
}

func (h *Handler) createTenant(w http.ResponseWriter, r *http.Request) {
	var in CreateTenantInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	tenant, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.respondError(w, "create tenant", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Tenant created successfully",
		"data":    tenant,
	})
}

func (h *Handler) searchTenants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := SearchTenantsInput{
		ID:         q.Get("id"),
		Name:       q.Get("name"),
		OwnerEmail: q.Get("ownerEmail"),
		Status:     q.Get("status"),
		Plan:       q.Get("subscriptionPlan"),
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

	result, err := h.service.Search(r.Context(), in)
	if err != nil {
		h.respondError(w, "search tenants", err)
		return
	}
	message := "Tenants found successfully"
	if len(result.Tenants) == 0 {
		message = "No tenants found"
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"data":    result,
	})
}

func (h *Handler) getTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "get tenant", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": tenant})
}

func (h *Handler) updateTenant(w http.ResponseWriter, r *http.Request) {
	var in UpdateTenantInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	tenant, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondError(w, "update tenant", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Tenant updated successfully",
		"data":    tenant,
	})
}

func (h *Handler) deleteTenant(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "delete tenant", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "deleted": deleted})
}

func (h *Handler) setStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
		if err != nil {
			h.respondError(w, "set tenant status", err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": tenant})
	}
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if h.logger != nil {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
