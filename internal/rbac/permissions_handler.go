package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// PermissionsHandler exposes the role catalog and the caller's own grants.
type PermissionsHandler struct{}

// MountRoutes registers permission inspection routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.listCatalog)
	r.Get("/me", h.listMine)
}

func (h *PermissionsHandler) listCatalog(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    Catalog(),
	})
}

func (h *PermissionsHandler) listMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, &shared.AuthError{Message: "Invalid or expired session"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    identity.Capabilities,
	})
}
