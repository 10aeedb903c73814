package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-pos/meridian-pos/internal/auth"
	"github.com/meridian-pos/meridian-pos/internal/observability"
	"github.com/meridian-pos/meridian-pos/internal/rbac"
	"github.com/meridian-pos/meridian-pos/internal/shared"
	"github.com/meridian-pos/meridian-pos/internal/tenancy"
	"github.com/meridian-pos/meridian-pos/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Sessions           *shared.SessionStore
	TenantGate         *tenancy.Gate
	AuthHandler        *auth.Handler
	TenantHandler      *tenancy.Handler
	UsersHandler       *users.Handler
	PermissionsHandler *rbac.PermissionsHandler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	authenticate := auth.Authenticate(params.Sessions)
	resolveTenant := tenancy.ResolveTenant(params.TenantGate)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(resolveTenant)
			r.Post("/login", params.AuthHandler.HandleLogin)
		})
		r.Post("/logout", params.AuthHandler.HandleLogout)
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(resolveTenant)
		params.UsersHandler.MountRoutes(r)
	})

	// Signup and probe-by-id stay open so a tenant can register before any
	// session exists. Everything else requires a session.
	r.Route("/tenants", func(r chi.Router) {
		params.TenantHandler.MountPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			params.TenantHandler.MountAdminRoutes(r)
		})
	})

	if params.PermissionsHandler != nil {
		r.Route("/permissions", func(r chi.Router) {
			r.Use(authenticate)
			params.PermissionsHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
