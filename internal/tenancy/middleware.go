package tenancy

import (
	"net/http"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// TenantHeader carries the explicit tenant id on a request. It overrides the
// tenant bound to the session; that precedence is part of the contract.
const TenantHeader = "X-Tenant-ID"

// ResolveTenant resolves and validates the request's tenant through the gate
// and stores the result in context for all downstream handlers.
func ResolveTenant(gate *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := gate.Resolve(r.Context(), r.Header.Get(TenantHeader))
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			ctx := shared.ContextWithTenant(r.Context(), tenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
