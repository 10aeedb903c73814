package rbac

import (
	"log/slog"
	"net/http"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// Middleware wires capability checks for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequirePermission ensures the authenticated identity carries the needed
// capability before the handler runs.
func (m Middleware) RequirePermission(needed string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, &shared.AuthError{Message: "Invalid or expired session"})
				return
			}
			if err := Require(identity.Capabilities, needed); err != nil {
				if m.Logger != nil {
					m.Logger.Warn("permission denied",
						slog.String("user_id", identity.UserID),
						slog.String("capability", needed))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
