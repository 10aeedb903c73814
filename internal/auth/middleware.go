package auth

import (
	"net/http"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/shared"
)

// SessionHeader carries the opaque session identifier. Clients must not
// parse the value; it has no internal structure.
const SessionHeader = "X-Session-ID"

// Authenticate resolves the session header into an identity in context.
// Missing, unknown and expired sessions are all rejected the same way.
func Authenticate(sessions *shared.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				httpx.RespondError(w, &shared.AuthError{Message: "Session ID is required"})
				return
			}
			sess, ok := sessions.Lookup(sessionID)
			if !ok {
				httpx.RespondError(w, &shared.AuthError{Message: msgInvalidSession})
				return
			}
			ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
				SessionID:    sess.ID,
				UserID:       sess.UserID,
				TenantID:     sess.TenantID,
				Capabilities: sess.Capabilities,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
