package shared

import "context"

// Identity describes the authenticated actor attached to a request.
type Identity struct {
	SessionID    string
	UserID       string
	TenantID     string
	Capabilities []string
}

type identityContextKey struct{}

type tenantContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// ContextWithTenant stores the gate-validated tenant id in context. Handlers
// must read the tenant from here, never from raw request input.
func ContextWithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenantID)
}

// TenantFromContext extracts the validated tenant id from context.
func TenantFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tenantContextKey{}).(string)
	return id, ok && id != ""
}
