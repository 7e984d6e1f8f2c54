package auth

import "context"

// Identity is the ambient caller identity attached to every request.
// Requests without a valid bearer token carry the zero Identity, which is
// unauthenticated; handlers that require authentication check Authenticated
// rather than rejecting anonymous requests outright.
type Identity struct {
	UserID        int64
	Authenticated bool
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{}
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, or the anonymous
// identity if none was set by the authentication middleware.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(contextKey{}).(Identity); ok {
		return id
	}
	return Anonymous()
}
