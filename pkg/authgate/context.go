package authgate

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithPrincipal adds an authenticated principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext retrieves the principal from the context.
// Returns nil, false if no principal is present.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok
}

// MustFromContext retrieves the principal from the context and panics if it
// is absent. Use only behind Middleware, which guarantees the principal.
func MustFromContext(ctx context.Context) *Principal {
	p, ok := FromContext(ctx)
	if !ok || p == nil {
		panic("authgate: no principal in context")
	}
	return p
}

// LoggerExtractor returns a logger context extractor that attaches the
// authenticated user and tenant ids to log records. Secret material never
// travels through the principal, so the extractor is safe on every record.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		p, ok := FromContext(ctx)
		if !ok || p == nil {
			return slog.Attr{}, false
		}
		return slog.Group("principal",
			slog.String("tenant_id", p.TenantID.String()),
			slog.String("user_id", p.UserID.String()),
		), true
	}
}
