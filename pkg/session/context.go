package session

import "context"

// DefaultAttribute is the attribute name the middleware uses unless configured otherwise.
const DefaultAttribute = "session"

// attributeKey scopes session attributes in a context.
type attributeKey string

// WithSession adds a session to the context under DefaultAttribute.
func WithSession(ctx context.Context, s Session) context.Context {
	return WithNamed(ctx, DefaultAttribute, s)
}

// FromContext retrieves the session stored under DefaultAttribute.
func FromContext(ctx context.Context) (Session, bool) {
	return FromNamed(ctx, DefaultAttribute)
}

// MustFromContext retrieves a session from the context or panics
func MustFromContext(ctx context.Context) Session {
	s, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return s
}

// WithNamed adds a session to the context under a custom attribute name.
func WithNamed(ctx context.Context, name string, s Session) context.Context {
	return context.WithValue(ctx, attributeKey(name), s)
}

// FromNamed retrieves a session stored under a custom attribute name.
func FromNamed(ctx context.Context, name string) (Session, bool) {
	s, ok := ctx.Value(attributeKey(name)).(Session)
	return s, ok
}
