package jwt

import (
	"context"
	"log/slog"
)

type contextKey struct{ name string }

func (c contextKey) String() string { return c.name }

var tokenContextKey = &contextKey{name: "jwt"}

// WithToken stores the verified token in the context.
func WithToken(ctx context.Context, tok *Token) context.Context {
	return context.WithValue(ctx, tokenContextKey, tok)
}

// TokenFromContext returns the verified token stored by Middleware.
func TokenFromContext(ctx context.Context) (*Token, bool) {
	tok, ok := ctx.Value(tokenContextKey).(*Token)
	return tok, ok && tok != nil
}

// ClaimsFromContext returns the claim set of the verified token, if any.
func ClaimsFromContext(ctx context.Context) (map[string]any, bool) {
	tok, ok := TokenFromContext(ctx)
	if !ok {
		return nil, false
	}
	return tok.Claims(), true
}

// LoggerExtractor returns a logger context extractor that adds the jti of
// the verified token as "token_id".
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		if id, _ := claims["jti"].(string); id != "" {
			return slog.String("token_id", id), true
		}
		return slog.Attr{}, false
	}
}
