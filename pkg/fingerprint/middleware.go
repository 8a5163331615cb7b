package fingerprint

import (
	"context"
	"net/http"
)

type contextKey struct{}

// WithContext stores a computed fingerprint in ctx.
func WithContext(ctx context.Context, fp string) context.Context {
	return context.WithValue(ctx, contextKey{}, fp)
}

// FromContext returns the fingerprint stored by WithContext.
func FromContext(ctx context.Context) (string, bool) {
	fp, ok := ctx.Value(contextKey{}).(string)
	return fp, ok && fp != ""
}

// Middleware computes the fingerprint once per request and stores it in the
// context. Requests lacking required metadata are answered with 500.
func (b *Binder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp, err := b.Compute(r)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), fp)))
	})
}
