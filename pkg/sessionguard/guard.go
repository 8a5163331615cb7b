package sessionguard

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultKey is the reserved session key holding the client hash.
const DefaultKey = "_hijack_guard"

// Guard clears sessions that show up from a different client than the one
// that last used them. The check is soft: the request proceeds with an
// empty session instead of failing.
type Guard struct {
	key        string
	attribute  string
	resolver   *clientip.Resolver
	logger     *slog.Logger
	onMismatch func(r *http.Request)
}

// Option configures a Guard.
type Option func(*Guard)

// WithKey sets the session key the hash is stored under.
func WithKey(key string) Option {
	return func(g *Guard) {
		if key != "" {
			g.key = key
		}
	}
}

// WithAttributeName reads the session stored under a custom attribute.
func WithAttributeName(name string) Option {
	return func(g *Guard) {
		if name != "" {
			g.attribute = name
		}
	}
}

// WithResolver sets the client IP resolver.
func WithResolver(res *clientip.Resolver) Option {
	return func(g *Guard) {
		if res != nil {
			g.resolver = res
		}
	}
}

// WithLogger sets the logger mismatches are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithMismatchHandler registers a callback run after a session was cleared.
func WithMismatchHandler(fn func(r *http.Request)) Option {
	return func(g *Guard) {
		g.onMismatch = fn
	}
}

// New creates a Guard. Without WithResolver, forwarding headers are trusted
// from any peer, see clientip.GetIP.
func New(opts ...Option) *Guard {
	g := &Guard{
		key:       DefaultKey,
		attribute: session.DefaultAttribute,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(logger.Component("sessionguard"))
	return g
}

// Hash returns the hex SHA-256 of the client IP and User-Agent.
func (g *Guard) Hash(r *http.Request) string {
	ip := clientip.GetIP(r)
	if g.resolver != nil {
		ip = g.resolver.IP(r)
	}
	sum := sha256.Sum256([]byte(ip + "\n" + r.UserAgent()))
	return hex.EncodeToString(sum[:])
}

// Check compares the request's hash with the one stored in s. On mismatch
// the whole session is cleared. The current hash is stored afterwards in
// either case. It reports whether the session survived.
func (g *Guard) Check(r *http.Request, s session.Session) bool {
	current := g.Hash(r)

	ok := true
	if stored, found := session.GetString(s, g.key); found && stored != current {
		s.Clear()
		ok = false
	}

	if err := s.Set(g.key, current); err != nil {
		g.logger.ErrorContext(r.Context(), "failed to store client hash", logger.Error(err))
	}
	return ok
}

// Middleware runs Check for every request carrying a session. It must be
// placed inside the session middleware.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, found := session.FromNamed(r.Context(), g.attribute)
		if !found {
			next.ServeHTTP(w, r)
			return
		}

		if !g.Check(r, s) {
			g.logger.WarnContext(r.Context(), "session used by a different client, cleared",
				logger.Event("session.hijack_suspected"),
			)
			if g.onMismatch != nil {
				g.onMismatch(r)
			}
		}

		next.ServeHTTP(w, r)
	})
}
