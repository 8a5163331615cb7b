package jwtsession

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithCookie sets the session cookie policy.
func WithCookie(t cookie.Template) Option {
	return func(m *Manager) {
		m.cookie = t
	}
}

// WithIdleTimeout sets how long a session survives without requests.
// Every issued token expires this long after it was issued.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.idleTimeout = d
	}
}

// WithRefreshTime sets the token age after which an unchanged, non-empty
// session is re-issued. Must be shorter than the idle timeout.
func WithRefreshTime(d time.Duration) Option {
	return func(m *Manager) {
		m.refreshTime = d
	}
}

// WithAttributeName sets the context attribute the session is stored under.
func WithAttributeName(name string) Option {
	return func(m *Manager) {
		m.attribute = name
	}
}

// WithFingerprint binds tokens to request metadata.
func WithFingerprint(b *fingerprint.Binder) Option {
	return func(m *Manager) {
		if b == nil {
			b = fingerprint.New()
		}
		m.binder = b
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l == nil {
			panic("jwtsession: nil logger")
		}
		m.logger = l
	}
}

// WithObserver receives decisions and token rejections.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		if o == nil {
			panic("jwtsession: nil observer")
		}
		m.observer = o
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now == nil {
			panic("jwtsession: nil clock")
		}
		m.now = now
	}
}

// WithEncryption encrypts the token inside the cookie, hiding session
// contents from the client.
func WithEncryption(e *cookie.Encrypter) Option {
	return func(m *Manager) {
		m.encrypter = e
	}
}

// WithErrorHandler handles requests the middleware cannot serve, currently
// only a fingerprint source the request cannot provide. Default: 500.
func WithErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) Option {
	return func(m *Manager) {
		if h == nil {
			panic("jwtsession: nil error handler")
		}
		m.errorHandler = h
	}
}

// WithSkip bypasses the middleware for matching requests.
func WithSkip(skip func(r *http.Request) bool) Option {
	return func(m *Manager) {
		m.skip = skip
	}
}
