package jwtsession

import (
	"bufio"
	"errors"
	"net"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// Middleware attaches a lazily loaded session to every request and decides
// on the way out whether to write a fresh token, a clearing cookie or nothing.
//
// The decision is taken when the handler first writes the header or body,
// or when it returns without writing. Session changes made after the first
// write are not persisted.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skip != nil && m.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()

		fp, err := m.binder.Compute(r)
		if err != nil {
			m.logger.ErrorContext(ctx, "fingerprint source unavailable",
				logger.Event("session.fingerprint_unavailable"),
				logger.Error(err),
			)
			m.errorHandler(w, r, errors.Join(ErrFingerprintLost, err))
			return
		}

		if fp != "" {
			ctx = fingerprint.WithContext(ctx, fp)
		}

		now := m.now()
		req := &request{
			ctx:         ctx,
			token:       m.readToken(r),
			fingerprint: fp,
		}
		req.session = session.NewLazy(func() *session.Data {
			return m.load(req, now)
		})

		rw := &responseWriter{
			ResponseWriter: w,
			before:         func(h http.Header) { m.commit(h, req) },
		}

		next.ServeHTTP(rw, r.WithContext(session.WithNamed(ctx, m.attribute, req.session)))
		rw.commit()
	})
}

// responseWriter runs before once, right before the header is sent.
type responseWriter struct {
	http.ResponseWriter
	before    func(h http.Header)
	committed bool
}

func (w *responseWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	w.before(w.ResponseWriter.Header())
}

func (w *responseWriter) WriteHeader(code int) {
	// Informational responses precede the real header
	if code >= 100 && code < 200 && code != http.StatusSwitchingProtocols {
		w.ResponseWriter.WriteHeader(code)
		return
	}
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher.
func (w *responseWriter) Flush() {
	w.commit()
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack implements http.Hijacker. No cookie is written for hijacked connections.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	w.committed = true
	return http.NewResponseController(w.ResponseWriter).Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
