package echosession

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrymomot/sessionkit/pkg/jwtsession"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// ContextKey is the echo.Context key the session is stored under.
const ContextKey = "session"

// Middleware runs m for echo handlers. The session is available from the
// request context, from FromContext and under ContextKey.
//
// The handler's response writer is swapped for the one m commits through,
// so the session cookie is written before the response header.
func Middleware(m *jwtsession.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var err error
			res := c.Response()
			original := res.Writer

			m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)
				res.Writer = w
				if s, ok := m.Session(r); ok {
					c.Set(ContextKey, s)
				}
				err = next(c)
			})).ServeHTTP(original, c.Request())

			res.Writer = original
			return err
		}
	}
}

// FromContext returns the session attached by Middleware.
func FromContext(c echo.Context) (session.Session, bool) {
	s, ok := c.Get(ContextKey).(session.Session)
	return s, ok
}

// MustFromContext returns the session attached by Middleware or panics.
func MustFromContext(c echo.Context) session.Session {
	s, ok := FromContext(c)
	if !ok {
		panic("echosession: session not found in context")
	}
	return s
}
