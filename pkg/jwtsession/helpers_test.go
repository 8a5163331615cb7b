package jwtsession_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/jwt"
	"github.com/dmitrymomot/sessionkit/pkg/jwtsession"
)

const (
	idle    = 100 * time.Second
	refresh = 60 * time.Second
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, key string) *jwt.Service {
	t.Helper()
	svc, err := jwt.New([]byte(key))
	require.NoError(t, err)
	return svc
}

func newManager(t *testing.T, svc *jwt.Service, opts ...jwtsession.Option) *jwtsession.Manager {
	t.Helper()
	base := []jwtsession.Option{
		jwtsession.WithIdleTimeout(idle),
		jwtsession.WithRefreshTime(refresh),
		jwtsession.WithClock(func() time.Time { return now }),
	}
	m, err := jwtsession.New(jwtsession.HS256(svc), append(base, opts...)...)
	require.NoError(t, err)
	return m
}

// tokenIssuedAgo builds a session token as if issued age before now.
func tokenIssuedAgo(t *testing.T, svc *jwt.Service, age time.Duration, data map[string]any) string {
	t.Helper()
	iat := now.Add(-age)
	raw, err := svc.Build(map[string]any{jwtsession.ClaimSessionData: data}, iat, iat.Add(idle))
	require.NoError(t, err)
	return raw
}

func serve(m *jwtsession.Manager, h http.HandlerFunc, cookieValue string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: cookie.DefaultName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	m.Middleware(h).ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookie.DefaultName {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, svc *jwt.Service, raw string) map[string]any {
	t.Helper()
	tok, err := svc.Parse(raw)
	require.NoError(t, err)
	require.NoError(t, svc.Verify(tok))
	return tok.Claims()
}

type recordingObserver struct {
	mu         sync.Mutex
	decisions  []jwtsession.Decision
	rejections []jwtsession.Reason
}

func (o *recordingObserver) ObserveDecision(_ context.Context, d jwtsession.Decision) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.decisions = append(o.decisions, d)
}

func (o *recordingObserver) ObserveRejection(_ context.Context, r jwtsession.Reason, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejections = append(o.rejections, r)
}

// countingCodec counts Verify calls.
type countingCodec struct {
	jwtsession.Codec
	verified int
}

func (c *countingCodec) Verify(tok jwtsession.Token) error {
	c.verified++
	return c.Codec.Verify(tok)
}
