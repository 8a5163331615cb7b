package demo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/internal/demo"
	"github.com/dmitrymomot/sessionkit/pkg/jwtsession"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/sessionstore"
)

const secret = "0123456789abcdef0123456789abcdef"

func testConfig() demo.Config {
	sess := jwtsession.DefaultConfig()
	sess.Secret = secret

	return demo.Config{
		Session:     sess,
		CORS:        demo.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}},
		APITokenTTL: time.Hour,
		ProfileTTL:  time.Hour,
	}
}

func newApp(t *testing.T, cfg demo.Config, checks ...func(context.Context) error) http.Handler {
	t.Helper()
	store := sessionstore.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	app, err := demo.New(demo.Deps{
		Config:   cfg,
		Registry: prometheus.NewRegistry(),
		Store:    store,
		Checks:   checks,
	})
	require.NoError(t, err)
	return app.Handler()
}

// browser keeps cookies between requests the way a user agent would.
type browser struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	rec := httptest.NewRecorder()
	b.h.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNew_InvalidSessionConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Session.Secret = "short"

	_, err := demo.New(demo.Deps{Config: cfg})
	require.Error(t, err)
	assert.ErrorIs(t, err, jwtsession.ErrInvalidConfig)
}

func TestCounter(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, newApp(t, testConfig()))

	rec := b.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["visits"])
	require.Len(t, b.cookies, 1, "session cookie issued on first write")

	rec = b.do(http.MethodGet, "/", "")
	assert.EqualValues(t, 2, decodeBody(t, rec)["visits"])
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, newApp(t, testConfig()))

	rec := b.do(http.MethodGet, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "not logged in", decodeBody(t, rec)["error"])

	rec = b.do(http.MethodPost, "/login", `{"user":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	login := decodeBody(t, rec)
	assert.Equal(t, "alice", login["user"])
	assert.NotEmpty(t, login["api_token"])

	rec = b.do(http.MethodGet, "/", "")
	body := decodeBody(t, rec)
	assert.Equal(t, "welcome, alice", body["notice"])

	rec = b.do(http.MethodGet, "/", "")
	assert.NotContains(t, decodeBody(t, rec), "notice", "flash is read once")

	rec = b.do(http.MethodGet, "/whoami", "")
	require.Equal(t, http.StatusOK, rec.Code)
	who := decodeBody(t, rec)
	assert.Equal(t, "alice", who["user"])
	assert.NotEmpty(t, who["logged_in_at"])
	assert.EqualValues(t, 2, who["visits"])

	rec = b.do(http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = b.do(http.MethodGet, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// failingDeleteStore loses every Delete.
type failingDeleteStore struct {
	*sessionstore.MemoryStore
}

func (failingDeleteStore) Delete(context.Context, string) error {
	return errors.New("store unavailable")
}

func TestLogin_ReplacedProfileDeleteFailureIsLogged(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	store := sessionstore.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	app, err := demo.New(demo.Deps{
		Config:   testConfig(),
		Logger:   logger.New(logger.WithOutput(buf)),
		Registry: prometheus.NewRegistry(),
		Store:    failingDeleteStore{store},
	})
	require.NoError(t, err)

	b := newBrowser(t, app.Handler())
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/login", `{"user":"alice"}`).Code)
	assert.NotContains(t, buf.String(), "failed to delete profile")

	rec := b.do(http.MethodPost, "/login", `{"user":"bob"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var found map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		if e["msg"] == "failed to delete profile" {
			found = e
		}
	}
	require.NotNil(t, found, "delete failure logged")
	assert.Equal(t, "ERROR", found["level"])
	assert.Equal(t, "store unavailable", found["error"])

	rec = b.do(http.MethodGet, "/whoami", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", decodeBody(t, rec)["user"])
}

func TestLogin_Validation(t *testing.T) {
	t.Parallel()

	b := newBrowser(t, newApp(t, testConfig()))

	rec := b.do(http.MethodPost, "/login", `{"user":"not valid!"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = b.do(http.MethodPost, "/login", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, b.cookies, "failed logins do not touch the session")
}

func TestAPIToken(t *testing.T) {
	t.Parallel()

	h := newApp(t, testConfig())
	b := newBrowser(t, h)

	rec := b.do(http.MethodPost, "/login", `{"user":"bob"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["api_token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	claims := decodeBody(t, rec)
	assert.Equal(t, "bob", claims["sub"])
	assert.NotEmpty(t, claims["jti"])

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	t.Run("session cookie is not an api token", func(t *testing.T) {
		var raw string
		for _, c := range b.cookies {
			if c.Name == jwtsession.DefaultConfig().Cookie.Name {
				raw = c.Value
			}
		}
		require.NotEmpty(t, raw)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+raw)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	h := newApp(t, testConfig())
	b := newBrowser(t, h)
	b.do(http.MethodGet, "/", "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwtsession.DefaultConfig().Cookie.Name, Value: "garbage"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	rec := b.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	// The garbage cookie is ignored and a fresh session is issued.
	assert.Contains(t, body, `sessionkit_cookie_decisions_total{decision="issue"} 2`)
	assert.Contains(t, body, `sessionkit_token_rejections_total{reason="malformed"} 1`)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	down := errors.New("redis down")
	h := newApp(t, testConfig(), func(context.Context) error { return down })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	h := newApp(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Empty(t, rec.Header().Values("Set-Cookie"))

	req = httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHijackGuard(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.HijackGuard = true
	h := newApp(t, cfg)
	b := newBrowser(t, h)

	rec := b.do(http.MethodPost, "/login", `{"user":"carol"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = b.do(http.MethodGet, "/whoami", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Same cookie from another client address.
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(demo.RequestIDExtractor()),
	)

	app, err := demo.New(demo.Deps{Config: testConfig(), Logger: log, Store: sessionstore.NewMemoryStore(0)})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		if e["msg"] == "request" {
			entry = e
		}
	}
	require.NotNil(t, entry, "access log line written")
	assert.Equal(t, "/whoami", entry["route"])
	assert.EqualValues(t, http.StatusUnauthorized, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}
