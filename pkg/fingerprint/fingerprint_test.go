package fingerprint_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
)

func createTestRequest(headers map[string]string, remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.RemoteAddr = remoteAddr
	return req
}

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

func TestCompute(t *testing.T) {
	t.Parallel()

	req := createTestRequest(map[string]string{"User-Agent": chromeUA}, "192.168.1.100:54321")

	t.Run("deterministic", func(t *testing.T) {
		b := fingerprint.New(fingerprint.RemoteAddr(), fingerprint.UserAgent())

		fps := make(map[string]bool)
		for range 50 {
			fp, err := b.Compute(req)
			require.NoError(t, err)
			fps[fp] = true
		}
		assert.Len(t, fps, 1)
	})

	t.Run("order sensitive", func(t *testing.T) {
		fp1, err := fingerprint.New(fingerprint.RemoteAddr(), fingerprint.UserAgent()).Compute(req)
		require.NoError(t, err)
		fp2, err := fingerprint.New(fingerprint.UserAgent(), fingerprint.RemoteAddr()).Compute(req)
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp2)
	})

	t.Run("value sensitive", func(t *testing.T) {
		b := fingerprint.New(fingerprint.RemoteAddr(), fingerprint.UserAgent())
		fp1, err := b.Compute(req)
		require.NoError(t, err)

		other := createTestRequest(map[string]string{"User-Agent": chromeUA}, "192.168.1.101:54321")
		fp2, err := b.Compute(other)
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp2)

		other = createTestRequest(map[string]string{"User-Agent": "curl/8.0"}, "192.168.1.100:54321")
		fp3, err := b.Compute(other)
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp3)
	})

	t.Run("port is ignored", func(t *testing.T) {
		b := fingerprint.New(fingerprint.RemoteAddr())
		fp1, err := b.Compute(req)
		require.NoError(t, err)
		fp2, err := b.Compute(createTestRequest(nil, "192.168.1.100:1"))
		require.NoError(t, err)
		assert.Equal(t, fp1, fp2)
	})

	t.Run("hash not concatenation", func(t *testing.T) {
		b := fingerprint.New(fingerprint.RemoteAddr(), fingerprint.UserAgent())
		fp, err := b.Compute(req)
		require.NoError(t, err)

		assert.NotContains(t, fp, "192.168.1.100")
		assert.NotContains(t, fp, "Mozilla")
		assert.Len(t, fp, 43) // base64url of 32 bytes, no padding
		assert.NotContains(t, fp, "=")
	})

	t.Run("value boundaries", func(t *testing.T) {
		b := fingerprint.New(fingerprint.Header("X-A"), fingerprint.Header("X-B"))
		fp1, err := b.Compute(createTestRequest(map[string]string{"X-A": "ab", "X-B": "c"}, "1.1.1.1:1"))
		require.NoError(t, err)
		fp2, err := b.Compute(createTestRequest(map[string]string{"X-A": "a", "X-B": "bc"}, "1.1.1.1:1"))
		require.NoError(t, err)
		assert.NotEqual(t, fp1, fp2)
	})

	t.Run("missing source", func(t *testing.T) {
		b := fingerprint.New(fingerprint.UserAgent())
		noUA := createTestRequest(nil, "192.168.1.100:54321")
		noUA.Header.Del("User-Agent")

		_, err := b.Compute(noUA)
		assert.ErrorIs(t, err, fingerprint.ErrSourceMissing)

		_, err = fingerprint.New(fingerprint.RemoteAddr()).Compute(createTestRequest(nil, ""))
		assert.ErrorIs(t, err, fingerprint.ErrSourceMissing)
	})

	t.Run("disabled", func(t *testing.T) {
		fp, err := fingerprint.New().Compute(createTestRequest(nil, ""))
		require.NoError(t, err)
		assert.Empty(t, fp)

		var nilBinder *fingerprint.Binder
		assert.False(t, nilBinder.Enabled())
	})
}

func TestBindValidate(t *testing.T) {
	t.Parallel()

	b := fingerprint.New(fingerprint.UserAgent())
	req := createTestRequest(map[string]string{"User-Agent": chromeUA}, "10.0.0.1:1")
	fp, err := b.Compute(req)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		claims := map[string]any{}
		b.Bind(claims, fp)
		assert.Equal(t, fp, claims[fingerprint.ClaimName])
		assert.NoError(t, b.Validate(claims, fp))
	})

	t.Run("mismatch", func(t *testing.T) {
		other, err := b.Compute(createTestRequest(map[string]string{"User-Agent": "curl/8.0"}, "10.0.0.1:1"))
		require.NoError(t, err)

		claims := map[string]any{}
		b.Bind(claims, fp)
		err = b.Validate(claims, other)
		assert.ErrorIs(t, err, fingerprint.ErrMismatch)
		assert.ErrorIs(t, err, fingerprint.ErrInvalid)
	})

	t.Run("missing claim", func(t *testing.T) {
		err := b.Validate(map[string]any{}, fp)
		assert.ErrorIs(t, err, fingerprint.ErrMissingClaim)
		assert.ErrorIs(t, err, fingerprint.ErrInvalid)
	})

	t.Run("wrong claim type", func(t *testing.T) {
		assert.ErrorIs(t, b.Validate(map[string]any{"fp": 42.0}, fp), fingerprint.ErrMismatch)
	})

	t.Run("disabled is a no-op", func(t *testing.T) {
		disabled := fingerprint.New()
		claims := map[string]any{}
		disabled.Bind(claims, "anything")
		assert.Empty(t, claims)
		assert.NoError(t, disabled.Validate(map[string]any{"fp": "garbage"}, ""))
	})
}

func TestSourceByName(t *testing.T) {
	t.Parallel()

	req := createTestRequest(map[string]string{
		"User-Agent":      chromeUA,
		"X-Forwarded-For": "203.0.113.7",
		"X-Device":        "tablet",
		"Accept":          "text/html",
	}, "10.0.0.1:1234")

	res, err := clientip.New(nil, "10.0.0.0/8")
	require.NoError(t, err)

	tests := []struct {
		name string
		want string
	}{
		{"remote_addr", "10.0.0.1"},
		{"user_agent", chromeUA},
		{"USER_AGENT", chromeUA},
		{"client_ip", "203.0.113.7"},
		{"header:X-Device", "tablet"},
		{"header:x-device", "tablet"},
		{"header_set", "accept,user-agent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := fingerprint.SourceByName(tt.name, res)
			require.NoError(t, err)
			v, err := src(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		for _, name := range []string{"cookie", "header:", ""} {
			_, err := fingerprint.SourceByName(name, nil)
			assert.ErrorIs(t, err, fingerprint.ErrUnknownSource, name)
		}
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	b, err := fingerprint.NewFromConfig(fingerprint.Config{Sources: []string{"remote_addr", "", "user_agent"}}, nil)
	require.NoError(t, err)
	assert.True(t, b.Enabled())

	direct := fingerprint.New(fingerprint.RemoteAddr(), fingerprint.UserAgent())
	req := createTestRequest(map[string]string{"User-Agent": chromeUA}, "10.0.0.1:1")

	fp1, err := b.Compute(req)
	require.NoError(t, err)
	fp2, err := direct.Compute(req)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	b, err = fingerprint.NewFromConfig(fingerprint.Config{}, nil)
	require.NoError(t, err)
	assert.False(t, b.Enabled())

	_, err = fingerprint.NewFromConfig(fingerprint.Config{Sources: []string{"bogus"}}, nil)
	assert.True(t, errors.Is(err, fingerprint.ErrUnknownSource))
}

func TestContext(t *testing.T) {
	t.Parallel()

	ctx := fingerprint.WithContext(context.Background(), "abc")
	fp, ok := fingerprint.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", fp)

	_, ok = fingerprint.FromContext(context.Background())
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	b := fingerprint.New(fingerprint.UserAgent())

	t.Run("adds fingerprint to request context", func(t *testing.T) {
		var captured string
		handler := b.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = fingerprint.FromContext(r.Context())
		}))

		req := createTestRequest(map[string]string{"User-Agent": "TestBot/1.0"}, "192.168.1.100:54321")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		want, err := b.Compute(req)
		require.NoError(t, err)
		assert.Equal(t, want, captured)
	})

	t.Run("fails loudly without metadata", func(t *testing.T) {
		called := false
		handler := b.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := createTestRequest(nil, "192.168.1.100:54321")
		req.Header.Del("User-Agent")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "Internal Server Error"))
	})
}
