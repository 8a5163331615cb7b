package jwtsession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
	"github.com/dmitrymomot/sessionkit/pkg/jwt"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// MaxCookieSize is the cookie size browsers are guaranteed to accept.
const MaxCookieSize = 4096

// Manager carries sessions in signed token cookies. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	codec        Codec
	cookie       cookie.Template
	idleTimeout  time.Duration
	refreshTime  time.Duration
	attribute    string
	binder       *fingerprint.Binder
	encrypter    *cookie.Encrypter
	logger       *slog.Logger
	observer     Observer
	now          func() time.Time
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
	skip         func(r *http.Request) bool
}

// New creates a Manager. Invalid settings, including a refresh time not
// shorter than the idle timeout, are reported as ErrInvalidConfig.
func New(codec Codec, opts ...Option) (*Manager, error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: codec is required", ErrInvalidConfig)
	}

	m := &Manager{
		codec:        codec,
		cookie:       cookie.DefaultTemplate(),
		idleTimeout:  DefaultIdleTimeout,
		refreshTime:  DefaultRefreshTime,
		attribute:    session.DefaultAttribute,
		binder:       fingerprint.New(),
		logger:       logger.Discard(),
		observer:     nopObserver{},
		now:          time.Now,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := validate.Struct(settings{
		IdleTimeout: m.idleTimeout,
		RefreshTime: m.refreshTime,
		Attribute:   m.attribute,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := m.cookie.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	m.logger = m.logger.With(logger.Component("jwtsession"), logger.Cookie(m.cookie.Name()))

	return m, nil
}

// Session returns the session attached by the middleware.
func (m *Manager) Session(r *http.Request) (session.Session, bool) {
	return session.FromNamed(r.Context(), m.attribute)
}

// CookieName returns the session cookie name.
func (m *Manager) CookieName() string {
	return m.cookie.Name()
}

// FromRequest returns the session stored under the default attribute.
func FromRequest(r *http.Request) (session.Session, bool) {
	return session.FromContext(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// request is the per-request state shared by the loader and the commit step.
type request struct {
	ctx         context.Context
	token       Token
	fingerprint string
	session     *session.Lazy
}

// readToken extracts and decodes the session cookie. Every failure yields a
// nil token: a broken cookie is the same as no cookie.
func (m *Manager) readToken(r *http.Request) Token {
	c, err := r.Cookie(m.cookie.Name())
	if err != nil || c.Value == "" {
		return nil
	}

	raw := c.Value
	if m.encrypter != nil {
		plain, err := m.encrypter.Decrypt(raw)
		if err != nil {
			m.reject(r.Context(), ReasonDecrypt, err)
			return nil
		}
		raw = string(plain)
	}

	tok, err := m.codec.Parse(raw)
	if err != nil {
		m.reject(r.Context(), ReasonMalformed, err)
		return nil
	}
	return tok
}

// load verifies the token and builds the container. It never fails: any
// problem results in an empty session.
func (m *Manager) load(req *request, now time.Time) *session.Data {
	if req.token == nil {
		return session.NewData()
	}

	if err := m.codec.Verify(req.token); err != nil {
		m.reject(req.ctx, ReasonSignature, err)
		return session.NewData()
	}

	claims := req.token.Claims()
	if err := jwt.CheckTime(claims, now); err != nil {
		m.reject(req.ctx, ReasonExpired, err)
		return session.NewData()
	}

	if err := m.binder.Validate(claims, req.fingerprint); err != nil {
		m.reject(req.ctx, ReasonFingerprint, err)
		return session.NewData()
	}

	raw, ok := claims[ClaimSessionData]
	if !ok || raw == nil {
		return session.NewData()
	}
	values, ok := raw.(map[string]any)
	if !ok {
		m.reject(req.ctx, ReasonSessionData, fmt.Errorf("%w: %T", ErrMissingData, raw))
		return session.NewData()
	}

	data, err := session.NewDataFrom(values)
	if err != nil {
		m.reject(req.ctx, ReasonSessionData, err)
		return session.NewData()
	}
	return data
}

// decide picks the cookie outcome. Precedence: a changed empty session is
// cleared, a changed session is issued, an unchanged non-empty session whose
// token is old enough is refreshed.
func (m *Manager) decide(req *request, now time.Time) Decision {
	s := req.session
	if s.HasChanged() {
		if s.IsEmpty() {
			return DecisionClear
		}
		return DecisionIssue
	}
	if m.refreshDue(req.token, now) && !s.IsEmpty() {
		return DecisionRefresh
	}
	return DecisionNone
}

// refreshDue reports whether the token carries iat and is at least
// refreshTime old. Tokens without iat are never refreshed.
func (m *Manager) refreshDue(tok Token, now time.Time) bool {
	if tok == nil {
		return false
	}
	iat, ok := jwt.TimeClaim(tok.Claims(), jwt.ClaimIssuedAt)
	return ok && !now.Before(iat.Add(m.refreshTime))
}

// commit writes the Set-Cookie header for the request's decision.
func (m *Manager) commit(h http.Header, req *request) {
	now := m.now()
	d := m.decide(req, now)
	m.observer.ObserveDecision(req.ctx, d)

	switch d {
	case DecisionClear:
		cookie.Replace(h, m.cookie.Expire(now))
	case DecisionIssue, DecisionRefresh:
		c, err := m.issue(req.ctx, req.session.Values(), req.fingerprint, now)
		if err != nil {
			m.logger.ErrorContext(req.ctx, "failed to issue session token",
				logger.Event("session.issue_failed"),
				logger.Error(err),
			)
			return
		}
		cookie.Replace(h, c)
	default:
		return
	}

	m.logger.DebugContext(req.ctx, "session cookie written",
		logger.Event("session.cookie_written"),
		logger.Decision(string(d)),
	)
}

// issue builds a fresh token cookie: new iat, exp = now + idle timeout, new jti.
func (m *Manager) issue(ctx context.Context, values map[string]any, fp string, now time.Time) (*http.Cookie, error) {
	claims := map[string]any{
		ClaimSessionData: values,
		ClaimID:          uuid.NewString(),
	}
	m.binder.Bind(claims, fp)

	raw, err := m.codec.Build(claims, now, now.Add(m.idleTimeout))
	if err != nil {
		return nil, err
	}

	if m.encrypter != nil {
		if raw, err = m.encrypter.Encrypt([]byte(raw)); err != nil {
			return nil, err
		}
	}

	c := m.cookie.Issue(raw, now, m.idleTimeout)
	if size := len(c.String()); size > MaxCookieSize {
		m.logger.WarnContext(ctx, "session cookie exceeds browser limit",
			logger.Error(ErrCookieTooLarge),
			slog.Int("size", size),
		)
	}
	return c, nil
}

func (m *Manager) reject(ctx context.Context, reason Reason, err error) {
	m.observer.ObserveRejection(ctx, reason, err)

	level := slog.LevelDebug
	if errors.Is(err, fingerprint.ErrInvalid) {
		// Probable replay from another client
		level = slog.LevelWarn
	}
	m.logger.Log(ctx, level, "session token ignored",
		logger.Event("session.token_rejected"),
		logger.Reason(string(reason)),
		logger.Error(err),
	)
}
