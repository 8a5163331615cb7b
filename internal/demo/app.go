package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/go-playground/validator.v9"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/jwt"
	"github.com/dmitrymomot/sessionkit/pkg/jwtsession"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/sessionguard"
	"github.com/dmitrymomot/sessionkit/pkg/sessionmetrics"
	"github.com/dmitrymomot/sessionkit/pkg/sessionstore"
)

// HKDF info strings for keys derived from the session secret.
var (
	apiKeyInfo   = []byte("sessionkit/api-token")
	flashKeyInfo = []byte("sessionkit/flash")
)

// Deps are the collaborators the demo app is built from.
type Deps struct {
	Config   Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Store    sessionstore.Store
	// Checks are run by the readiness probe.
	Checks []func(context.Context) error
	Now    func() time.Time
}

// App is the demo HTTP application.
type App struct {
	cfg      Config
	log      *slog.Logger
	sessions *jwtsession.Manager
	guard    *sessionguard.Guard
	api      *jwt.Service
	flash    *cookie.Manager
	store    sessionstore.Store
	validate *validator.Validate
	now      func() time.Time
	router   chi.Router
}

// New wires the session stack and the routes.
func New(d Deps) (*App, error) {
	cfg := d.Config
	if err := cfg.Session.Validate(); err != nil {
		return nil, err
	}

	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	if d.Store == nil {
		d.Store = sessionstore.NewMemoryStore(time.Minute)
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	sessions, err := jwtsession.NewFromConfig(cfg.Session,
		jwtsession.WithLogger(d.Logger),
		jwtsession.WithObserver(sessionmetrics.New(d.Registry)),
		jwtsession.WithClock(d.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("session manager: %w", err)
	}

	apiKey, err := jwt.DeriveKey([]byte(cfg.Session.Secret), apiKeyInfo)
	if err != nil {
		return nil, err
	}
	api, err := jwt.New(apiKey)
	if err != nil {
		return nil, err
	}

	flashKey, err := jwt.DeriveKey([]byte(cfg.Session.Secret), flashKeyInfo)
	if err != nil {
		return nil, err
	}
	flash, err := cookie.New([]string{string(flashKey)},
		cookie.WithSecure(cfg.Session.Cookie.Secure),
		cookie.WithMaxAge(60),
	)
	if err != nil {
		return nil, fmt.Errorf("flash cookies: %w", err)
	}

	a := &App{
		cfg:      cfg,
		log:      d.Logger,
		sessions: sessions,
		api:      api,
		flash:    flash,
		store:    d.Store,
		validate: validator.New(),
		now:      d.Now,
	}

	if cfg.HijackGuard {
		res, err := clientip.NewFromConfig(cfg.Session.ClientIP)
		if err != nil {
			return nil, err
		}
		a.guard = sessionguard.New(
			sessionguard.WithResolver(res),
			sessionguard.WithLogger(d.Logger),
			sessionguard.WithAttributeName(cfg.Session.AttributeName),
		)
	}

	a.router = a.routes(d.Registry, d.Checks)
	return a, nil
}

// Handler returns the root handler.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) routes(reg *prometheus.Registry, checks []func(context.Context) error) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(a.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", httpserver.HealthCheckHandler(a.log))
	r.Get("/readyz", httpserver.HealthCheckHandler(a.log, checks...))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(a.sessions.Middleware)
		if a.guard != nil {
			r.Use(a.guard.Middleware)
		}

		r.Get("/", a.counter)
		r.Post("/login", a.login)
		r.Post("/logout", a.logout)
		r.Get("/whoami", a.whoami)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
			Service: a.api,
			Now:     a.now,
		}))
		r.Get("/me", a.apiMe)
	})

	return r
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

var errUnauthenticated = errors.New("not logged in")
