package demo

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/jwt"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/sessionstore"
)

// Session keys used by the demo.
const (
	keyVisits    = "visits"
	keyUser      = "user"
	keyProfileID = "profile_id"
	flashNotice  = "notice"
)

type counterResponse struct {
	Visits int    `json:"visits"`
	Notice string `json:"notice,omitempty"`
}

type loginRequest struct {
	User string `json:"user" validate:"required,alphanum,max=64"`
}

type loginResponse struct {
	User     string `json:"user"`
	APIToken string `json:"api_token"`
}

// profile is the server-side part of a login, kept in the session store.
type profile struct {
	User       string    `json:"user"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

type whoamiResponse struct {
	User       string `json:"user"`
	LoggedInAt string `json:"logged_in_at,omitempty"`
	Visits     int    `json:"visits"`
}

func (a *App) session(r *http.Request) session.Session {
	s, _ := a.sessions.Session(r)
	return s
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

// counter counts visits in the cookie session.
func (a *App) counter(w http.ResponseWriter, r *http.Request) {
	s := a.session(r)

	visits, _ := session.GetInt(s, keyVisits)
	visits++
	if err := s.Set(keyVisits, visits); err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	resp := counterResponse{Visits: visits}
	if err := a.flash.GetFlash(w, r, flashNotice, &resp.Notice); err != nil && !errors.Is(err, cookie.ErrCookieNotFound) {
		a.log.WarnContext(r.Context(), "unreadable flash cookie", logger.Error(err))
	}

	render.JSON(w, r, resp)
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		a.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		a.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	now := a.now()
	id := sessionstore.NewID()
	p := profile{User: req.User, LoggedInAt: now.UTC()}
	if err := a.store.Save(r.Context(), id, map[string]any{"profile": p}, a.cfg.ProfileTTL); err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	s := a.session(r)
	if old, ok := session.GetString(s, keyProfileID); ok {
		if err := a.store.Delete(r.Context(), old); err != nil {
			a.log.ErrorContext(r.Context(), "failed to delete profile", logger.Error(err))
		}
	}
	if err := s.Set(keyUser, req.User); err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if err := s.Set(keyProfileID, id); err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	token, err := a.api.Build(map[string]any{
		"sub": req.User,
		"jti": uuid.NewString(),
	}, now, now.Add(a.cfg.APITokenTTL))
	if err != nil {
		a.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	if err := a.flash.SetFlash(w, flashNotice, "welcome, "+req.User); err != nil {
		a.log.ErrorContext(r.Context(), "failed to set flash", logger.Error(err))
	}

	a.log.InfoContext(r.Context(), "user logged in", logger.UserID(req.User), logger.Event("demo.login"))
	render.JSON(w, r, loginResponse{User: req.User, APIToken: token})
}

func (a *App) logout(w http.ResponseWriter, r *http.Request) {
	s := a.session(r)
	if id, ok := session.GetString(s, keyProfileID); ok {
		if err := a.store.Delete(r.Context(), id); err != nil {
			a.log.ErrorContext(r.Context(), "failed to delete profile", logger.Error(err))
		}
	}
	s.Clear()

	if err := a.flash.SetFlash(w, flashNotice, "logged out"); err != nil {
		a.log.ErrorContext(r.Context(), "failed to set flash", logger.Error(err))
	}
	render.NoContent(w, r)
}

func (a *App) whoami(w http.ResponseWriter, r *http.Request) {
	s := a.session(r)
	user, ok := session.GetString(s, keyUser)
	if !ok {
		a.fail(w, r, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	resp := whoamiResponse{User: user}
	resp.Visits, _ = session.GetInt(s, keyVisits)

	if id, ok := session.GetString(s, keyProfileID); ok {
		data, err := a.store.Load(r.Context(), id)
		switch {
		case err == nil:
			var p profile
			if err := session.Decode(data, "profile", &p); err == nil {
				resp.LoggedInAt = p.LoggedInAt.Format(time.RFC3339)
			}
		case errors.Is(err, sessionstore.ErrNotFound):
			// Profile expired before the cookie session.
		default:
			a.fail(w, r, http.StatusInternalServerError, err)
			return
		}
	}

	render.JSON(w, r, resp)
}

func (a *App) apiMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwt.ClaimsFromContext(r.Context())
	if !ok {
		a.fail(w, r, http.StatusUnauthorized, errUnauthenticated)
		return
	}
	render.JSON(w, r, claims)
}
