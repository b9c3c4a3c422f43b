// Package api exposes an auth.Manager over HTTP.
//
// Request bodies are form encoded, responses are JSON objects. The session
// id travels in the session_id cookie.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andrebq/authd/auth"
	"github.com/andrebq/authd/credential"
	"github.com/andrebq/authd/internal/logutil"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/hlog"
)

type (
	// Manager is the subset of auth.Manager used by the handlers.
	Manager interface {
		RegisterUser(ctx context.Context, email, password string) (auth.User, error)
		ValidLogin(ctx context.Context, email, password string) (bool, error)
		CreateSession(ctx context.Context, email string) (string, bool, error)
		UserFromSessionID(ctx context.Context, sessionID string) (auth.User, bool, error)
		DestroySession(ctx context.Context, userID int64) error
		ResetPasswordToken(ctx context.Context, email string) (string, error)
		UpdatePassword(ctx context.Context, resetToken, newPassword string) error
	}

	Options struct {
		// InsecureCookie allows the session cookie over plain HTTP.
		InsecureCookie bool
	}

	handlers struct {
		manager Manager
		opts    Options
	}

	message map[string]string
)

const (
	SessionCookie = "session_id"
)

func AsHandler(ctx context.Context, m Manager, opts Options) http.Handler {
	h := &handlers{manager: m, opts: opts}
	router := httprouter.New()
	router.HandlerFunc("GET", "/", h.welcome)
	router.HandlerFunc("POST", "/users", h.registerUser)
	router.HandlerFunc("POST", "/sessions", h.login)
	router.Handler("DELETE", "/sessions", RequireSession(m, http.HandlerFunc(h.logout)))
	router.Handler("GET", "/profile", RequireSession(m, http.HandlerFunc(h.profile)))
	router.HandlerFunc("POST", "/reset_password", h.resetPasswordToken)
	router.HandlerFunc("PUT", "/reset_password", h.updatePassword)

	log := logutil.GetOrDefault(ctx)
	var handler http.Handler = router
	handler = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	})(handler)
	handler = hlog.RequestIDHandler("req_id", "Request-Id")(handler)
	handler = hlog.NewHandler(log)(handler)
	return handler
}

func (h *handlers) welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, message{"message": "Bienvenue"})
}

func (h *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	email, password := r.PostFormValue("email"), r.PostFormValue("password")
	if len(email) == 0 || len(password) == 0 {
		writeJSON(w, http.StatusBadRequest, message{"message": "email and password are required"})
		return
	}
	u, err := h.manager.RegisterUser(r.Context(), email, password)
	var exists auth.UserAlreadyExists
	var tooLong credential.PasswordTooLong
	if errors.As(err, &exists) {
		writeJSON(w, http.StatusBadRequest, message{"message": "email already registered"})
		return
	} else if errors.As(err, &tooLong) {
		writeJSON(w, http.StatusBadRequest, message{"message": "password is too long"})
		return
	} else if err != nil {
		internalError(w, r, err, "Unable to register user")
		return
	}
	writeJSON(w, http.StatusOK, message{"email": u.Email, "message": "user created"})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email, password := r.PostFormValue("email"), r.PostFormValue("password")
	if len(email) == 0 || len(password) == 0 {
		writeJSON(w, http.StatusBadRequest, message{"message": "email and password are required"})
		return
	}
	valid, err := h.manager.ValidLogin(ctx, email, password)
	if err != nil {
		internalError(w, r, err, "Unable to validate login")
		return
	} else if !valid {
		writeStatus(w, http.StatusUnauthorized)
		return
	}
	sessionID, ok, err := h.manager.CreateSession(ctx, email)
	if err != nil {
		internalError(w, r, err, "Unable to create session")
		return
	} else if !ok {
		writeStatus(w, http.StatusUnauthorized)
		return
	}
	http.SetCookie(w, h.sessionCookie(sessionID))
	writeJSON(w, http.StatusOK, message{"email": email, "message": "logged in"})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	err := h.manager.DestroySession(r.Context(), u.ID)
	if err != nil {
		internalError(w, r, err, "Unable to destroy session")
		return
	}
	c := h.sessionCookie("")
	c.MaxAge = -1
	http.SetCookie(w, c)
	writeJSON(w, http.StatusOK, message{"message": "logged out"})
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, message{"email": u.Email})
}

func (h *handlers) resetPasswordToken(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	token, err := h.manager.ResetPasswordToken(r.Context(), email)
	var notFound auth.UserNotFound
	if errors.As(err, &notFound) {
		writeStatus(w, http.StatusForbidden)
		return
	} else if err != nil {
		internalError(w, r, err, "Unable to issue reset token")
		return
	}
	writeJSON(w, http.StatusOK, message{"email": email, "reset_token": token})
}

func (h *handlers) updatePassword(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	token, password := r.PostFormValue("reset_token"), r.PostFormValue("new_password")
	if len(password) == 0 {
		writeJSON(w, http.StatusBadRequest, message{"message": "new_password is required"})
		return
	}
	err := h.manager.UpdatePassword(r.Context(), token, password)
	var tooLong credential.PasswordTooLong
	if errors.Is(err, auth.InvalidResetToken{}) {
		writeStatus(w, http.StatusForbidden)
		return
	} else if errors.As(err, &tooLong) {
		writeJSON(w, http.StatusBadRequest, message{"message": "new_password is too long"})
		return
	} else if err != nil {
		internalError(w, r, err, "Unable to update password")
		return
	}
	writeJSON(w, http.StatusOK, message{"email": email, "message": "Password updated"})
}

func (h *handlers) sessionCookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !h.opts.InsecureCookie,
	}
}

func writeStatus(w http.ResponseWriter, status int) {
	writeJSON(w, status, message{"message": http.StatusText(status)})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	hlog.FromRequest(r).Error().Err(err).Msg(msg)
	writeStatus(w, http.StatusInternalServerError)
}
