package api

import (
	"context"
	"net/http"

	"github.com/andrebq/authd/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type (
	ctxKey byte
)

var (
	userKey = ctxKey(1)
)

// RequireSession only calls next when the request carries the session
// cookie of an existing user, the user is then available through
// UserFromContext. Other requests get 403.
func RequireSession(m Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if c, err := r.Cookie(SessionCookie); err == nil {
			sessionID = c.Value
		}
		u, found, err := m.UserFromSessionID(r.Context(), sessionID)
		if err != nil {
			internalError(w, r, err, "Unable to lookup session")
			return
		} else if !found {
			writeStatus(w, http.StatusForbidden)
			return
		}
		hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("user_id", u.ID)
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func UserFromContext(ctx context.Context) auth.User {
	u, _ := ctx.Value(userKey).(auth.User)
	return u
}
