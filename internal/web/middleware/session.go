package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/moonpull/moonpull-web/internal/guard"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
	"github.com/moonpull/moonpull-web/internal/session"
)

const sessionContextKey = contextKey("session")

// CurrentSession returns the validated server session for the request, or nil
func CurrentSession(ctx context.Context) *model.Session {
	s, _ := ctx.Value(sessionContextKey).(*model.Session)
	return s
}

// CurrentProfile returns the signed-in profile from the request's holder
func CurrentProfile(ctx context.Context) *model.Profile {
	holder := guard.HolderFrom(ctx)
	if holder == nil {
		return nil
	}
	profile, ok := holder.CurrentProfile()
	if !ok {
		return nil
	}
	return &profile
}

// Session gives every request its own session holder. The cookie is the
// credential marker, but a token the auth service rejects counts as no
// cookie at all and the stale cookie is expired. Logging out through the
// holder invalidates the token server-side.
func Session(authService *auth.Service, logger *slog.Logger, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var (
				token string
				valid *model.Session
			)
			marker := session.CookieMarker{Request: r, Name: auth.CookieName}
			if marker.Present() {
				cookie, _ := r.Cookie(auth.CookieName)
				token = cookie.Value
				found, err := authService.ValidateSession(ctx, token)
				if err != nil {
					logger.Debug("session cookie rejected", slog.String("error", err.Error()))
					http.SetCookie(w, auth.ExpiredCookie(auth.CookieName, secureCookies))
				} else {
					valid = found
				}
			}

			invalidator := session.InvalidatorFunc(func(ctx context.Context) error {
				return authService.InvalidateSession(ctx, token)
			})
			holder := session.NewHolder(invalidator, logger)
			holder.Bootstrap(session.MarkerFunc(func() bool { return valid != nil }))
			if valid != nil {
				profile := valid.Profile()
				holder.Login(profile.Nickname, profile.Role)
				ctx = context.WithValue(ctx, sessionContextKey, valid)
			}

			ctx = guard.WithHolder(ctx, holder)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
