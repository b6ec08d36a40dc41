package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/moonpull/moonpull-web/internal/api/apierr"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Auth rejects requests without a valid session
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey, session)))
		})
	}
}

// OptionalAuth attaches the session if the request carries a valid one
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				if session, err := authService.ValidateSession(r.Context(), token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects authenticated requests lacking every one of roles.
// It must run after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			for _, role := range roles {
				if model.HasRole(session.Roles, role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			apierr.WriteError(w, apierr.NewForbiddenError())
		})
	}
}

// ExtractToken reads the session token from a Bearer header or the
// session cookie, in that order
func ExtractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}

	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}
