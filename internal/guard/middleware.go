package guard

import (
	"context"
	"net/http"

	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/session"
)

type contextKey string

const holderContextKey contextKey = "session_holder"

// WithHolder returns a context carrying the request's session holder
func WithHolder(ctx context.Context, holder *session.Holder) context.Context {
	return context.WithValue(ctx, holderContextKey, holder)
}

// HolderFrom returns the session holder from the context, or nil
func HolderFrom(ctx context.Context) *session.Holder {
	holder, _ := ctx.Value(holderContextKey).(*session.Holder)
	return holder
}

// DeniedHandler renders the response for a Denied request.
// requestedPath is the path the user was trying to reach.
type DeniedHandler func(w http.ResponseWriter, r *http.Request, requestedPath string)

// Protect returns middleware that renders nothing while Loading, hands
// Denied requests to denied, and passes Granted requests through.
// A request without a holder is treated as Loading.
func Protect(denied DeniedHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var snap session.Snapshot
			if holder := HolderFrom(r.Context()); holder != nil {
				snap = holder.Snapshot()
			}

			switch Evaluate(snap) {
			case Loading:
				w.WriteHeader(http.StatusNoContent)
			case Denied:
				denied(w, r, r.URL.Path)
			case Granted:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireRole returns middleware that lets a signed-in user through only
// if their profile role is one of roles ("ROLE_" prefixes are ignored).
// It must run after Protect.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			holder := HolderFrom(r.Context())
			if holder == nil {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			profile, ok := holder.CurrentProfile()
			if !ok || !model.HasRole(roles, profile.Role) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
