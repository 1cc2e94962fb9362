package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/authz"
	"github.com/wardroomhq/wardroom/internal/session"
)

// Guard gates navigation. The presence gate wraps the whole authenticated
// area; capability gates wrap individual views inside it, by nesting.
type Guard struct {
	sessions *session.Store
	log      zerolog.Logger
}

// NewGuard creates route guards over the session store.
func NewGuard(sessions *session.Store, log zerolog.Logger) *Guard {
	return &Guard{sessions: sessions, log: log}
}

const loadingPlaceholder = `<!doctype html><html><head><meta http-equiv="refresh" content="1"><title>Loading</title></head><body><p>Loading&hellip;</p></body></html>`

// RequireSession is the presence gate: while the session is authenticating or
// refreshing it renders a loading placeholder; when anonymous it redirects to
// the login view, recording the requested location for post-login return.
func (g *Guard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch g.sessions.State() {
		case session.Authenticating, session.Refreshing:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(loadingPlaceholder))
			return
		case session.Anonymous:
			target := r.URL.Path
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, "/login?next="+url.QueryEscape(target), http.StatusFound)
			return
		}
		ctx := WithIdentity(r.Context(), g.sessions.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireCapability is the capability gate: when the predicate is false for
// the current identity the request is redirected to the default landing view
// with no error banner, and the guarded handler never runs.
func (g *Guard) RequireCapability(allowed func(authz.Policy) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pol := authz.For(IdentityFromContext(r.Context()))
			if !allowed(pol) {
				g.log.Debug().Str("path", r.URL.Path).Msg("capability denied")
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SafeNext returns next when it is a local path, otherwise the dashboard.
// Open redirects through the login form are not allowed.
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}
