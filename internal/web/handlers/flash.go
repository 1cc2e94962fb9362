package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const flashCookieName = "wardroom_flash"

// Flash carries dismissable one-shot notifications across a redirect on a
// signed cookie. Transient errors surface here; authorization failures never
// do — those redirect silently.
type Flash struct {
	store sessions.Store
}

// NewFlash creates a flash store signed with secret.
func NewFlash(secret string, isDevelopment bool) *Flash {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   !isDevelopment,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flash{store: cs}
}

// Add queues a notification for the next rendered page.
func (f *Flash) Add(w http.ResponseWriter, r *http.Request, msg string) {
	sess, _ := f.store.Get(r, flashCookieName)
	sess.AddFlash(msg)
	_ = sess.Save(r, w)
}

// Pop drains and returns all queued notifications.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) []string {
	sess, _ := f.store.Get(r, flashCookieName)
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save(r, w)
	}
	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
