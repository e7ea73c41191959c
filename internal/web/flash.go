package web

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/vbonduro/nutricoach/internal/logging"
)

const sessionName = "nutricoach"

// flashDanger is the only category the handlers raise; it doubles as the
// banner's CSS modifier.
const flashDanger = "danger"

var flashCategories = []string{flashDanger}

type flashMessage struct {
	Category string
	Message  string
}

// NewCookieStore returns the signed-cookie session store used for flash
// messages. The cookie is scoped to the whole site and hidden from scripts.
func NewCookieStore(secret []byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// session returns the flash session. A cookie that no longer verifies (for
// example after a secret rotation) yields a fresh session.
func (s *Server) session(r *http.Request) *sessions.Session {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		logging.FromContext(r.Context(), s.logger).Debug("discarding unreadable session", "error", err)
	}
	return sess
}

// addFlash queues a one-shot message for the next rendered page. It must run
// before anything is written to w.
func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, category, message string) {
	sess := s.session(r)
	sess.AddFlash(message, category)
	if err := sess.Save(r, w); err != nil {
		logging.FromContext(r.Context(), s.logger).Error("failed to save flash", "error", err)
	}
}

// popFlashes returns and clears all queued messages.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	sess := s.session(r)
	var out []flashMessage
	for _, category := range flashCategories {
		for _, f := range sess.Flashes(category) {
			if msg, ok := f.(string); ok {
				out = append(out, flashMessage{Category: category, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := sess.Save(r, w); err != nil {
			logging.FromContext(r.Context(), s.logger).Error("failed to clear flashes", "error", err, "count", len(out))
		}
	}
	return out
}
