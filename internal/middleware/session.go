package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/AnshRaj112/feedback-notes/internal/models"
	"github.com/AnshRaj112/feedback-notes/internal/services"
)

// SessionCookieName is the cookie holding the opaque session token.
const SessionCookieName = "session"

type sessionCtxKey struct{}

// Session is the per-request view of the visitor. Username is empty for
// anonymous visitors; Token is always set once the middleware ran.
type Session struct {
	Token    string
	Username string
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Username != ""
}

// SessionFrom returns the request's session. It never returns nil.
func SessionFrom(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionCtxKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}

// Sessions binds the Redis session store to cookies.
type Sessions struct {
	store  *services.SessionStore
	secure bool
}

func NewSessions(store *services.SessionStore, secure bool) *Sessions {
	return &Sessions{store: store, secure: secure}
}

// Middleware makes sure every visitor carries a token and resolves it to a username.
func (m *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := &Session{}

		if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
			sess.Token = c.Value
			username, ok, err := m.store.Load(r.Context(), c.Value)
			if err != nil {
				log.Printf("ERROR: failed to load session: %v", err)
			} else if ok {
				sess.Username = username
			}
		}

		if sess.Token == "" {
			token, err := services.NewSessionToken()
			if err != nil {
				log.Printf("ERROR: failed to create session token: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}
			sess.Token = token
			m.setCookie(w, token)
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Login starts an authenticated session for username under a fresh token.
// Pending flashes move over to the new token.
func (m *Sessions) Login(w http.ResponseWriter, r *http.Request, username string) error {
	sess := SessionFrom(r.Context())
	pending, err := m.store.PopFlashes(r.Context(), sess.Token)
	if err != nil {
		log.Printf("⚠️  WARNING: failed to carry flashes across login: %v", err)
	}

	token, err := m.store.Login(r.Context(), username)
	if err != nil {
		return err
	}
	sess.Token = token
	sess.Username = username
	m.setCookie(w, token)

	for _, f := range pending {
		m.Flash(r, f.Category, f.Message)
	}
	return nil
}

// Logout drops the user binding. The cookie stays so the next page can show a flash.
func (m *Sessions) Logout(r *http.Request) error {
	sess := SessionFrom(r.Context())
	if err := m.store.Logout(r.Context(), sess.Token); err != nil {
		return err
	}
	sess.Username = ""
	return nil
}

// InvalidateUser ends username's live session wherever it is used.
func (m *Sessions) InvalidateUser(r *http.Request, username string) error {
	if err := m.store.InvalidateUser(r.Context(), username); err != nil {
		return err
	}
	if sess := SessionFrom(r.Context()); sess.Username == username {
		sess.Username = ""
	}
	return nil
}

// Flash queues a message for the next rendered page. Failures are only logged.
func (m *Sessions) Flash(r *http.Request, category, message string) {
	sess := SessionFrom(r.Context())
	if sess.Token == "" {
		return
	}
	err := m.store.AddFlash(r.Context(), sess.Token, models.Flash{Category: category, Message: message})
	if err != nil {
		log.Printf("⚠️  WARNING: failed to store flash: %v", err)
	}
}

// Flashes pops every queued message.
func (m *Sessions) Flashes(r *http.Request) []models.Flash {
	flashes, err := m.store.PopFlashes(r.Context(), SessionFrom(r.Context()).Token)
	if err != nil {
		log.Printf("⚠️  WARNING: failed to read flashes: %v", err)
		return nil
	}
	return flashes
}

func (m *Sessions) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.store.TTL().Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
