package access

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kidsbilling/adjustments/internal/config"
	"github.com/kidsbilling/adjustments/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	credentials CredentialStore
	sessions    *SessionStore
	cfg         config.Session
}

func NewHandler(credentials CredentialStore, sessions *SessionStore, cfg config.Session) *Handler {
	return &Handler{credentials: credentials, sessions: sessions, cfg: cfg}
}

// Login checks the posted user_id and password and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log.Trace("Logging in")

	if err := r.ParseForm(); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid form data", err.Error())
		return
	}
	username := r.PostForm.Get("user_id")
	password := r.PostForm.Get("password")

	acc, err := h.credentials.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Debugf("invalid credentials for user %s", username)
			rest.WriteError(w, http.StatusUnauthorized, "Invalid credentials.", "")
			return
		}
		if errors.Is(err, ErrCredentialsUnavailable) {
			rest.WriteError(w, http.StatusInternalServerError, "Admin file missing.", "")
			return
		}
		log.Errorf("failed to authenticate: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	id, expiresAt := h.sessions.Create(acc)
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	log.Infof("user %s logged in (center %s, administrator %t)", acc.Username, acc.Center, acc.IsAdministrator)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(acc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log.Trace("Logging out")

	if cookie, err := r.Cookie(h.cfg.CookieName); err == nil {
		h.sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Current returns the caller's access context.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	acc, err := Current(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Not logged in", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(acc); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Middleware resolves the session cookie into an access context. Requests without a live
// session are rejected.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cfg.CookieName)
		if err != nil {
			log.Debug("no session cookie")
			rest.WriteError(w, http.StatusUnauthorized, "Not logged in", "")
			return
		}
		acc, err := h.sessions.Get(cookie.Value)
		if err != nil {
			log.Debugf("session not found or expired")
			rest.WriteError(w, http.StatusUnauthorized, "Session expired", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), acc)))
	})
}
