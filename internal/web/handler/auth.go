package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/flip7/internal/services/auth"
	"github.com/mcoot/flip7/internal/web/middleware"
)

// AuthHandler handles sign-in forms
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CreateGuest handles POST /auth/guest
func (h *AuthHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	session, err := h.authService.CreateGuestPlayer(r.Context(), r.FormValue("display_name"))
	if err != nil {
		failWith(w, r, "Could not sign in", err, "/")
		return
	}
	h.signedIn(w, r, session, "Welcome, "+session.Player.DisplayName+"!")
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	session, err := h.authService.Login(r.Context(), username, r.FormValue("password"))
	if err != nil {
		failWith(w, r, "Could not log in", err, "/")
		return
	}
	h.signedIn(w, r, session, "Welcome back, "+session.Player.DisplayName+"!")
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	session, err := h.authService.RegisterPlayer(r.Context(), username, r.FormValue("password"), r.FormValue("display_name"))
	if err != nil {
		failWith(w, r, "Could not register", err, "/")
		return
	}
	h.signedIn(w, r, session, "Account created! Welcome, "+session.Player.DisplayName+"!")
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) signedIn(w http.ResponseWriter, r *http.Request, session *auth.Session, greeting string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.SetFlash(w, "success", greeting)

	// Local paths only
	next := r.FormValue("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}
