package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mcoot/flip7/internal/model"
	"github.com/mcoot/flip7/internal/services/auth"
)

type contextKey string

const (
	playerContextKey contextKey = "player"

	// SessionCookie carries the same bearer token the API accepts
	SessionCookie = "session"
)

// GetPlayer retrieves the signed-in player from the request context.
// Returns nil for visitors.
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerContextKey).(*model.Player)
	return player
}

// Auth requires a session cookie and sends visitors to the home page,
// remembering where they were going
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			player := playerFromCookie(r, authService)
			if player == nil {
				http.Redirect(w, r, "/?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), playerContextKey, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth sets the player when the cookie is valid and passes visitors through
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			player := playerFromCookie(r, authService)
			ctx := context.WithValue(r.Context(), playerContextKey, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func playerFromCookie(r *http.Request, authService *auth.Service) *model.Player {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}

	player, err := authService.GetPlayer(cookie.Value)
	if err != nil {
		return nil
	}
	return player
}
