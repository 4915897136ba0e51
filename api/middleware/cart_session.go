package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kartik48/sunitas-creations/internal/identity"
	"github.com/kartik48/sunitas-creations/pkg/config"
)

const cartSessionTTL = 30 * 24 * time.Hour

// CartSession guarantees every cart request has a guest session identifier.
// A missing or unreadable cookie gets a fresh UUID, set on the response so
// the browser carries the same cart across visits.
func CartSession(cfg config.CartConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.SessionCookieName); err == nil {
				if _, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					Expires:  time.Now().Add(cartSessionTTL),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := identity.WithSessionID(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
